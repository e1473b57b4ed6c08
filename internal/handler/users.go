package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/togetherdine/server/internal/model"
	"github.com/togetherdine/server/internal/service"
)

// UserHandler holds the HTTP handlers for users and their
// availabilities.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Upsert handles POST /users
// Creates or replaces a user by id.
func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := decodeJSON(r, &user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	saved, err := h.svc.Upsert(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SetAvailabilities handles PUT /users/{id}/availabilities
// Replaces the user's entire free-time sequence.
func (h *UserHandler) SetAvailabilities(w http.ResponseWriter, r *http.Request) {
	var slots []model.TimeSlot
	if err := decodeJSON(r, &slots); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	saved, err := h.svc.SetAvailabilities(r.Context(), chi.URLParam(r, "id"), slots)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// GetAvailabilities handles GET /users/{id}/availabilities
func (h *UserHandler) GetAvailabilities(w http.ResponseWriter, r *http.Request) {
	slots, err := h.svc.GetAvailabilities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}
