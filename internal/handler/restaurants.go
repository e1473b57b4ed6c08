package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/togetherdine/server/internal/model"
	"github.com/togetherdine/server/internal/service"
)

// RestaurantHandler holds the HTTP handlers for restaurants.
type RestaurantHandler struct {
	svc *service.RestaurantService
}

// NewRestaurantHandler constructs a RestaurantHandler.
func NewRestaurantHandler(svc *service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{svc: svc}
}

// Upsert handles POST /restaurants
// Creates or replaces a restaurant by id.
func (h *RestaurantHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var restaurant model.Restaurant
	if err := decodeJSON(r, &restaurant); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	saved, err := h.svc.Upsert(r.Context(), restaurant)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// List handles GET /restaurants
func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list restaurants")
		return
	}
	if restaurants == nil {
		restaurants = []model.Restaurant{}
	}
	writeJSON(w, http.StatusOK, restaurants)
}

// Get handles GET /restaurants/{id}
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}
