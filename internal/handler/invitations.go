package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/togetherdine/server/internal/model"
	"github.com/togetherdine/server/internal/service"
)

// InvitationHandler holds the HTTP handlers for the invitation
// lifecycle.
type InvitationHandler struct {
	svc *service.InvitationService
}

// NewInvitationHandler constructs an InvitationHandler.
func NewInvitationHandler(svc *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{svc: svc}
}

// Build handles POST /invitations
// Scores the restaurant/slot cross product and returns the built
// invitation with its ranked top options attached.
func (h *InvitationHandler) Build(w http.ResponseWriter, r *http.Request) {
	var req model.BuildInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	invitation, err := h.svc.Build(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invitation)
}

// List handles GET /invitations
func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list invitations")
		return
	}
	if invitations == nil {
		invitations = []model.Invitation{}
	}
	writeJSON(w, http.StatusOK, invitations)
}

// Get handles GET /invitations/{id}
func (h *InvitationHandler) Get(w http.ResponseWriter, r *http.Request) {
	invitation, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

// Confirm handles POST /invitations/{id}/confirm
// Commits one of the invitation's top options by index.
func (h *InvitationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req model.ConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	invitation, err := h.svc.Confirm(r.Context(), chi.URLParam(r, "id"), req.OptionIndex)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

// CastVote handles POST /invitations/{id}/votes
func (h *InvitationHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req model.VoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	vote, err := h.svc.CastVote(r.Context(), chi.URLParam(r, "id"), req.UserID, req.OptionIndex)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vote)
}

// ListVotes handles GET /invitations/{id}/votes
func (h *InvitationHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.svc.Votes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, votes)
}

// GetCalendarEvent handles GET /invitations/{id}/calendar-event
// Returns the calendar entry created by confirmation.
func (h *InvitationHandler) GetCalendarEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.CalendarEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}
