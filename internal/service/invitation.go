package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/togetherdine/server/internal/model"
	"github.com/togetherdine/server/internal/store"
)

// InvitationService orchestrates the invitation lifecycle: build
// (score and rank candidate options) and confirm (commit one option and
// synthesize its links).
type InvitationService struct {
	store store.Store
}

// NewInvitationService constructs an InvitationService with its store
// dependency.
func NewInvitationService(st store.Store) *InvitationService {
	return &InvitationService{store: st}
}

// DefaultTopLimit is how many options a build keeps when the caller
// doesn't say otherwise.
const DefaultTopLimit = 3

// Build validates the draft, ranks the restaurant/slot cross product,
// attaches the top options, and persists the invitation. All resolution
// and scoring happen before the single upsert, so a failed build leaves
// no trace.
func (s *InvitationService) Build(ctx context.Context, req model.BuildInvitationRequest) (*model.Invitation, error) {
	limit := req.TopLimit
	if limit == 0 {
		limit = DefaultTopLimit
	}
	if limit < 0 {
		return nil, fmt.Errorf("top limit must be positive: %w", ErrInvalidArgument)
	}
	if len(req.CandidateSlots) == 0 {
		return nil, fmt.Errorf("at least one candidate slot is required: %w", ErrInvalidArgument)
	}
	for _, slot := range req.CandidateSlots {
		if !slot.End.After(slot.Start) {
			return nil, fmt.Errorf("slot end must be after start: %w", ErrInvalidArgument)
		}
	}

	invitation := model.Invitation{
		ID:                     req.ID,
		OrganizerID:            req.OrganizerID,
		ParticipantIDs:         req.ParticipantIDs,
		CandidateRestaurantIDs: req.CandidateRestaurantIDs,
		CandidateSlots:         req.CandidateSlots,
	}
	if invitation.ID == "" {
		invitation.ID = uuid.New().String()
	}

	options, err := s.generateTopOptions(ctx, invitation, limit)
	if err != nil {
		return nil, err
	}
	invitation.TopOptions = options

	if err := s.store.UpsertInvitation(ctx, invitation); err != nil {
		return nil, fmt.Errorf("persist invitation: %w", err)
	}
	return &invitation, nil
}

// Confirm commits one of the invitation's top options by index,
// synthesizing the calendar and reservation links. The links are a pure
// function of (invitation id, option index), so repeating a confirm
// with the same arguments produces identical output. Confirming an
// already-confirmed invitation overwrites the earlier choice.
func (s *InvitationService) Confirm(ctx context.Context, invitationID string, optionIndex int) (*model.Invitation, error) {
	invitation, err := s.store.GetInvitation(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("invitation %q: %w", invitationID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if optionIndex < 0 || optionIndex >= len(invitation.TopOptions) {
		return nil, fmt.Errorf("option index %d out of range: %w", optionIndex, ErrInvalidArgument)
	}

	option := invitation.TopOptions[optionIndex]
	invitation.ConfirmedOption = &option
	invitation.CalendarLink = fmt.Sprintf("https://calendar.example.com/events/%s-%d", invitation.ID, optionIndex)
	invitation.ReservationLink = fmt.Sprintf("https://reservations.example.com/%s?slot=%s",
		option.RestaurantID, option.SlotStart.Format(time.RFC3339))

	if err := s.store.UpsertInvitation(ctx, invitation); err != nil {
		return nil, fmt.Errorf("persist invitation: %w", err)
	}

	event := model.CalendarEvent{
		InvitationID: invitation.ID,
		Option:       option,
		URL:          invitation.CalendarLink,
	}
	if err := s.store.SaveCalendarEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("save calendar event: %w", err)
	}
	return &invitation, nil
}

// Get returns a single invitation by id.
func (s *InvitationService) Get(ctx context.Context, id string) (*model.Invitation, error) {
	invitation, err := s.store.GetInvitation(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return &invitation, nil
}

// List returns all invitations.
func (s *InvitationService) List(ctx context.Context) ([]model.Invitation, error) {
	return s.store.ListInvitations(ctx)
}

// CastVote records a participant's preference for one of an
// invitation's top options. A user's later vote replaces their earlier
// one.
func (s *InvitationService) CastVote(ctx context.Context, invitationID, userID string, optionIndex int) (*model.Vote, error) {
	invitation, err := s.store.GetInvitation(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("invitation %q: %w", invitationID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user %q: %w", userID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if optionIndex < 0 || optionIndex >= len(invitation.TopOptions) {
		return nil, fmt.Errorf("option index %d out of range: %w", optionIndex, ErrInvalidArgument)
	}

	vote := model.Vote{
		InvitationID: invitationID,
		UserID:       userID,
		OptionIndex:  optionIndex,
	}
	if err := s.store.RecordVote(ctx, vote); err != nil {
		return nil, fmt.Errorf("record vote: %w", err)
	}
	return &vote, nil
}

// Votes returns all recorded votes for an invitation.
func (s *InvitationService) Votes(ctx context.Context, invitationID string) ([]model.Vote, error) {
	if _, err := s.store.GetInvitation(ctx, invitationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("invitation %q: %w", invitationID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	votes, err := s.store.GetVotes(ctx, invitationID)
	if err != nil {
		return nil, fmt.Errorf("get votes: %w", err)
	}
	if votes == nil {
		votes = []model.Vote{}
	}
	return votes, nil
}

// CalendarEvent returns the calendar entry produced by confirmation,
// or NotFound when the invitation hasn't been confirmed yet.
func (s *InvitationService) CalendarEvent(ctx context.Context, invitationID string) (*model.CalendarEvent, error) {
	event, err := s.store.GetCalendarEvent(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get calendar event: %w", err)
	}
	return &event, nil
}
