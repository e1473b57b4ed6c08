package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/togetherdine/server/internal/model"
	"github.com/togetherdine/server/internal/store"
)

func setAvailability(t *testing.T, st store.Store, userID string, slots ...model.TimeSlot) {
	t.Helper()
	if err := st.SetAvailabilities(context.Background(), userID, slots); err != nil {
		t.Fatalf("set availability for %s: %v", userID, err)
	}
}

// Mirrors the three-diner scenario: alice and bob both want sushi and
// share slot A, carol wants ramen but is only free for slot B. The
// sushi/slotA pairing must rank first with alice and bob attending.
func TestBuildRanksGroupScenario(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewInvitationService(st)

	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	slotA := slotAt(base, 24, 26)
	slotB := slotAt(base, 48, 50)

	seedUser(t, st, "alice", []string{"sushi", "ramen"}, 0, 0)
	seedUser(t, st, "bob", []string{"sushi"}, 0, 0.1)
	seedUser(t, st, "carol", []string{"ramen"}, 0, -0.1)
	setAvailability(t, st, "alice", slotA)
	setAvailability(t, st, "bob", slotA)
	setAvailability(t, st, "carol", slotB)

	seedRestaurant(t, st, "sushi", 0, 0)
	seedRestaurant(t, st, "ramen", 1, 1)

	invitation, err := svc.Build(ctx, model.BuildInvitationRequest{
		ID:                     "inv-1",
		OrganizerID:            "alice",
		ParticipantIDs:         []string{"alice", "bob", "carol"},
		CandidateRestaurantIDs: []string{"sushi", "ramen"},
		CandidateSlots:         []model.TimeSlot{slotA, slotB},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(invitation.TopOptions) == 0 {
		t.Fatal("no options generated")
	}
	top := invitation.TopOptions[0]
	if top.RestaurantID != "sushi" {
		t.Errorf("top option restaurant = %s, want sushi", top.RestaurantID)
	}
	if !top.SlotStart.Equal(slotA.Start) {
		t.Errorf("top option slot start = %v, want %v", top.SlotStart, slotA.Start)
	}
	if len(top.Participants) != 2 || top.Participants[0] != "alice" || top.Participants[1] != "bob" {
		t.Errorf("top option participants = %v, want [alice bob]", top.Participants)
	}
	if invitation.ConfirmedOption != nil || invitation.CalendarLink != "" || invitation.ReservationLink != "" {
		t.Error("freshly built invitation must not be confirmed")
	}

	// The build persisted the invitation with its options attached.
	stored, err := st.GetInvitation(ctx, "inv-1")
	if err != nil {
		t.Fatalf("stored invitation: %v", err)
	}
	if len(stored.TopOptions) != len(invitation.TopOptions) {
		t.Errorf("stored %d options, returned %d", len(stored.TopOptions), len(invitation.TopOptions))
	}
}

func TestBuildDefaultsAndLimits(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewInvitationService(st)

	seedRestaurant(t, st, "a", 0, 0)

	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	slots := make([]model.TimeSlot, 5)
	for i := range slots {
		slots[i] = slotAt(base, i*24, i*24+2)
	}

	invitation, err := svc.Build(ctx, model.BuildInvitationRequest{
		ID:                     "inv-default-limit",
		CandidateRestaurantIDs: []string{"a"},
		CandidateSlots:         slots,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(invitation.TopOptions) != DefaultTopLimit {
		t.Errorf("default limit kept %d options, want %d", len(invitation.TopOptions), DefaultTopLimit)
	}

	_, err = svc.Build(ctx, model.BuildInvitationRequest{
		ID:                     "inv-bad-limit",
		CandidateRestaurantIDs: []string{"a"},
		CandidateSlots:         slots,
		TopLimit:               -1,
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative limit should be InvalidArgument, got %v", err)
	}
}

func TestBuildGeneratesIDWhenBlank(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewInvitationService(st)

	seedRestaurant(t, st, "a", 0, 0)
	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)

	invitation, err := svc.Build(ctx, model.BuildInvitationRequest{
		CandidateRestaurantIDs: []string{"a"},
		CandidateSlots:         []model.TimeSlot{slotAt(base, 0, 2)},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if invitation.ID == "" {
		t.Fatal("blank draft id should be replaced with a generated one")
	}
	if _, err := st.GetInvitation(ctx, invitation.ID); err != nil {
		t.Errorf("generated id not persisted: %v", err)
	}
}

func TestBuildRejectsMalformedSlots(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewInvitationService(st)
	seedRestaurant(t, st, "a", 0, 0)

	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		slots []model.TimeSlot
	}{
		{"no slots", nil},
		{"end before start", []model.TimeSlot{{Start: base.Add(2 * time.Hour), End: base}}},
		{"zero-length slot", []model.TimeSlot{{Start: base, End: base}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Build(ctx, model.BuildInvitationRequest{
				ID:                     "inv-bad",
				CandidateRestaurantIDs: []string{"a"},
				CandidateSlots:         tt.slots,
			})
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("want InvalidArgument, got %v", err)
			}
		})
	}
}

func TestBuildFailureLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewInvitationService(st)

	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	_, err := svc.Build(ctx, model.BuildInvitationRequest{
		ID:                     "inv-ghost",
		ParticipantIDs:         []string{"nobody"},
		CandidateRestaurantIDs: []string{"nowhere"},
		CandidateSlots:         []model.TimeSlot{slotAt(base, 0, 2)},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want NotFound, got %v", err)
	}
	if _, err := st.GetInvitation(ctx, "inv-ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Error("failed build must not persist a partial invitation")
	}
}

// Mirrors the single-host scenario: build then confirm index 0 yields a
// confirmed option and both links.
func TestConfirmSetsOptionAndLinks(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewInvitationService(st)

	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	slot := slotAt(base, 24, 26)

	seedUser(t, st, "host", []string{"bbq"}, 0, 0)
	setAvailability(t, st, "host", slot)
	seedRestaurant(t, st, "bbq", 0, 0)

	if _, err := svc.Build(ctx, model.BuildInvitationRequest{
		ID:                     "inv-2",
		OrganizerID:            "host",
		ParticipantIDs:         []string{"host"},
		CandidateRestaurantIDs: []string{"bbq"},
		CandidateSlots:         []model.TimeSlot{slot},
	}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	confirmed, err := svc.Confirm(ctx, "inv-2", 0)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if confirmed.ConfirmedOption == nil {
		t.Fatal("ConfirmedOption is nil")
	}
	if confirmed.ConfirmedOption.RestaurantID != "bbq" {
		t.Errorf("confirmed restaurant = %s, want bbq", confirmed.ConfirmedOption.RestaurantID)
	}

	wantCalendar := "https://calendar.example.com/events/inv-2-0"
	if confirmed.CalendarLink != wantCalendar {
		t.Errorf("CalendarLink = %q, want %q", confirmed.CalendarLink, wantCalendar)
	}
	wantReservation := fmt.Sprintf("https://reservations.example.com/bbq?slot=%s", slot.Start.Format(time.RFC3339))
	if confirmed.ReservationLink != wantReservation {
		t.Errorf("ReservationLink = %q, want %q", confirmed.ReservationLink, wantReservation)
	}

	// The confirmed option must be one of the stored top options.
	stored, err := st.GetInvitation(ctx, "inv-2")
	if err != nil {
		t.Fatalf("stored invitation: %v", err)
	}
	found := false
	for _, option := range stored.TopOptions {
		if option.RestaurantID == stored.ConfirmedOption.RestaurantID &&
			option.SlotStart.Equal(stored.ConfirmedOption.SlotStart) {
			found = true
		}
	}
	if !found {
		t.Error("confirmed option is not one of the stored top options")
	}

	// Confirmation also records a calendar event.
	event, err := svc.CalendarEvent(ctx, "inv-2")
	if err != nil {
		t.Fatalf("CalendarEvent: %v", err)
	}
	if event.URL != wantCalendar {
		t.Errorf("calendar event URL = %q, want %q", event.URL, wantCalendar)
	}
}

func TestConfirmIsDeterministic(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewInvitationService(st)

	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	slot := slotAt(base, 24, 26)
	seedRestaurant(t, st, "bbq", 0, 0)

	if _, err := svc.Build(ctx, model.BuildInvitationRequest{
		ID:                     "inv-repeat",
		CandidateRestaurantIDs: []string{"bbq"},
		CandidateSlots:         []model.TimeSlot{slot},
	}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	first, err := svc.Confirm(ctx, "inv-repeat", 0)
	if err != nil {
		t.Fatalf("first Confirm: %v", err)
	}
	second, err := svc.Confirm(ctx, "inv-repeat", 0)
	if err != nil {
		t.Fatalf("second Confirm: %v", err)
	}
	if first.CalendarLink != second.CalendarLink {
		t.Errorf("calendar links differ: %q vs %q", first.CalendarLink, second.CalendarLink)
	}
	if first.ReservationLink != second.ReservationLink {
		t.Errorf("reservation links differ: %q vs %q", first.ReservationLink, second.ReservationLink)
	}
}

func TestReconfirmOverwrites(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewInvitationService(st)

	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	slotA := slotAt(base, 0, 2)
	slotB := slotAt(base, 24, 26)
	seedRestaurant(t, st, "bbq", 0, 0)

	if _, err := svc.Build(ctx, model.BuildInvitationRequest{
		ID:                     "inv-rewrite",
		CandidateRestaurantIDs: []string{"bbq"},
		CandidateSlots:         []model.TimeSlot{slotA, slotB},
	}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := svc.Confirm(ctx, "inv-rewrite", 0); err != nil {
		t.Fatalf("Confirm index 0: %v", err)
	}
	second, err := svc.Confirm(ctx, "inv-rewrite", 1)
	if err != nil {
		t.Fatalf("Confirm index 1: %v", err)
	}
	if second.CalendarLink != "https://calendar.example.com/events/inv-rewrite-1" {
		t.Errorf("re-confirm did not overwrite links: %q", second.CalendarLink)
	}
	if !second.ConfirmedOption.SlotStart.Equal(slotB.Start) {
		t.Errorf("re-confirm kept old option: %v", second.ConfirmedOption.SlotStart)
	}
}

func TestConfirmErrors(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewInvitationService(st)

	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	slot := slotAt(base, 0, 2)
	seedRestaurant(t, st, "bbq", 0, 0)

	if _, err := svc.Build(ctx, model.BuildInvitationRequest{
		ID:                     "inv-errs",
		CandidateRestaurantIDs: []string{"bbq"},
		CandidateSlots:         []model.TimeSlot{slot},
	}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := svc.Confirm(ctx, "no-such-invitation", 0); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown invitation: want NotFound, got %v", err)
	}
	if _, err := svc.Confirm(ctx, "inv-errs", -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("index -1: want InvalidArgument, got %v", err)
	}
	if _, err := svc.Confirm(ctx, "inv-errs", 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("index == len(options): want InvalidArgument, got %v", err)
	}
}

func TestVotes(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewInvitationService(st)

	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	slotA := slotAt(base, 0, 2)
	slotB := slotAt(base, 24, 26)

	seedUser(t, st, "alice", nil, 0, 0)
	seedUser(t, st, "bob", nil, 0, 0)
	seedRestaurant(t, st, "bbq", 0, 0)

	if _, err := svc.Build(ctx, model.BuildInvitationRequest{
		ID:                     "inv-votes",
		ParticipantIDs:         []string{"alice", "bob"},
		CandidateRestaurantIDs: []string{"bbq"},
		CandidateSlots:         []model.TimeSlot{slotA, slotB},
	}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := svc.CastVote(ctx, "inv-votes", "alice", 0); err != nil {
		t.Fatalf("alice vote: %v", err)
	}
	if _, err := svc.CastVote(ctx, "inv-votes", "bob", 1); err != nil {
		t.Fatalf("bob vote: %v", err)
	}
	// alice changes her mind; her earlier vote is replaced.
	if _, err := svc.CastVote(ctx, "inv-votes", "alice", 1); err != nil {
		t.Fatalf("alice re-vote: %v", err)
	}

	votes, err := svc.Votes(ctx, "inv-votes")
	if err != nil {
		t.Fatalf("Votes: %v", err)
	}
	if len(votes) != 2 {
		t.Fatalf("got %d votes, want 2", len(votes))
	}
	for _, vote := range votes {
		if vote.OptionIndex != 1 {
			t.Errorf("vote by %s has index %d, want 1", vote.UserID, vote.OptionIndex)
		}
	}

	if _, err := svc.CastVote(ctx, "inv-votes", "alice", 5); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("out-of-range vote: want InvalidArgument, got %v", err)
	}
	if _, err := svc.CastVote(ctx, "inv-votes", "ghost", 0); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown voter: want NotFound, got %v", err)
	}
	if _, err := svc.CastVote(ctx, "no-such", "alice", 0); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown invitation: want NotFound, got %v", err)
	}
}

func TestCalendarEventBeforeConfirmIsNotFound(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewInvitationService(st)

	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	seedRestaurant(t, st, "bbq", 0, 0)
	if _, err := svc.Build(ctx, model.BuildInvitationRequest{
		ID:                     "inv-unconfirmed",
		CandidateRestaurantIDs: []string{"bbq"},
		CandidateSlots:         []model.TimeSlot{slotAt(base, 0, 2)},
	}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := svc.CalendarEvent(ctx, "inv-unconfirmed"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("want NotFound before confirmation, got %v", err)
	}
}
