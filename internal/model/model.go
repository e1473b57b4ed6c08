// Package model defines the core domain types for the dining
// coordination system.
package model

import (
	"time"

	"github.com/togetherdine/server/internal/geo"
)

// User represents a diner who can be invited to group meals.
type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Wishlist []string `json:"wishlist"`
	Visited  []string `json:"visited"`
	geo.Point
}

// Wishlisted reports whether the user's wishlist contains the restaurant.
func (u *User) Wishlisted(restaurantID string) bool {
	for _, id := range u.Wishlist {
		if id == restaurantID {
			return true
		}
	}
	return false
}

// Restaurant represents a candidate dining venue.
type Restaurant struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Tags   []string `json:"tags"`
	Rating *float64 `json:"rating"`
	geo.Point
}

// TimeSlot is a half-open time interval [Start, End).
// It doubles as a user's free-time window and as a candidate dining slot.
type TimeSlot struct {
	Start time.Time `json:"slot_start"`
	End   time.Time `json:"slot_end"`
}

// Contains reports whether the slot fully encloses other.
// Partial overlap does not count.
func (s TimeSlot) Contains(other TimeSlot) bool {
	return !s.Start.After(other.Start) && !s.End.Before(other.End)
}

// InvitationOption is one scored (restaurant, slot) pairing. Options are
// immutable once attached to an invitation; confirmation only selects one.
type InvitationOption struct {
	RestaurantID      string    `json:"restaurant_id"`
	SlotStart         time.Time `json:"slot_start"`
	SlotEnd           time.Time `json:"slot_end"`
	Participants      []string  `json:"participants"`
	IntersectionRatio float64   `json:"intersection_ratio"`
	AvailabilityRatio float64   `json:"availability_ratio"`
	ConvenienceScore  float64   `json:"convenience_score"`
	TotalScore        float64   `json:"total_score"`
}

// Invitation is a group dining invitation. TopOptions stays empty until
// the invitation has been built; ConfirmedOption and the two links are
// populated together by confirmation.
type Invitation struct {
	ID                     string             `json:"id"`
	OrganizerID            string             `json:"organizer_id"`
	ParticipantIDs         []string           `json:"participant_ids"`
	CandidateRestaurantIDs []string           `json:"candidate_restaurant_ids"`
	CandidateSlots         []TimeSlot         `json:"candidate_slots"`
	TopOptions             []InvitationOption `json:"top_options"`
	ConfirmedOption        *InvitationOption  `json:"confirmed_option"`
	CalendarLink           string             `json:"calendar_link,omitempty"`
	ReservationLink        string             `json:"reservation_link,omitempty"`
}

// CalendarEvent records the synthetic calendar entry produced when an
// invitation is confirmed.
type CalendarEvent struct {
	InvitationID string           `json:"invitation_id"`
	Option       InvitationOption `json:"option"`
	URL          string           `json:"url"`
}

// Vote records one participant's preference for an option of an
// invitation. A later vote by the same user replaces the earlier one.
type Vote struct {
	InvitationID string `json:"invitation_id"`
	UserID       string `json:"user_id"`
	OptionIndex  int    `json:"option_index"`
}

// BuildInvitationRequest is the payload for creating an invitation.
// Leaving ID blank asks the server to generate one.
type BuildInvitationRequest struct {
	ID                     string     `json:"id"`
	OrganizerID            string     `json:"organizer_id"`
	ParticipantIDs         []string   `json:"participant_ids"`
	CandidateRestaurantIDs []string   `json:"candidate_restaurant_ids"`
	CandidateSlots         []TimeSlot `json:"candidate_slots"`
	TopLimit               int        `json:"top_limit"`
}

// ConfirmRequest is the payload for confirming one of an invitation's
// top options.
type ConfirmRequest struct {
	UserID      string `json:"user_id"`
	OptionIndex int    `json:"option_index"`
}

// VoteRequest is the payload for voting on an option.
type VoteRequest struct {
	UserID      string `json:"user_id"`
	OptionIndex int    `json:"option_index"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
