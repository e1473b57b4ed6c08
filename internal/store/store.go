// Package store defines the entity store the dining coordination
// service reads and writes, plus its interchangeable backends:
// in-memory (default), PostgreSQL, and Redis.
package store

import (
	"context"
	"errors"

	"github.com/togetherdine/server/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Store is a key-value style entity store. All writes are upserts by id
// and must be atomic: a concurrent read never observes a half-written
// entity.
type Store interface {
	UpsertUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, id string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	UpsertRestaurant(ctx context.Context, restaurant model.Restaurant) error
	GetRestaurant(ctx context.Context, id string) (model.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]model.Restaurant, error)

	// SetAvailabilities replaces the user's entire free-time sequence.
	SetAvailabilities(ctx context.Context, userID string, slots []model.TimeSlot) error
	// GetAvailabilities returns the stored sequence, empty if none set.
	GetAvailabilities(ctx context.Context, userID string) ([]model.TimeSlot, error)

	UpsertInvitation(ctx context.Context, invitation model.Invitation) error
	GetInvitation(ctx context.Context, id string) (model.Invitation, error)
	ListInvitations(ctx context.Context) ([]model.Invitation, error)

	SaveCalendarEvent(ctx context.Context, event model.CalendarEvent) error
	GetCalendarEvent(ctx context.Context, invitationID string) (model.CalendarEvent, error)

	// RecordVote stores a vote keyed by (invitation, user); a repeat vote
	// by the same user replaces the earlier one.
	RecordVote(ctx context.Context, vote model.Vote) error
	GetVotes(ctx context.Context, invitationID string) ([]model.Vote, error)
}
