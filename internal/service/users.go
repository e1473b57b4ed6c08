package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/togetherdine/server/internal/model"
	"github.com/togetherdine/server/internal/store"
)

// UserService orchestrates user and availability operations.
type UserService struct {
	store store.Store
}

// NewUserService constructs a UserService with its store dependency.
func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

// Upsert creates or replaces a user by id.
func (s *UserService) Upsert(ctx context.Context, user model.User) (*model.User, error) {
	user.ID = strings.TrimSpace(user.ID)
	user.Name = strings.TrimSpace(user.Name)
	if user.ID == "" {
		return nil, fmt.Errorf("user id is required: %w", ErrInvalidArgument)
	}
	if user.Name == "" {
		return nil, fmt.Errorf("user name is required: %w", ErrInvalidArgument)
	}
	if user.Wishlist == nil {
		user.Wishlist = []string{}
	}
	if user.Visited == nil {
		user.Visited = []string{}
	}
	if err := s.store.UpsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &user, nil
}

// Get returns a single user by id.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.store.ListUsers(ctx)
}

// SetAvailabilities replaces the user's entire free-time sequence.
// Callers that want earlier windows retained must include them.
func (s *UserService) SetAvailabilities(ctx context.Context, userID string, slots []model.TimeSlot) ([]model.TimeSlot, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	for _, slot := range slots {
		if !slot.End.After(slot.Start) {
			return nil, fmt.Errorf("availability end must be after start: %w", ErrInvalidArgument)
		}
	}
	if err := s.store.SetAvailabilities(ctx, userID, slots); err != nil {
		return nil, fmt.Errorf("set availabilities: %w", err)
	}
	if slots == nil {
		slots = []model.TimeSlot{}
	}
	return slots, nil
}

// GetAvailabilities returns the user's stored free-time sequence,
// empty if none has been set.
func (s *UserService) GetAvailabilities(ctx context.Context, userID string) ([]model.TimeSlot, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	slots, err := s.store.GetAvailabilities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get availabilities: %w", err)
	}
	if slots == nil {
		slots = []model.TimeSlot{}
	}
	return slots, nil
}
