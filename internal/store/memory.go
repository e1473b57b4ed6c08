package store

import (
	"context"
	"sort"
	"sync"

	"github.com/togetherdine/server/internal/model"
)

// Memory is the default Store backend: plain maps behind a RWMutex.
// Nothing survives a restart, which is all the service promises anyway.
type Memory struct {
	mu             sync.RWMutex
	users          map[string]model.User
	restaurants    map[string]model.Restaurant
	availabilities map[string][]model.TimeSlot
	invitations    map[string]model.Invitation
	calendarEvents map[string]model.CalendarEvent
	votes          map[string]map[string]model.Vote
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:          make(map[string]model.User),
		restaurants:    make(map[string]model.Restaurant),
		availabilities: make(map[string][]model.TimeSlot),
		invitations:    make(map[string]model.Invitation),
		calendarEvents: make(map[string]model.CalendarEvent),
		votes:          make(map[string]map[string]model.Vote),
	}
}

func (m *Memory) UpsertUser(_ context.Context, user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.Wishlist = append([]string(nil), user.Wishlist...)
	user.Visited = append([]string(nil), user.Visited...)
	m.users[user.ID] = user
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return copyUser(user), nil
}

func (m *Memory) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]model.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, copyUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *Memory) UpsertRestaurant(_ context.Context, restaurant model.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	restaurant.Tags = append([]string(nil), restaurant.Tags...)
	m.restaurants[restaurant.ID] = restaurant
	return nil
}

func (m *Memory) GetRestaurant(_ context.Context, id string) (model.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	restaurant, ok := m.restaurants[id]
	if !ok {
		return model.Restaurant{}, ErrNotFound
	}
	return copyRestaurant(restaurant), nil
}

func (m *Memory) ListRestaurants(_ context.Context) ([]model.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	restaurants := make([]model.Restaurant, 0, len(m.restaurants))
	for _, restaurant := range m.restaurants {
		restaurants = append(restaurants, copyRestaurant(restaurant))
	}
	sort.Slice(restaurants, func(i, j int) bool { return restaurants[i].ID < restaurants[j].ID })
	return restaurants, nil
}

func (m *Memory) SetAvailabilities(_ context.Context, userID string, slots []model.TimeSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.availabilities[userID] = append([]model.TimeSlot(nil), slots...)
	return nil
}

func (m *Memory) GetAvailabilities(_ context.Context, userID string) ([]model.TimeSlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.TimeSlot(nil), m.availabilities[userID]...), nil
}

func (m *Memory) UpsertInvitation(_ context.Context, invitation model.Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitations[invitation.ID] = copyInvitation(invitation)
	return nil
}

func (m *Memory) GetInvitation(_ context.Context, id string) (model.Invitation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	invitation, ok := m.invitations[id]
	if !ok {
		return model.Invitation{}, ErrNotFound
	}
	return copyInvitation(invitation), nil
}

func (m *Memory) ListInvitations(_ context.Context) ([]model.Invitation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	invitations := make([]model.Invitation, 0, len(m.invitations))
	for _, invitation := range m.invitations {
		invitations = append(invitations, copyInvitation(invitation))
	}
	sort.Slice(invitations, func(i, j int) bool { return invitations[i].ID < invitations[j].ID })
	return invitations, nil
}

func (m *Memory) SaveCalendarEvent(_ context.Context, event model.CalendarEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calendarEvents[event.InvitationID] = event
	return nil
}

func (m *Memory) GetCalendarEvent(_ context.Context, invitationID string) (model.CalendarEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	event, ok := m.calendarEvents[invitationID]
	if !ok {
		return model.CalendarEvent{}, ErrNotFound
	}
	return event, nil
}

func (m *Memory) RecordVote(_ context.Context, vote model.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byUser, ok := m.votes[vote.InvitationID]
	if !ok {
		byUser = make(map[string]model.Vote)
		m.votes[vote.InvitationID] = byUser
	}
	byUser[vote.UserID] = vote
	return nil
}

func (m *Memory) GetVotes(_ context.Context, invitationID string) ([]model.Vote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	votes := make([]model.Vote, 0, len(m.votes[invitationID]))
	for _, vote := range m.votes[invitationID] {
		votes = append(votes, vote)
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].UserID < votes[j].UserID })
	return votes, nil
}

// Copy helpers keep callers from mutating stored state through shared
// slices. Options are treated as immutable values so a shallow element
// copy is enough.

func copyUser(user model.User) model.User {
	user.Wishlist = append([]string(nil), user.Wishlist...)
	user.Visited = append([]string(nil), user.Visited...)
	return user
}

func copyRestaurant(restaurant model.Restaurant) model.Restaurant {
	restaurant.Tags = append([]string(nil), restaurant.Tags...)
	if restaurant.Rating != nil {
		rating := *restaurant.Rating
		restaurant.Rating = &rating
	}
	return restaurant
}

func copyInvitation(invitation model.Invitation) model.Invitation {
	invitation.ParticipantIDs = append([]string(nil), invitation.ParticipantIDs...)
	invitation.CandidateRestaurantIDs = append([]string(nil), invitation.CandidateRestaurantIDs...)
	invitation.CandidateSlots = append([]model.TimeSlot(nil), invitation.CandidateSlots...)
	invitation.TopOptions = append([]model.InvitationOption(nil), invitation.TopOptions...)
	if invitation.ConfirmedOption != nil {
		option := *invitation.ConfirmedOption
		invitation.ConfirmedOption = &option
	}
	return invitation
}
