package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/togetherdine/server/internal/model"
)

// Key prefixes for the Redis backend.
const (
	userKeyPrefix       = "user:"
	restaurantKeyPrefix = "restaurant:"
	availabilityPrefix  = "avail:"
	invitationKeyPrefix = "invitation:"
	calendarKeyPrefix   = "event:"
	votesKeyPrefix      = "votes:"
)

// Redis is the Store backend for Redis. Entities are stored as JSON
// documents under typed key prefixes; votes live in a hash keyed by
// voter so a repeat vote overwrites in place.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis store and verifies the connection.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) setJSON(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) getJSON(ctx context.Context, key string, dest any) error {
	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

// listKeys returns all keys under a prefix in sorted order so list
// responses are deterministic.
func (r *Redis) listKeys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := r.client.Keys(ctx, prefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("scan %s keys: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *Redis) UpsertUser(ctx context.Context, user model.User) error {
	return r.setJSON(ctx, userKeyPrefix+user.ID, user)
}

func (r *Redis) GetUser(ctx context.Context, id string) (model.User, error) {
	var user model.User
	if err := r.getJSON(ctx, userKeyPrefix+id, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *Redis) ListUsers(ctx context.Context) ([]model.User, error) {
	keys, err := r.listKeys(ctx, userKeyPrefix)
	if err != nil {
		return nil, err
	}
	var users []model.User
	for _, key := range keys {
		var user model.User
		if err := r.getJSON(ctx, key, &user); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *Redis) UpsertRestaurant(ctx context.Context, restaurant model.Restaurant) error {
	return r.setJSON(ctx, restaurantKeyPrefix+restaurant.ID, restaurant)
}

func (r *Redis) GetRestaurant(ctx context.Context, id string) (model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := r.getJSON(ctx, restaurantKeyPrefix+id, &restaurant); err != nil {
		return model.Restaurant{}, err
	}
	return restaurant, nil
}

func (r *Redis) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	keys, err := r.listKeys(ctx, restaurantKeyPrefix)
	if err != nil {
		return nil, err
	}
	var restaurants []model.Restaurant
	for _, key := range keys {
		var restaurant model.Restaurant
		if err := r.getJSON(ctx, key, &restaurant); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, nil
}

func (r *Redis) SetAvailabilities(ctx context.Context, userID string, slots []model.TimeSlot) error {
	if slots == nil {
		slots = []model.TimeSlot{}
	}
	return r.setJSON(ctx, availabilityPrefix+userID, slots)
}

func (r *Redis) GetAvailabilities(ctx context.Context, userID string) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	err := r.getJSON(ctx, availabilityPrefix+userID, &slots)
	if errors.Is(err, ErrNotFound) {
		return []model.TimeSlot{}, nil
	}
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *Redis) UpsertInvitation(ctx context.Context, invitation model.Invitation) error {
	return r.setJSON(ctx, invitationKeyPrefix+invitation.ID, invitation)
}

func (r *Redis) GetInvitation(ctx context.Context, id string) (model.Invitation, error) {
	var invitation model.Invitation
	if err := r.getJSON(ctx, invitationKeyPrefix+id, &invitation); err != nil {
		return model.Invitation{}, err
	}
	return invitation, nil
}

func (r *Redis) ListInvitations(ctx context.Context) ([]model.Invitation, error) {
	keys, err := r.listKeys(ctx, invitationKeyPrefix)
	if err != nil {
		return nil, err
	}
	var invitations []model.Invitation
	for _, key := range keys {
		var invitation model.Invitation
		if err := r.getJSON(ctx, key, &invitation); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		invitations = append(invitations, invitation)
	}
	return invitations, nil
}

func (r *Redis) SaveCalendarEvent(ctx context.Context, event model.CalendarEvent) error {
	return r.setJSON(ctx, calendarKeyPrefix+event.InvitationID, event)
}

func (r *Redis) GetCalendarEvent(ctx context.Context, invitationID string) (model.CalendarEvent, error) {
	var event model.CalendarEvent
	if err := r.getJSON(ctx, calendarKeyPrefix+invitationID, &event); err != nil {
		return model.CalendarEvent{}, err
	}
	return event, nil
}

func (r *Redis) RecordVote(ctx context.Context, vote model.Vote) error {
	payload, err := json.Marshal(vote)
	if err != nil {
		return fmt.Errorf("marshal vote: %w", err)
	}
	if err := r.client.HSet(ctx, votesKeyPrefix+vote.InvitationID, vote.UserID, payload).Err(); err != nil {
		return fmt.Errorf("record vote: %w", err)
	}
	return nil
}

func (r *Redis) GetVotes(ctx context.Context, invitationID string) ([]model.Vote, error) {
	entries, err := r.client.HGetAll(ctx, votesKeyPrefix+invitationID).Result()
	if err != nil {
		return nil, fmt.Errorf("get votes: %w", err)
	}
	votes := make([]model.Vote, 0, len(entries))
	for _, payload := range entries {
		var vote model.Vote
		if err := json.Unmarshal([]byte(payload), &vote); err != nil {
			return nil, fmt.Errorf("unmarshal vote: %w", err)
		}
		votes = append(votes, vote)
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].UserID < votes[j].UserID })
	return votes, nil
}
