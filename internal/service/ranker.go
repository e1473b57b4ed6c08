package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/togetherdine/server/internal/model"
	"github.com/togetherdine/server/internal/store"
)

// resolveUsers looks up every participant id. Any miss aborts the whole
// build; there are no partial results.
func (s *InvitationService) resolveUsers(ctx context.Context, ids []string) ([]model.User, error) {
	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.store.GetUser(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("user %q: %w", id, store.ErrNotFound)
			}
			return nil, fmt.Errorf("get user %q: %w", id, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *InvitationService) resolveRestaurants(ctx context.Context, ids []string) ([]model.Restaurant, error) {
	restaurants := make([]model.Restaurant, 0, len(ids))
	for _, id := range ids {
		restaurant, err := s.store.GetRestaurant(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("restaurant %q: %w", id, store.ErrNotFound)
			}
			return nil, fmt.Errorf("get restaurant %q: %w", id, err)
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, nil
}

// generateTopOptions scores the full cross product of candidate
// restaurants and slots and returns the best `limit` options.
//
// Enumeration is restaurant-major, slot-minor, in input order, and the
// sort is stable — so equal totals keep their enumeration position.
// That ordering is the tie-break contract; don't replace the slices
// with maps or the stable sort with sort.Slice.
func (s *InvitationService) generateTopOptions(ctx context.Context, invitation model.Invitation, limit int) ([]model.InvitationOption, error) {
	users, err := s.resolveUsers(ctx, invitation.ParticipantIDs)
	if err != nil {
		return nil, err
	}
	restaurants, err := s.resolveRestaurants(ctx, invitation.CandidateRestaurantIDs)
	if err != nil {
		return nil, err
	}

	options := make([]model.InvitationOption, 0, len(restaurants)*len(invitation.CandidateSlots))
	for _, restaurant := range restaurants {
		for _, slot := range invitation.CandidateSlots {
			option, err := s.scoreOption(ctx, restaurant, slot, users)
			if err != nil {
				return nil, err
			}
			options = append(options, option)
		}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].TotalScore > options[j].TotalScore
	})

	if limit < len(options) {
		options = options[:limit]
	}
	return options, nil
}
