package service

import (
	"context"
	"fmt"

	"github.com/togetherdine/server/internal/geo"
	"github.com/togetherdine/server/internal/model"
)

// convenienceEpsilon guards the inverse-distance division when a
// participant sits exactly at the restaurant's coordinates.
const convenienceEpsilon = 1e-6

// intersectionRatio returns the share of participants whose wishlist
// contains the restaurant. Zero participants yield 0.0, never a
// division by zero.
func intersectionRatio(restaurantID string, users []model.User) float64 {
	if len(users) == 0 {
		return 0
	}
	interested := 0
	for i := range users {
		if users[i].Wishlisted(restaurantID) {
			interested++
		}
	}
	return float64(interested) / float64(len(users))
}

// userAvailable reports whether any stored free-time interval fully
// contains the candidate slot. Partial overlap does not count.
func userAvailable(availabilities []model.TimeSlot, slot model.TimeSlot) bool {
	for _, interval := range availabilities {
		if interval.Contains(slot) {
			return true
		}
	}
	return false
}

// convenienceScore averages the inverse flat-plane distance between
// each participant and the restaurant. The result is intentionally
// unnormalized: co-located participants push it toward 1/epsilon.
func convenienceScore(restaurant model.Restaurant, users []model.User) float64 {
	if len(users) == 0 {
		return 0
	}
	sum := 0.0
	for i := range users {
		d := geo.Distance(users[i].Point, restaurant.Point)
		sum += 1 / (d + convenienceEpsilon)
	}
	return sum / float64(len(users))
}

// scoreOption scores one (restaurant, slot) pairing for the given
// participants. Availability is read from the store at scoring time, so
// a concurrent availability update for the same user may or may not be
// observed.
func (s *InvitationService) scoreOption(ctx context.Context, restaurant model.Restaurant, slot model.TimeSlot, users []model.User) (model.InvitationOption, error) {
	available := []string{}
	for i := range users {
		availabilities, err := s.store.GetAvailabilities(ctx, users[i].ID)
		if err != nil {
			return model.InvitationOption{}, fmt.Errorf("availabilities for %q: %w", users[i].ID, err)
		}
		if userAvailable(availabilities, slot) {
			available = append(available, users[i].ID)
		}
	}

	availabilityRatio := 0.0
	if len(users) > 0 {
		availabilityRatio = float64(len(available)) / float64(len(users))
	}

	option := model.InvitationOption{
		RestaurantID:      restaurant.ID,
		SlotStart:         slot.Start,
		SlotEnd:           slot.End,
		Participants:      available,
		IntersectionRatio: intersectionRatio(restaurant.ID, users),
		AvailabilityRatio: availabilityRatio,
		ConvenienceScore:  convenienceScore(restaurant, users),
	}
	// Unweighted sum: the three terms live on different scales on
	// purpose; rebalancing them changes ranking compatibility.
	option.TotalScore = option.IntersectionRatio + option.AvailabilityRatio + option.ConvenienceScore
	return option, nil
}
