package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/togetherdine/server/internal/geo"
	"github.com/togetherdine/server/internal/model"
	"github.com/togetherdine/server/internal/store"
)

func slotAt(base time.Time, startHour, endHour int) model.TimeSlot {
	return model.TimeSlot{
		Start: base.Add(time.Duration(startHour) * time.Hour),
		End:   base.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestIntersectionRatio(t *testing.T) {
	users := []model.User{
		{ID: "alice", Wishlist: []string{"sushi", "ramen"}},
		{ID: "bob", Wishlist: []string{"sushi"}},
		{ID: "carol", Wishlist: []string{"ramen"}},
	}

	tests := []struct {
		name         string
		restaurantID string
		users        []model.User
		want         float64
	}{
		{"two of three", "sushi", users, 2.0 / 3.0},
		{"one of three", "tacos", users[:1], 0},
		{"no participants", "sushi", nil, 0},
		{"empty wishlists", "sushi", []model.User{{ID: "dave"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := intersectionRatio(tt.restaurantID, tt.users)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("intersectionRatio(%q) = %v, want %v", tt.restaurantID, got, tt.want)
			}
		})
	}
}

func TestUserAvailableRequiresContainment(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	tenToEleven := model.TimeSlot{
		Start: day.Add(10 * time.Hour),
		End:   day.Add(11 * time.Hour),
	}

	tests := []struct {
		name string
		slot model.TimeSlot
		want bool
	}{
		{"exact match", tenToEleven, true},
		{
			"strictly inside",
			model.TimeSlot{Start: day.Add(10*time.Hour + 15*time.Minute), End: day.Add(10*time.Hour + 45*time.Minute)},
			true,
		},
		{
			// Partial overlap does not count: [10:00,11:00) vs [10:30,11:30).
			"overlap past the end",
			model.TimeSlot{Start: day.Add(10*time.Hour + 30*time.Minute), End: day.Add(11*time.Hour + 30*time.Minute)},
			false,
		},
		{
			"overlap before the start",
			model.TimeSlot{Start: day.Add(9 * time.Hour), End: day.Add(10*time.Hour + 30*time.Minute)},
			false,
		},
		{
			"interval too small",
			model.TimeSlot{Start: day.Add(9 * time.Hour), End: day.Add(12 * time.Hour)},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := userAvailable([]model.TimeSlot{tenToEleven}, tt.slot)
			if got != tt.want {
				t.Errorf("userAvailable = %v, want %v", got, tt.want)
			}
		})
	}

	if userAvailable(nil, tenToEleven) {
		t.Error("no stored intervals should never satisfy a slot")
	}
}

func TestConvenienceScore(t *testing.T) {
	restaurant := model.Restaurant{ID: "sushi", Point: geo.Point{Latitude: 0, Longitude: 0}}

	t.Run("no participants", func(t *testing.T) {
		if got := convenienceScore(restaurant, nil); got != 0 {
			t.Errorf("convenienceScore with no users = %v, want 0", got)
		}
	})

	t.Run("co-location capped by epsilon", func(t *testing.T) {
		users := []model.User{{ID: "alice", Point: geo.Point{Latitude: 0, Longitude: 0}}}
		got := convenienceScore(restaurant, users)
		want := 1 / convenienceEpsilon
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("co-located convenienceScore = %v, want %v", got, want)
		}
	})

	t.Run("averages inverse distances", func(t *testing.T) {
		users := []model.User{
			{ID: "alice", Point: geo.Point{Latitude: 0, Longitude: 2}},
			{ID: "bob", Point: geo.Point{Latitude: 0, Longitude: 4}},
		}
		got := convenienceScore(restaurant, users)
		want := (1/(2+convenienceEpsilon) + 1/(4+convenienceEpsilon)) / 2
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("convenienceScore = %v, want %v", got, want)
		}
	})

	t.Run("closer participants score higher", func(t *testing.T) {
		near := convenienceScore(restaurant, []model.User{{Point: geo.Point{Latitude: 0, Longitude: 1}}})
		far := convenienceScore(restaurant, []model.User{{Point: geo.Point{Latitude: 0, Longitude: 5}}})
		if near <= far {
			t.Errorf("near score %v should exceed far score %v", near, far)
		}
	})
}

func TestScoreOption(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewInvitationService(st)

	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	slot := slotAt(base, 0, 2)

	users := []model.User{
		{ID: "alice", Wishlist: []string{"sushi"}, Point: geo.Point{Latitude: 0, Longitude: 3}},
		{ID: "bob", Wishlist: []string{"ramen"}, Point: geo.Point{Latitude: 0, Longitude: 3}},
	}
	if err := st.SetAvailabilities(ctx, "alice", []model.TimeSlot{slot}); err != nil {
		t.Fatal(err)
	}
	// bob has no availability set.

	restaurant := model.Restaurant{ID: "sushi", Point: geo.Point{Latitude: 0, Longitude: 0}}
	option, err := svc.scoreOption(ctx, restaurant, slot, users)
	if err != nil {
		t.Fatalf("scoreOption: %v", err)
	}

	if option.RestaurantID != "sushi" {
		t.Errorf("RestaurantID = %q, want %q", option.RestaurantID, "sushi")
	}
	if !option.SlotStart.Equal(slot.Start) || !option.SlotEnd.Equal(slot.End) {
		t.Errorf("option slot = [%v, %v), want [%v, %v)", option.SlotStart, option.SlotEnd, slot.Start, slot.End)
	}
	if len(option.Participants) != 1 || option.Participants[0] != "alice" {
		t.Errorf("Participants = %v, want [alice]", option.Participants)
	}
	if math.Abs(option.IntersectionRatio-0.5) > 1e-12 {
		t.Errorf("IntersectionRatio = %v, want 0.5", option.IntersectionRatio)
	}
	if math.Abs(option.AvailabilityRatio-0.5) > 1e-12 {
		t.Errorf("AvailabilityRatio = %v, want 0.5", option.AvailabilityRatio)
	}
	wantConvenience := 1 / (3 + convenienceEpsilon)
	if math.Abs(option.ConvenienceScore-wantConvenience) > 1e-12 {
		t.Errorf("ConvenienceScore = %v, want %v", option.ConvenienceScore, wantConvenience)
	}
	wantTotal := option.IntersectionRatio + option.AvailabilityRatio + option.ConvenienceScore
	if option.TotalScore != wantTotal {
		t.Errorf("TotalScore = %v, want %v", option.TotalScore, wantTotal)
	}
}

func TestScoreOptionNoParticipants(t *testing.T) {
	ctx := context.Background()
	svc := NewInvitationService(store.NewMemory())

	base := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	option, err := svc.scoreOption(ctx, model.Restaurant{ID: "sushi"}, slotAt(base, 0, 2), nil)
	if err != nil {
		t.Fatalf("scoreOption: %v", err)
	}
	if option.IntersectionRatio != 0 || option.AvailabilityRatio != 0 ||
		option.ConvenienceScore != 0 || option.TotalScore != 0 {
		t.Errorf("all scores should be exactly 0 with no participants, got %+v", option)
	}
	if len(option.Participants) != 0 {
		t.Errorf("Participants = %v, want empty", option.Participants)
	}
}
