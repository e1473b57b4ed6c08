package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/togetherdine/server/internal/model"
	"github.com/togetherdine/server/internal/store"
)

// RestaurantService orchestrates restaurant operations.
type RestaurantService struct {
	store store.Store
}

// NewRestaurantService constructs a RestaurantService with its store
// dependency.
func NewRestaurantService(st store.Store) *RestaurantService {
	return &RestaurantService{store: st}
}

// Upsert creates or replaces a restaurant by id.
func (s *RestaurantService) Upsert(ctx context.Context, restaurant model.Restaurant) (*model.Restaurant, error) {
	restaurant.ID = strings.TrimSpace(restaurant.ID)
	restaurant.Name = strings.TrimSpace(restaurant.Name)
	if restaurant.ID == "" {
		return nil, fmt.Errorf("restaurant id is required: %w", ErrInvalidArgument)
	}
	if restaurant.Name == "" {
		return nil, fmt.Errorf("restaurant name is required: %w", ErrInvalidArgument)
	}
	if restaurant.Rating != nil && (*restaurant.Rating < 0 || *restaurant.Rating > 5) {
		return nil, fmt.Errorf("rating must be between 0 and 5: %w", ErrInvalidArgument)
	}
	if restaurant.Tags == nil {
		restaurant.Tags = []string{}
	}
	if err := s.store.UpsertRestaurant(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("upsert restaurant: %w", err)
	}
	return &restaurant, nil
}

// Get returns a single restaurant by id.
func (s *RestaurantService) Get(ctx context.Context, id string) (*model.Restaurant, error) {
	restaurant, err := s.store.GetRestaurant(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return &restaurant, nil
}

// List returns all restaurants.
func (s *RestaurantService) List(ctx context.Context) ([]model.Restaurant, error) {
	return s.store.ListRestaurants(ctx)
}
