package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tastefinder/discovery-service/internal/domain"
)

const (
	// Image and chat search gather a deep relevance pool before the
	// score-based final cut.
	searchPoolSize = 50
	searchTopN     = 5

	backfillConcurrency = 10
)

type Service struct {
	restaurants RestaurantStore
	reviews     ReviewStore
	cache       ListingCache
	gateway     Gateway
	publisher   ReviewPublisher
	logger      zerolog.Logger

	now func() time.Time
}

func NewService(restaurants RestaurantStore, reviews ReviewStore, cache ListingCache, gateway Gateway, publisher ReviewPublisher, logger zerolog.Logger) *Service {
	return &Service{
		restaurants: restaurants,
		reviews:     reviews,
		cache:       cache,
		gateway:     gateway,
		publisher:   publisher,
		logger:      logger.With().Str("component", "service").Logger(),
		now:         time.Now,
	}
}

// GetRestaurant fetches one restaurant; domain.ErrRestaurantNotFound for an
// absent ID.
func (s *Service) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	return s.restaurants.GetByID(ctx, id)
}
