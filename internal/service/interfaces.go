package service

import (
	"context"

	"github.com/tastefinder/discovery-service/internal/ai"
	"github.com/tastefinder/discovery-service/internal/domain"
	"github.com/tastefinder/discovery-service/internal/query"
)

type RestaurantStore interface {
	ListAll(ctx context.Context, f query.Filter) ([]domain.Restaurant, error)
	ListPage(ctx context.Context, f query.Filter, sort query.SortField, order query.Order, skip, limit int) ([]domain.Restaurant, error)
	Count(ctx context.Context, f query.Filter) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.Restaurant, error)
}

type ReviewStore interface {
	InsertReview(ctx context.Context, review *domain.Review) error
	ListReviewsByURL(ctx context.Context, url string) ([]domain.Review, error)
	ListReviewsMissingSentiment(ctx context.Context) ([]domain.Review, error)
	UpdateReviewSentiment(ctx context.Context, id int64, label string, score float64) error
}

// ListingCache is optional; a nil cache disables caching entirely.
type ListingCache interface {
	GetListing(ctx context.Context, key string) (*domain.ListResult, bool, error)
	SetListing(ctx context.Context, key string, res *domain.ListResult) error
}

// Gateway is the external AI microservice. Implementations degrade, they do
// not fail: every method returns a usable value.
type Gateway interface {
	Recommend(ctx context.Context, query string, gps *ai.GPS) ai.RecommendOutcome
	Classify(ctx context.Context, image []byte, filename string) ai.ClassifyOutcome
	Sentiment(ctx context.Context, text string) ai.SentimentResult
}

// ReviewPublisher is optional; a nil publisher skips event emission.
type ReviewPublisher interface {
	PublishReview(ctx context.Context, evt domain.ReviewEvent) error
}
