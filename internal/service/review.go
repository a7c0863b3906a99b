package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/tastefinder/discovery-service/internal/domain"
)

// CreateReview scores sentiment, stores the review, then emits a best-effort
// event. Sentiment degradation never blocks the write.
func (s *Service) CreateReview(ctx context.Context, review *domain.Review) error {
	sentiment := s.gateway.Sentiment(ctx, review.Content)
	review.SentimentLabel = sentiment.Label
	review.SentimentScore = sentiment.Score
	if review.CreatedAt.IsZero() {
		review.CreatedAt = s.now()
	}

	if err := s.reviews.InsertReview(ctx, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	if s.publisher != nil {
		evt := domain.ReviewEvent{
			Type:           "new_review",
			ReviewID:       review.ID,
			SourceURL:      review.SourceURL,
			Score:          review.Score,
			SentimentLabel: review.SentimentLabel,
			Timestamp:      s.now(),
		}
		if err := s.publisher.PublishReview(ctx, evt); err != nil {
			s.logger.Warn().Err(err).Int64("review_id", review.ID).Msg("review event publish failed")
		}
	}
	return nil
}

// ListReviewsByURL returns the reviews for a restaurant's source URL, newest
// first. An empty URL matches nothing.
func (s *Service) ListReviewsByURL(ctx context.Context, url string) ([]domain.Review, error) {
	if url == "" {
		return []domain.Review{}, nil
	}
	return s.reviews.ListReviewsByURL(ctx, url)
}

// BackfillSentiment re-scores reviews stored without a sentiment label,
// fanning out over a bounded worker pool.
func (s *Service) BackfillSentiment(ctx context.Context) (*domain.BackfillSummary, error) {
	pending, err := s.reviews.ListReviewsMissingSentiment(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews for backfill: %w", err)
	}

	const (
		outcomeSkipped = iota
		outcomeUpdated
		outcomeFailed
	)

	outcomes := make([]int, len(pending))
	var wg sync.WaitGroup
	sem := make(chan struct{}, backfillConcurrency)

	for i, review := range pending {
		if review.Content == "" {
			continue
		}
		wg.Add(1)
		go func(idx int, review domain.Review) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			sentiment := s.gateway.Sentiment(ctx, review.Content)
			if err := s.reviews.UpdateReviewSentiment(ctx, review.ID, sentiment.Label, sentiment.Score); err != nil {
				s.logger.Error().Err(err).Int64("review_id", review.ID).Msg("sentiment backfill update failed")
				outcomes[idx] = outcomeFailed
				return
			}
			outcomes[idx] = outcomeUpdated
		}(i, review)
	}
	wg.Wait()

	summary := &domain.BackfillSummary{Total: len(pending)}
	for _, o := range outcomes {
		switch o {
		case outcomeUpdated:
			summary.Updated++
		case outcomeFailed:
			summary.Failed++
		}
	}

	s.logger.Info().
		Int("total", summary.Total).
		Int("updated", summary.Updated).
		Int("failed", summary.Failed).
		Msg("sentiment backfill complete")
	return summary, nil
}
