package repository

import (
	"context"
	"fmt"

	"github.com/tastefinder/discovery-service/internal/domain"
)

const reviewColumns = `id, restaurant_name, source_url, score, content,
	COALESCE(sentiment_label, ''), COALESCE(sentiment_score, 0), created_at`

// InsertReview stores a review and fills in its generated ID.
func (r *Repository) InsertReview(ctx context.Context, review *domain.Review) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reviews (restaurant_name, source_url, score, content,
			sentiment_label, sentiment_score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		review.RestaurantName, review.SourceURL, review.Score, review.Content,
		review.SentimentLabel, review.SentimentScore, review.CreatedAt,
	).Scan(&review.ID)

	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// ListReviewsByURL returns the reviews for one restaurant source URL, newest
// first.
func (r *Repository) ListReviewsByURL(ctx context.Context, url string) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE source_url = $1 ORDER BY created_at DESC", url,
	)
	if err != nil {
		return nil, fmt.Errorf("query reviews for %s: %w", url, err)
	}
	defer rows.Close()

	var items []domain.Review
	for rows.Next() {
		var rev domain.Review
		err := rows.Scan(&rev.ID, &rev.RestaurantName, &rev.SourceURL, &rev.Score,
			&rev.Content, &rev.SentimentLabel, &rev.SentimentScore, &rev.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return items, nil
}

// ListReviewsMissingSentiment returns reviews stored before sentiment
// scoring existed, for the backfill pass.
func (r *Repository) ListReviewsMissingSentiment(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE sentiment_label IS NULL OR sentiment_label = ''",
	)
	if err != nil {
		return nil, fmt.Errorf("query reviews missing sentiment: %w", err)
	}
	defer rows.Close()

	var items []domain.Review
	for rows.Next() {
		var rev domain.Review
		err := rows.Scan(&rev.ID, &rev.RestaurantName, &rev.SourceURL, &rev.Score,
			&rev.Content, &rev.SentimentLabel, &rev.SentimentScore, &rev.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return items, nil
}

// UpdateReviewSentiment writes the sentiment fields of one review.
func (r *Repository) UpdateReviewSentiment(ctx context.Context, id int64, label string, score float64) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE reviews SET sentiment_label = $2, sentiment_score = $3 WHERE id = $1",
		id, label, score,
	)
	if err != nil {
		return fmt.Errorf("update review sentiment id=%d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}
