package domain

import "time"

// Review links back to its restaurant through the crawl source URL rather
// than the numeric ID, matching the shape of the ingested data.
type Review struct {
	ID             int64     `json:"id"`
	RestaurantName string    `json:"restaurantName"`
	SourceURL      string    `json:"sourceUrl"`
	Score          float64   `json:"score"`
	Content        string    `json:"content"`
	SentimentLabel string    `json:"sentimentLabel,omitempty"`
	SentimentScore float64   `json:"sentimentScore"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ReviewEvent is published to Kafka after a review is stored.
type ReviewEvent struct {
	Type           string    `json:"type"`
	ReviewID       int64     `json:"review_id"`
	SourceURL      string    `json:"source_url"`
	Score          float64   `json:"score"`
	SentimentLabel string    `json:"sentiment_label"`
	Timestamp      time.Time `json:"timestamp"`
}

// BackfillSummary reports the outcome of a sentiment backfill run over
// reviews stored before sentiment scoring existed.
type BackfillSummary struct {
	Total   int `json:"total"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}
