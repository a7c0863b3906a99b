// Package ai talks to the external recommendation/sentiment microservice.
// Every call is best-effort: failures surface as tagged degraded outcomes,
// never as errors the listing or review paths would have to propagate.
package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

const defaultTimeout = 3 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[[]ScoredID]
	logger  zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	breaker := gobreaker.NewCircuitBreaker[[]ScoredID](gobreaker.Settings{
		Name:    "ai-recommend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: timeout},
		breaker: breaker,
		logger:  logger.With().Str("component", "ai").Logger(),
	}
}

// GPS is the caller's location, forwarded to the recommendation endpoint.
type GPS struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ScoredID is one entry of the service's relevance ranking. Only the ID is
// needed here; position in the slice is the rank.
type ScoredID struct {
	ID int64 `json:"id"`
}

// RecommendOutcome is a tagged result: either a relevance ranking, or a
// degraded marker telling the pipeline to fall back to substring matching.
type RecommendOutcome struct {
	Ranked   []ScoredID
	Degraded bool
	Reason   string
}

// Rank maps restaurant ID to its zero-based position in the ranking.
func (o RecommendOutcome) Rank() map[int64]int {
	if o.Degraded || len(o.Ranked) == 0 {
		return nil
	}
	rank := make(map[int64]int, len(o.Ranked))
	for i, s := range o.Ranked {
		rank[s.ID] = i
	}
	return rank
}

// IDs returns the ranked restaurant IDs in order.
func (o RecommendOutcome) IDs() []int64 {
	ids := make([]int64, 0, len(o.Ranked))
	for _, s := range o.Ranked {
		ids = append(ids, s.ID)
	}
	return ids
}

func degraded(reason string) RecommendOutcome {
	return RecommendOutcome{Degraded: true, Reason: reason}
}

type recommendRequest struct {
	Query   string `json:"query"`
	UserGPS *GPS   `json:"user_gps,omitempty"`
}

type recommendResponse struct {
	Scores []ScoredID `json:"scores"`
}

// Recommend asks the service to rank restaurants for a free-text query. The
// call runs behind a circuit breaker with a short timeout so a slow or dead
// service degrades to local substring search instead of stalling listings.
func (c *Client) Recommend(ctx context.Context, query string, gps *GPS) RecommendOutcome {
	ranked, err := c.breaker.Execute(func() ([]ScoredID, error) {
		return c.recommend(ctx, query, gps)
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("query", query).Msg("recommend degraded to substring search")
		return degraded(err.Error())
	}
	if len(ranked) == 0 {
		return degraded("empty ranking")
	}
	return RecommendOutcome{Ranked: ranked}
}

func (c *Client) recommend(ctx context.Context, query string, gps *GPS) ([]ScoredID, error) {
	body, err := json.Marshal(recommendRequest{Query: query, UserGPS: gps})
	if err != nil {
		return nil, fmt.Errorf("marshal recommend request: %w", err)
	}

	var resp recommendResponse
	if err := c.postJSON(ctx, "/recommend", "application/json", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	return resp.Scores, nil
}

// ClassifyOutcome carries the detected food label, or a degraded marker when
// the image could not be processed.
type ClassifyOutcome struct {
	FoodName string
	Degraded bool
	Reason   string
}

// Classify submits raw image bytes for food recognition.
func (c *Client) Classify(ctx context.Context, image []byte, filename string) ClassifyOutcome {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err == nil {
		_, err = part.Write(image)
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		return ClassifyOutcome{Degraded: true, Reason: err.Error()}
	}

	var resp struct {
		FoodName string `json:"food_name"`
	}
	if err := c.postJSON(ctx, "/classify-image", mw.FormDataContentType(), &buf, &resp); err != nil {
		c.logger.Warn().Err(err).Msg("image classification failed")
		return ClassifyOutcome{Degraded: true, Reason: err.Error()}
	}
	if resp.FoodName == "" {
		return ClassifyOutcome{Degraded: true, Reason: "no label detected"}
	}
	return ClassifyOutcome{FoodName: resp.FoodName}
}

// SentimentResult defaults to neutral when the service is unavailable, so
// review creation is never blocked on sentiment analysis.
type SentimentResult struct {
	Label    string  `json:"label"`
	Score    float64 `json:"score"`
	Degraded bool    `json:"-"`
}

func neutralSentiment() SentimentResult {
	return SentimentResult{Label: "neutral", Score: 0.5, Degraded: true}
}

// Sentiment scores a review text.
func (c *Client) Sentiment(ctx context.Context, text string) SentimentResult {
	body, err := json.Marshal(map[string]string{"review": text})
	if err != nil {
		return neutralSentiment()
	}

	var resp SentimentResult
	if err := c.postJSON(ctx, "/sentiment", "application/json", bytes.NewReader(body), &resp); err != nil {
		c.logger.Warn().Err(err).Msg("sentiment degraded to neutral")
		return neutralSentiment()
	}
	if resp.Label == "" {
		return neutralSentiment()
	}
	return resp
}

func (c *Client) postJSON(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("call %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
