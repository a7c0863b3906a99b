package handler

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tastefinder/discovery-service/internal/domain"
)

type createReviewRequest struct {
	RestaurantName string  `json:"restaurantName"`
	SourceURL      string  `json:"sourceUrl" validate:"required,url"`
	Score          float64 `json:"score" validate:"gte=0,lte=10"`
	Content        string  `json:"content" validate:"required"`
}

// POST /reviews
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "sourceUrl, content and a score between 0 and 10 are required")
		return
	}

	review := &domain.Review{
		RestaurantName: req.RestaurantName,
		SourceURL:      req.SourceURL,
		Score:          req.Score,
		Content:        req.Content,
	}
	if err := h.service.CreateReview(r.Context(), review); err != nil {
		h.logger.Error().Err(err).Msg("create review failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// GET /reviews?url=
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviewsByURL(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		h.logger.Error().Err(err).Msg("list reviews failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

// POST /reviews/sentiment-backfill
func (h *Handler) BackfillSentiment(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.BackfillSentiment(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("sentiment backfill failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
