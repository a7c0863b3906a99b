package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tastefinder/discovery-service/internal/domain"
	"github.com/tastefinder/discovery-service/internal/query"
)

const maxImageBytes = 10 << 20

// GET /restaurants
func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := query.ListParams{
		Page:     parseIntDefault(q.Get("page"), query.DefaultPage),
		PageSize: parseIntDefault(q.Get("limit"), query.DefaultPageSize),
		SortBy:   q.Get("sortBy"),
		Order:    query.Order(q.Get("order")),
		Rating:   q.Get("rating"),
		OpenNow:  q.Get("openNow") == "true",
		UserLat:  q.Get("userLat"),
		UserLon:  q.Get("userLon"),
		Search:   q.Get("search"),
	}
	if params.PageSize > 100 {
		params.PageSize = 100
	}

	result, err := h.service.List(r.Context(), params)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /restaurants/{restaurantID}
func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "restaurantID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid restaurant ID")
		return
	}

	restaurant, err := h.service.GetRestaurant(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRestaurantNotFound) {
			writeError(w, http.StatusNotFound, "restaurant_not_found",
				fmt.Sprintf("Restaurant with ID %d does not exist", id))
			return
		}
		h.logger.Error().Err(err).Int64("restaurant_id", id).Msg("get restaurant failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, restaurant)
}

// POST /restaurants/search-by-image
func (h *Handler) SearchByImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Expected multipart form with an image file")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Missing image file")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Could not read image file")
		return
	}

	result, err := h.service.SearchByImage(r.Context(), image, header.Filename)
	if err != nil {
		h.logger.Error().Err(err).Msg("image search failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type chatRequest struct {
	Message string `json:"message" validate:"required"`
	UserLat string `json:"userLat"`
	UserLon string `json:"userLon"`
}

// POST /restaurants/chat-search
func (h *Handler) ChatSearch(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "message is required")
		return
	}

	writeJSON(w, http.StatusOK, h.service.ChatSearch(r.Context(), req.Message, req.UserLat, req.UserLon))
}

// parseIntDefault coerces rather than rejects: upstream callers send page
// and limit as loosely validated strings.
func parseIntDefault(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
