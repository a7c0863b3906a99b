package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tastefinder/discovery-service/internal/service"
)

type Handler struct {
	service  *service.Service
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewHandler(svc *service.Service, logger zerolog.Logger) *Handler {
	return &Handler{
		service:  svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("component", "handler").Logger(),
	}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
