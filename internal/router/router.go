package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/tastefinder/discovery-service/internal/handler"
)

func Setup(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.AllowAll().Handler)

	// Routes
	r.Route("/restaurants", func(r chi.Router) {
		r.Get("/", h.ListRestaurants)
		r.Post("/search-by-image", h.SearchByImage)
		r.Post("/chat-search", h.ChatSearch)
		r.Get("/{restaurantID}", h.GetRestaurant)
	})
	r.Route("/reviews", func(r chi.Router) {
		r.Post("/", h.CreateReview)
		r.Get("/", h.ListReviews)
		r.Post("/sentiment-backfill", h.BackfillSentiment)
	})
	r.Get("/health", healthCheck)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
