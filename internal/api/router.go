package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"course-store/internal/api/handlers"
	"course-store/internal/api/middleware"
	"course-store/internal/providers/scalev"
	"course-store/internal/webhook"
)

// NewRouter builds the HTTP surface of the course store.
func NewRouter(client *scalev.Client, ingestor *webhook.Ingestor, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))

	courses := handlers.NewCourseHandler(client, logger)
	orders := handlers.NewOrderHandler(client, logger)
	webhooks := handlers.NewWebhookHandler(ingestor, logger)

	r.Get("/courses", courses.Get)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orders.Create)
		r.Get("/", orders.ListEnrollments)
	})

	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/", webhooks.Receive)
		r.Get("/", webhooks.Status)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
