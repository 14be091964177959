package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)

	router.Get("/healthz", h.healthz)
	if h.registry != nil {
		router.Handle("/metrics", metrics.Handler(h.registry))
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(withGZip)

		r.Get("/version", h.getServerVersion)
		r.Get("/quotes", h.listQuotes)
		r.Post("/quotes", h.createQuotes)
	})

	router.MethodNotAllowed(methodNotAllowed)
	router.NotFound(notFound)

	return router
}
