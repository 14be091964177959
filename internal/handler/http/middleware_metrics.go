package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) withMetrics(next http.Handler) http.Handler {
	if h.httpMetrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(mw, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		status := mw.status
		if status == 0 {
			status = http.StatusOK
		}
		h.httpMetrics.Observe(r.Method, route, status, time.Since(start))
	})
}
