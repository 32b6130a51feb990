package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/rates", func(r chi.Router) {
			r.Get("/", h.listRates)
			r.With(h.requireAdmin).Post("/", h.setRate)
			r.Post("/resolve", h.resolveRate)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", h.listSessions)
			r.Get("/{member}", h.sessionStatus)
			r.Post("/{member}/start", h.startSession)
			r.Post("/{member}/end", h.endSession)
		})
	})

	return r
}
