package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	// The event stream is long-lived and must not inherit the request deadline.
	wsPath := s.wsCfg.Path
	if wsPath == "" {
		wsPath = "/ws"
	}
	r.Get(wsPath, s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(s.requestTimeoutMiddleware)

		r.Route("/house", func(r chi.Router) {
			r.Get("/", s.handleListHouses)
			r.Post("/", s.handleCreateHouse)
			r.Delete("/", s.handleDeleteAllHouses)
		})

		r.Route("/houses/{house_id}", func(r chi.Router) {
			r.Get("/", s.handleGetHouse)
			r.Put("/", s.handleUpdateHouse)
			r.Delete("/", s.handleDeleteHouse)

			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", s.handleListRooms)
				r.Post("/", s.handleCreateRoom)

				r.Route("/{room_id}", func(r chi.Router) {
					r.Get("/", s.handleGetRoom)
					r.Put("/", s.handleUpdateRoom)
					r.Delete("/", s.handleDeleteRoom)

					r.Route("/devices", func(r chi.Router) {
						r.Get("/", s.handleListDevices)
						r.Post("/", s.handleCreateDevice)

						r.Route("/{device_id}", func(r chi.Router) {
							r.Get("/", s.handleGetDevice)
							r.Put("/", s.handleUpdateDevice)
							r.Delete("/", s.handleDeleteDevice)
						})
					})
				})
			})
		})
	})

	return r
}
