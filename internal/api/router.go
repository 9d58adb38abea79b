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

	// Health check (no auth required)
	r.Get("/health", s.handleHealth)

	// Auth endpoints (no auth required)
	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Post("/refresh", s.handleRefresh)

	// Device reads are public
	r.Get("/sensors", s.handleListDevices)
	r.Get("/details_sensor/{id}", s.handleDeviceDetail)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/profile", s.handleProfile)
		r.Patch("/change_password", s.handleChangePassword)

		r.Post("/create_sensor", s.handleCreateDevice)
		r.Patch("/update_sensor/{id}", s.handleUpdateDevice)
		r.Delete("/delete_sensor/{id}", s.handleDeleteDevice)

		r.Route("/sensor_data", func(r chi.Router) {
			r.Get("/", s.handleListReadings)
			r.Post("/", s.handleCreateReading)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetReading)
				r.Patch("/", s.handleUpdateReading)
				r.Delete("/", s.handleDeleteReading)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
