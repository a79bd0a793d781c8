package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/agentstation/roster/internal/server/middleware"
	"github.com/agentstation/roster/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	h := s.handlers

	r := chi.NewRouter()
	r.Use(middleware.Recovery(s.logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(s.logger))
	if len(s.config.CORSOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = s.config.CORSOrigins
		r.Use(middleware.CORS(cors))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "No route for "+r.URL.Path, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r.Method)
	})

	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/health", h.HandleHealth)

	r.Route(s.config.PathPrefix, func(api chi.Router) {
		api.Get("/health", h.HandleHealth)
		api.Get("/ready", h.HandleReady)

		api.Get("/volunteers", h.HandleVolunteers)
		api.Get("/stats", h.HandleStats)
		api.Get("/facets", h.HandleFacets)
		api.Get("/export.csv", h.HandleExportCSV)
		api.Get("/export.xlsx", h.HandleExportXLSX)
		api.Get("/duplicates", h.HandleDuplicates)
		api.Get("/duplicates.xlsx", h.HandleDuplicatesXLSX)

		api.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireKey(s.config.APIKey, s.logger))
			admin.Post("/reload", h.HandleReload)
			admin.Post("/merge", h.HandleMerge)
		})

		api.Get("/updates/ws", h.HandleWebSocket)
	})
	return r
}
