package server

import (
	"net/http"

	"github.com/ternarybob/autoshare/internal/metrics"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Service banner; also the catch-all that answers 404 for unknown paths
	mux.HandleFunc("/", s.app.APIHandler.RootHandler)

	// API routes - browser automation
	mux.HandleFunc("/api/validate", s.app.AutomationHandler.ValidateHandler)
	mux.HandleFunc("/api/share", s.app.AutomationHandler.ShareHandler)
	mux.HandleFunc("/api/share-story", s.app.AutomationHandler.ShareStoryHandler)

	// API routes - system
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	mux.Handle("/metrics", metrics.Handler())

	return mux
}
