package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/autoshare/internal/common"
)

// Endpoint describes one route in the service banner
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// Endpoints is the public route list reported by GET /
var Endpoints = []Endpoint{
	{Method: http.MethodPost, Path: "/api/validate", Description: "Validate a cookie session"},
	{Method: http.MethodPost, Path: "/api/share", Description: "Share a post, optionally several times"},
	{Method: http.MethodPost, Path: "/api/share-story", Description: "Share a text story"},
	{Method: http.MethodGet, Path: "/api/status", Description: "Service status and diagnostics"},
	{Method: http.MethodGet, Path: "/api/health", Description: "Liveness check"},
	{Method: http.MethodGet, Path: "/api/version", Description: "Version information"},
	{Method: http.MethodGet, Path: "/metrics", Description: "Prometheus metrics"},
}

type APIHandler struct {
	logger arbor.ILogger
}

func NewAPIHandler(logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		logger: logger,
	}
}

// RootHandler serves the service banner on GET / and 404 for any other unmatched path
func (h *APIHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFoundHandler(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"name":      "autoshare",
		"message":   "Autoshare API is running",
		"version":   common.GetVersion(),
		"endpoints": Endpoints,
	})
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

// HealthHandler returns health check status
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug().Str("path", r.URL.Path).Msg("Endpoint not found")
	WriteError(w, http.StatusNotFound, MsgNotFound)
}
