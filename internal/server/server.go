package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"github.com/ternarybob/autoshare/internal/app"
	"github.com/ternarybob/autoshare/internal/common"
)

// Server manages the HTTP server and routes
type Server struct {
	app     *app.App
	router  *http.ServeMux
	server  *http.Server
	limiter *rateLimiter

	// trustedProxies may set X-Forwarded-For for rate limiting
	trustedProxies []netip.Prefix

	baseCtx    context.Context
	cancelBase context.CancelFunc
}

// New creates a new HTTP server with the given app
func New(application *app.App) *Server {
	baseCtx, cancel := context.WithCancel(context.Background())

	s := &Server{
		app:        application,
		baseCtx:    baseCtx,
		cancelBase: cancel,
	}

	rl := application.Config.RateLimit
	if rl.Enabled {
		s.limiter = newRateLimiter(rl.Requests, common.ParseDuration(rl.Window, 15*time.Minute), rl.Burst)
		s.trustedProxies = parseTrustedProxies(rl.TrustedProxies, application.Logger)
		common.SafeGo(application.Logger, "rateLimitJanitor", func() {
			s.limiter.sweep(baseCtx, time.Minute)
		})
	}

	// Setup routes
	s.router = s.setupRoutes()

	// Write timeout must outlast a full posting run; handlers respond only when the run ends
	serverCfg := application.Config.Server
	s.server = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.withMiddleware(s.router),
		ReadTimeout:  common.ParseDuration(serverCfg.ReadTimeout, 15*time.Second),
		WriteTimeout: common.ParseDuration(serverCfg.WriteTimeout, 20*time.Minute),
		IdleTimeout:  common.ParseDuration(serverCfg.IdleTimeout, 60*time.Second),
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}

	return s
}

// Addr returns the host:port the server listens on
func (s *Server) Addr() string {
	return net.JoinHostPort(s.app.Config.Server.Host, strconv.Itoa(s.app.Config.Server.Port))
}

// Handler returns the full middleware-wrapped handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.app.Logger.Info().
		Str("address", s.Addr()).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server. In-flight runs see their
// request context canceled once ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("Shutting down HTTP server...")

	err := s.server.Shutdown(ctx)
	s.cancelBase()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.app.Logger.Info().Msg("HTTP server stopped")
	return nil
}
