package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"ingredient-scout/scout/pkg/api/handlers"
	"ingredient-scout/scout/pkg/api/middleware"
	"ingredient-scout/scout/pkg/api/types"
	"ingredient-scout/scout/pkg/config"
	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/history"
	"ingredient-scout/scout/pkg/ratelimit"
	"ingredient-scout/scout/pkg/security/auth"
	"ingredient-scout/scout/pkg/telemetry/health"
	"ingredient-scout/scout/pkg/telemetry/metrics"
	"ingredient-scout/scout/pkg/telemetry/tracing"
)

// ServiceName is reported by the liveness endpoint.
const ServiceName = "Skincare Ingredient Scout API"

// Route paths.
const (
	PathAnalyze = "/api/analyze"
	PathHealth  = "/api/health"
	PathReady   = "/api/ready"
	PathVersion = "/api/version"
	PathHistory = "/api/history"
)

// BuildInfo is served by the version endpoint.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Dependencies are the collaborators the server routes to. Analyzer is
// required; every other field may be nil.
type Dependencies struct {
	Analyzer conflict.Analyzer

	// History backs /api/history and the readiness check. Nil disables both.
	History history.Storage

	// Recorder persists each analysis.
	Recorder handlers.HistoryRecorder

	Metrics *metrics.Collector
	Tracer  *tracing.Tracer

	// Health receives the server's readiness checks. Nil creates a checker.
	Health *health.Checker

	Build BuildInfo

	// TLS switches the listener to HTTPS. Nil serves plain HTTP.
	TLS *tls.Config

	// Auth guards /api/history, and the metrics endpoint when
	// server.auth.protect_metrics is set. Nil leaves them open.
	Auth auth.KeyStore
}

// Server is the scout HTTP server.
type Server struct {
	config       *config.Config
	deps         Dependencies
	checker      *health.Checker
	limiter      *ratelimit.Limiter
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	addr         net.Addr
}

// NewServer creates a server for cfg. It registers the "catalog" readiness
// check, and "history" when a history storage is configured.
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	checker := deps.Health
	if checker == nil {
		checker = health.New(health.DefaultCheckTimeout)
	}
	checker.Register("catalog", health.CatalogCheck(deps.Analyzer))
	if deps.History != nil {
		checker.Register("history", health.PingCheck(deps.History))
	}

	var limiter *ratelimit.Limiter
	if cfg.Server.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(ratelimit.ConfigFrom(cfg.Server.RateLimit))
	}

	return &Server{
		config:       cfg,
		deps:         deps,
		checker:      checker,
		limiter:      limiter,
		shutdownChan: make(chan struct{}),
	}
}

// Start listens on server.listen_address and serves until ctx is cancelled,
// SIGINT or SIGTERM arrives, or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener. The listener is closed when the
// server stops.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		_ = ln.Close()
		return errors.New("server is already running")
	}
	s.isRunning = true
	s.addr = ln.Addr()
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		TLSConfig:    s.deps.TLS,
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting scout server", "address", ln.Addr().String(), "tls", httpServer.TLSConfig != nil)

		var err error
		if httpServer.TLSConfig != nil {
			err = httpServer.ServeTLS(ln, "", "")
		} else {
			err = httpServer.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Stop asks a running Start or Serve to shut down and return.
func (s *Server) Stop() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running, httpServer := s.isRunning, s.httpServer
		s.mu.RUnlock()
		if !running {
			return
		}

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("scout server stopped")
	})

	return shutdownErr
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(s.routes(),
		middleware.Recovery,
		middleware.Logging,
		middleware.RequestID,
		s.tracingMiddleware,
		middleware.Metrics(s.httpRecorder()),
		middleware.CORS(s.config.Server.CORS),
		middleware.Timeout(s.config.Server.RequestTimeout),
	)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	analyze := handlers.NewAnalyzeHandler(s.deps.Analyzer, handlers.AnalyzeConfig{
		MaxBodyBytes:   s.config.Server.MaxBodyBytes,
		MaxIngredients: s.config.Engine.MaxIngredients,
		History:        s.deps.Recorder,
		Metrics:        s.analysisRecorder(),
		Tracer:         s.deps.Tracer,
	})
	mux.Handle(PathAnalyze, middleware.RateLimit(s.limiter, s.config.Server.RateLimit.TrustProxy)(analyze))
	mux.Handle(PathHealth, s.checker.LivenessHandler(ServiceName))
	mux.Handle(PathReady, s.checker.ReadinessHandler())
	mux.Handle(PathVersion, health.VersionHandler(s.deps.Build.Version, s.deps.Build.Commit, s.deps.Build.BuildTime))

	if s.deps.History != nil {
		mux.Handle(PathHistory, s.protect(handlers.NewHistoryHandler(s.deps.History)))
	}

	if s.deps.Metrics.Enabled() {
		metricsHandler := s.deps.Metrics.Handler()
		if s.config.Server.Auth.ProtectMetrics {
			metricsHandler = s.protect(metricsHandler)
		}
		mux.Handle(s.config.Telemetry.Metrics.Path, metricsHandler)
	}

	if s.config.Server.StaticDir != "" {
		mux.Handle("/", handlers.NewStaticHandler(s.config.Server.StaticDir))
	} else {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			types.WriteError(w, http.StatusNotFound, types.MsgNotFound)
		})
	}

	return mux
}

// protect requires an API key for h when a key store is configured.
func (s *Server) protect(h http.Handler) http.Handler {
	if s.deps.Auth == nil {
		return h
	}
	return auth.NewAPIKeyMiddleware(s.deps.Auth, nil).Handle(h)
}

func (s *Server) tracingMiddleware(next http.Handler) http.Handler {
	if s.deps.Tracer == nil || !s.deps.Tracer.Enabled() {
		return next
	}
	return s.deps.Tracer.Middleware(next)
}

// httpRecorder and analysisRecorder keep a nil collector from becoming a
// non-nil interface.
func (s *Server) httpRecorder() middleware.HTTPRecorder {
	if !s.deps.Metrics.Enabled() {
		return nil
	}
	return s.deps.Metrics
}

func (s *Server) analysisRecorder() handlers.AnalysisRecorder {
	if !s.deps.Metrics.Enabled() {
		return nil
	}
	return s.deps.Metrics
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the address the server listens on, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Checker returns the health checker holding the readiness checks.
func (s *Server) Checker() *health.Checker {
	return s.checker
}
