// Package httpapi serves the analysis engine as a synchronous JSON API.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/sirupsen/logrus"

	"textproc/internal/config"
	"textproc/internal/domain"
	"textproc/internal/logging"
)

const (
	serviceName    = "text-processing-api"
	serviceVersion = "1.0.0"
	shutdownGrace  = 10 * time.Second
)

// HealthChecker probes a remote analysis backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// Server is the HTTP front-end.
type Server struct {
	cfg      config.HTTPConfig
	analyzer domain.Analyzer
	backend  HealthChecker
	logger   logrus.FieldLogger

	router  *chi.Mux
	handler http.Handler
	httpSrv *http.Server

	mu       sync.RWMutex
	listener net.Listener
}

// New creates the server. backend may be nil when analysis runs in-process.
func New(cfg config.HTTPConfig, analyzer domain.Analyzer, backend HealthChecker, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		backend:  backend,
		logger:   logger.WithField("component", "http"),
		router:   chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.handler = s.router
	if cfg.Gzip {
		s.handler = gzhttp.GzipHandler(s.router)
	}

	s.httpSrv = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSecs) * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.MaxBodyBytes > 0 {
		s.router.Use(middleware.RequestSize(s.cfg.MaxBodyBytes))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Post("/summarize", s.handleSummarize)
}

// Handler returns the root handler including compression.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// requestLogger logs one line per request with its status and latency.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request served")
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"addr":    ln.Addr().String(),
		"backend": s.cfg.Backend,
	}).Info("HTTP server listening")

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpSrv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.logger.Info("HTTP server shutting down")
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

// Addr returns the bound address once ListenAndServe is running.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
