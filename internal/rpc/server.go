package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"textproc/internal/config"
	"textproc/internal/domain"
	"textproc/internal/logging"
	"textproc/internal/workerpool"
)

// ServerConfig holds listener, concurrency and keepalive settings.
type ServerConfig struct {
	Host                 string
	Port                 int
	Workers              int
	MaxConcurrentStreams int
	KeepAliveInterval    time.Duration
	KeepAliveTimeout     time.Duration
	// StopTimeout bounds GracefulStop before the server is force-stopped.
	StopTimeout time.Duration
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:                 "0.0.0.0",
		Port:                 50051,
		Workers:              10,
		MaxConcurrentStreams: 100,
		KeepAliveInterval:    30 * time.Second,
		KeepAliveTimeout:     10 * time.Second,
		StopTimeout:          30 * time.Second,
	}
}

// ServerConfigFrom maps the application config onto ServerConfig.
func ServerConfigFrom(c config.GRPCConfig) ServerConfig {
	cfg := DefaultServerConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	if c.MaxConcurrentStreams > 0 {
		cfg.MaxConcurrentStreams = c.MaxConcurrentStreams
	}
	return cfg
}

// Server serves TextProcessor, running each call on a bounded worker pool.
type Server struct {
	cfg      ServerConfig
	analyzer domain.Analyzer
	logger   logrus.FieldLogger

	grpcServer *grpc.Server
	pool       *workerpool.Pool

	mu       sync.RWMutex
	listener net.Listener
	started  bool
}

// NewServer creates a gRPC server backed by analyzer.
func NewServer(cfg ServerConfig, analyzer domain.Analyzer, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = DefaultServerConfig().StopTimeout
	}
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   logger.WithField("component", "grpc"),
	}
	s.grpcServer = grpc.NewServer(s.buildServerOptions()...)
	RegisterTextProcessorServer(s.grpcServer, s)
	return s
}

func (s *Server) buildServerOptions() []grpc.ServerOption {
	var opts []grpc.ServerOption
	if s.cfg.MaxConcurrentStreams > 0 {
		opts = append(opts, grpc.MaxConcurrentStreams(uint32(s.cfg.MaxConcurrentStreams)))
	}
	if s.cfg.KeepAliveInterval > 0 {
		opts = append(opts,
			grpc.KeepaliveParams(keepalive.ServerParameters{
				Time:    s.cfg.KeepAliveInterval,
				Timeout: s.cfg.KeepAliveTimeout,
			}),
			grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
				MinTime:             s.cfg.KeepAliveInterval / 2,
				PermitWithoutStream: true,
			}),
		)
	}
	return opts
}

// ProcessText validates the request and analyzes it on the worker pool.
func (s *Server) ProcessText(ctx context.Context, req *TextRequest) (*TextResponse, error) {
	if strings.TrimSpace(req.GetText()) == "" {
		s.logger.Warn("rejected empty text")
		return nil, status.Error(codes.InvalidArgument, "Text cannot be empty")
	}

	var result domain.AnalysisResult
	err := s.pool.Do(ctx, func(ctx context.Context) error {
		r, err := s.analyzer.Analyze(ctx, req.Text)
		result = r
		return err
	})
	switch {
	case err == nil:
		return responseFromResult(result), nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return nil, status.FromContextError(err).Err()
	case errors.Is(err, workerpool.ErrClosed):
		return nil, status.Error(codes.Unavailable, "server is shutting down")
	default:
		s.logger.WithError(err).Error("text processing failed")
		return nil, status.Errorf(codes.Internal, "Processing error: %v", err)
	}
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("server already started")
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.pool = workerpool.New(workerpool.Config{Workers: s.cfg.Workers, QueueSize: s.cfg.Workers})

	go func() {
		s.logger.WithField("addr", listener.Addr().String()).Info("gRPC server listening")
		if err := s.grpcServer.Serve(listener); err != nil {
			s.logger.WithError(err).Error("gRPC server error")
		}
	}()

	s.started = true
	return nil
}

// Stop drains in-flight calls, force-stopping after StopTimeout, then
// shuts the worker pool down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return fmt.Errorf("server not started")
	}

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		s.logger.Info("gRPC server stopped gracefully")
	case <-time.After(s.cfg.StopTimeout):
		s.grpcServer.Stop()
		s.logger.Warn("gRPC server force stopped")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.StopTimeout)
	defer cancel()
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.WithError(err).Warn("worker pool did not drain")
	}

	s.started = false
	return nil
}

// Addr returns the listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// IsStarted reports whether the server is serving.
func (s *Server) IsStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
