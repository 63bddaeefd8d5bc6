package rpc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"textproc/internal/config"
	"textproc/internal/domain"
	"textproc/internal/logging"
)

var (
	// ErrNotConnected is returned for calls made before Connect or after Close.
	ErrNotConnected = errors.New("not connected to processing service")
	// ErrConnect means the connection could not be established.
	ErrConnect = errors.New("cannot connect to processing service")
	// ErrTimeout means the call deadline expired before a response arrived.
	ErrTimeout = errors.New("processing service call timed out")
)

// FaultError is a status returned by the processing service.
type FaultError struct {
	Code    codes.Code
	Message string
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("processing service error (%s): %s", e.Code, e.Message)
}

// healthCheckText is the payload of the liveness probe.
const healthCheckText = "health check"

// ClientConfig holds the target and per-call deadlines.
type ClientConfig struct {
	Target         string
	Timeout        time.Duration
	HealthTimeout  time.Duration
	ConnectTimeout time.Duration
}

// ClientConfigFrom maps the application config onto ClientConfig.
func ClientConfigFrom(c config.ClientConfig) ClientConfig {
	return ClientConfig{
		Target:         c.Target(),
		Timeout:        c.Timeout(),
		HealthTimeout:  c.HealthTimeout(),
		ConnectTimeout: c.ConnectTimeout(),
	}
}

// Client talks to a TextProcessor server. It implements domain.Analyzer.
type Client struct {
	cfg    ClientConfig
	logger logrus.FieldLogger

	mu   sync.RWMutex
	conn *grpc.ClientConn
}

var _ domain.Analyzer = (*Client)(nil)

func NewClient(cfg ClientConfig, logger logrus.FieldLogger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 5 * time.Second
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	return &Client{cfg: cfg, logger: logger.WithField("component", "grpc-client")}
}

// Connect dials the target and waits until the channel is ready or
// ConnectTimeout elapses. Failures wrap ErrConnect.
func (c *Client) Connect(ctx context.Context) error {
	conn, err := grpc.NewClient(c.cfg.Target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	if err != nil {
		return fmt.Errorf("%w at %s: %v", ErrConnect, c.cfg.Target, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	conn.Connect()
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			break
		}
		if state == connectivity.Idle {
			conn.Connect()
		}
		if !conn.WaitForStateChange(ctx, state) {
			conn.Close()
			c.logger.WithField("target", c.cfg.Target).Error("failed to connect to processing service")
			return fmt.Errorf("%w at %s: %v", ErrConnect, c.cfg.Target, ctx.Err())
		}
	}

	c.mu.Lock()
	old := c.conn
	c.conn = conn
	c.mu.Unlock()
	if old != nil {
		old.Close()
	}
	c.logger.WithField("target", c.cfg.Target).Info("connected to processing service")
	return nil
}

// Close releases the connection. Closing an unconnected client is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	c.logger.Info("closed connection to processing service")
	return conn.Close()
}

// ProcessText sends text for analysis with the configured call timeout.
func (c *Client) ProcessText(ctx context.Context, text string) (*TextResponse, error) {
	return c.invoke(ctx, text, c.cfg.Timeout)
}

// Analyze implements domain.Analyzer over the remote service.
func (c *Client) Analyze(ctx context.Context, text string) (domain.AnalysisResult, error) {
	resp, err := c.ProcessText(ctx, text)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	return resp.Result(), nil
}

// HealthCheck reports whether the service answers a probe within HealthTimeout.
func (c *Client) HealthCheck(ctx context.Context) bool {
	_, err := c.invoke(ctx, healthCheckText, c.cfg.HealthTimeout)
	if err != nil {
		c.logger.WithError(err).Warn("health check failed")
		return false
	}
	return true
}

func (c *Client) invoke(ctx context.Context, text string, timeout time.Duration) (*TextResponse, error) {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return nil, ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out := new(TextResponse)
	if err := conn.Invoke(ctx, processTextMethod, &TextRequest{Text: text}, out); err != nil {
		return nil, c.translate(err, timeout)
	}
	return out, nil
}

func (c *Client) translate(err error, timeout time.Duration) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("processing service call: %w", err)
	}
	if st.Code() == codes.DeadlineExceeded {
		c.logger.WithField("timeout", timeout).Error("processing service call timed out")
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	c.logger.WithFields(logrus.Fields{"code": st.Code(), "message": st.Message()}).Error("processing service returned an error")
	return &FaultError{Code: st.Code(), Message: st.Message()}
}
