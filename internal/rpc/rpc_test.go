package rpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"textproc/internal/config"
	"textproc/internal/domain"
	"textproc/internal/service"
	"textproc/internal/stopwords"
)

const sampleText = "This is a test sentence. This test sentence contains multiple words for processing."

type analyzerFunc func(ctx context.Context, text string) (domain.AnalysisResult, error)

func (f analyzerFunc) Analyze(ctx context.Context, text string) (domain.AnalysisResult, error) {
	return f(ctx, text)
}

func startServer(t *testing.T, analyzer domain.Analyzer) *Server {
	t.Helper()
	cfg := DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.Workers = 2
	cfg.StopTimeout = 2 * time.Second

	srv := NewServer(cfg, analyzer, nil)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })
	return srv
}

func connect(t *testing.T, srv *Server, cfg ClientConfig) *Client {
	t.Helper()
	cfg.Target = srv.Addr().String()
	client := NewClient(cfg, nil)
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func engine() domain.Analyzer {
	return service.NewWithStopWords(stopwords.Default(), service.Options{}, nil)
}

func TestProcessTextRoundTrip(t *testing.T) {
	srv := startServer(t, engine())
	client := connect(t, srv, ClientConfig{})

	resp, err := client.ProcessText(context.Background(), sampleText)
	require.NoError(t, err)

	assert.Equal(t, sampleText, resp.Summary)
	assert.Equal(t, "neutral", resp.Sentiment)
	assert.EqualValues(t, 83, resp.OriginalLength)
	assert.EqualValues(t, 83, resp.ProcessedLength)
	assert.Equal(t, []string{"test", "sentence", "contains", "multiple", "words"}, resp.Keywords)

	local, err := engine().Analyze(context.Background(), sampleText)
	require.NoError(t, err)
	remote, err := client.Analyze(context.Background(), sampleText)
	require.NoError(t, err)
	assert.Equal(t, local, remote)
}

func TestProcessTextRejectsEmptyText(t *testing.T) {
	srv := startServer(t, engine())
	client := connect(t, srv, ClientConfig{})

	for _, text := range []string{"", "   \n\t"} {
		_, err := client.ProcessText(context.Background(), text)

		var fault *FaultError
		require.ErrorAs(t, err, &fault)
		assert.Equal(t, codes.InvalidArgument, fault.Code)
		assert.Equal(t, "Text cannot be empty", fault.Message)
	}
}

func TestProcessTextInternalError(t *testing.T) {
	failing := analyzerFunc(func(ctx context.Context, text string) (domain.AnalysisResult, error) {
		return domain.AnalysisResult{}, errors.New("tokenizer exploded")
	})
	srv := startServer(t, failing)
	client := connect(t, srv, ClientConfig{})

	_, err := client.ProcessText(context.Background(), "some text")

	var fault *FaultError
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, codes.Internal, fault.Code)
	assert.Equal(t, "Processing error: tokenizer exploded", fault.Message)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestProcessTextTimeout(t *testing.T) {
	slow := analyzerFunc(func(ctx context.Context, text string) (domain.AnalysisResult, error) {
		select {
		case <-ctx.Done():
			return domain.AnalysisResult{}, ctx.Err()
		case <-time.After(2 * time.Second):
			return domain.AnalysisResult{Summary: text}, nil
		}
	})
	srv := startServer(t, slow)
	client := connect(t, srv, ClientConfig{Timeout: 50 * time.Millisecond})

	_, err := client.ProcessText(context.Background(), "slow text")
	require.ErrorIs(t, err, ErrTimeout)

	var fault *FaultError
	assert.False(t, errors.As(err, &fault))
}

func TestConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	logger, hook := test.NewNullLogger()
	client := NewClient(ClientConfig{Target: addr, ConnectTimeout: 200 * time.Millisecond}, logger)

	err = client.Connect(context.Background())
	require.ErrorIs(t, err, ErrConnect)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.NotEmpty(t, hook.AllEntries())

	_, err = client.ProcessText(context.Background(), "text")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestClientNotConnected(t *testing.T) {
	client := NewClient(ClientConfig{Target: "127.0.0.1:1"}, nil)

	_, err := client.Analyze(context.Background(), "text")
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.False(t, client.HealthCheck(context.Background()))
	assert.NoError(t, client.Close())
}

func TestHealthCheck(t *testing.T) {
	srv := startServer(t, engine())
	client := connect(t, srv, ClientConfig{})

	assert.True(t, client.HealthCheck(context.Background()))

	require.NoError(t, client.Close())
	assert.False(t, client.HealthCheck(context.Background()))
}

func TestServerLifecycle(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	srv := NewServer(cfg, engine(), nil)

	assert.Nil(t, srv.Addr())
	assert.Error(t, srv.Stop())

	require.NoError(t, srv.Start())
	assert.True(t, srv.IsStarted())
	assert.NotNil(t, srv.Addr())
	assert.Error(t, srv.Start())

	require.NoError(t, srv.Stop())
	assert.False(t, srv.IsStarted())
}

func TestServerConfigFrom(t *testing.T) {
	cfg := ServerConfigFrom(config.GRPCConfig{Host: "10.0.0.1", Port: 6000})
	assert.Equal(t, "10.0.0.1", cfg.Host)
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, 10, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.StopTimeout)
}
