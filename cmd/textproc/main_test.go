package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textproc/internal/config"
	"textproc/internal/domain"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeFromStdin(t *testing.T) {
	text := "This is a test sentence. This test sentence contains multiple words for processing."

	out, err := runCLI(t, text, "analyze")
	require.NoError(t, err)

	var res domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, text, res.Summary)
	assert.Equal(t, domain.Neutral, res.Sentiment)
	assert.Equal(t, 83, res.OriginalLength)
}

func TestAnalyzeFileWithFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	text := "Artificial intelligence is a fascinating field. Machine learning is a subset of artificial intelligence. " +
		"Deep learning uses neural networks. Many companies invest in machine learning."
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	out, err := runCLI(t, "", "analyze", "--sentences", "1", "--keywords", "2", path)
	require.NoError(t, err)

	var res domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Keywords, 2)
	assert.NotEqual(t, text, res.Summary)
	assert.NotEmpty(t, res.Summary)
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, err := runCLI(t, "", "analyze", filepath.Join(t.TempDir(), "absent.txt"))
	assert.ErrorContains(t, err, "read input")
}

func TestAnalyzeRemoteUnavailable(t *testing.T) {
	t.Setenv("PROCESSING_HOST", "127.0.0.1")
	t.Setenv("PROCESSING_PORT", "1")

	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("text"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client:\n  connect_timeout_secs: 1\n"), 0o644))
	cmd.SetArgs([]string{"--config", path, "analyze", "--remote"})

	assert.Error(t, cmd.Execute())
}

func TestUnknownHTTPBackend(t *testing.T) {
	a := &app{}
	a.cfg = mustDefaultConfig(t)
	a.cfg.HTTP.Backend = "carrier-pigeon"
	_, _, err := a.newHTTPServer(t.Context(), nil)
	assert.ErrorContains(t, err, "carrier-pigeon")
}

func mustDefaultConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	return cfg
}
