package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// HTTPConfig configures the synchronous JSON API.
type HTTPConfig struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	ReadTimeoutSecs  int    `yaml:"read_timeout_secs"`
	WriteTimeoutSecs int    `yaml:"write_timeout_secs"`
	// Backend is "local" (in-process engine) or "grpc" (forward to the RPC service).
	Backend      string `yaml:"backend"`
	Gzip         bool   `yaml:"gzip"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// GRPCConfig configures the RPC server.
type GRPCConfig struct {
	Host                 string `yaml:"host"`
	Port                 int    `yaml:"port"`
	Workers              int    `yaml:"workers"`
	MaxConcurrentStreams int    `yaml:"max_concurrent_streams"`
}

// ClientConfig holds the RPC client target and per-call deadlines.
type ClientConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	TimeoutSecs        int    `yaml:"timeout_secs"`
	HealthTimeoutSecs  int    `yaml:"health_timeout_secs"`
	ConnectTimeoutSecs int    `yaml:"connect_timeout_secs"`
}

// AnalysisConfig tunes the analysis engine.
type AnalysisConfig struct {
	SummarySentences int    `yaml:"summary_sentences"`
	TopKeywords      int    `yaml:"top_keywords"`
	StopwordsPath    string `yaml:"stopwords_path"`
}

// LoggingConfig selects log level, format and an optional rotating log file.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Client   ClientConfig   `yaml:"client"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Addr returns host:port of the HTTP listener.
func (c HTTPConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// Target returns the host:port the RPC client dials.
func (c ClientConfig) Target() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// Timeout is the deadline for one processing call.
func (c ClientConfig) Timeout() time.Duration { return secs(c.TimeoutSecs) }

// HealthTimeout is the deadline for a liveness probe.
func (c ClientConfig) HealthTimeout() time.Duration { return secs(c.HealthTimeoutSecs) }

// ConnectTimeout bounds connection establishment.
func (c ClientConfig) ConnectTimeout() time.Duration { return secs(c.ConnectTimeoutSecs) }

func secs(n int) time.Duration { return time.Duration(n) * time.Second }

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			return cfg, ApplyEnv(cfg)
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/textproc/config.yaml.
// If neither exists, defaults are returned with an empty path.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err == nil {
		if _, err := os.Stat(userPath); err == nil {
			cfg, err := Load(userPath)
			return cfg, userPath, err
		}
	}
	cfg := Default()
	return cfg, "", ApplyEnv(cfg)
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "textproc", "config.yaml"), nil
}

// Default returns the documented defaults.
func Default() *AppConfig {
	return &AppConfig{
		HTTP: HTTPConfig{
			Host:             "0.0.0.0",
			Port:             8000,
			ReadTimeoutSecs:  30,
			WriteTimeoutSecs: 60,
			Backend:          "local",
			Gzip:             true,
			MaxBodyBytes:     10 << 20,
		},
		GRPC: GRPCConfig{
			Host:                 "0.0.0.0",
			Port:                 50051,
			Workers:              10,
			MaxConcurrentStreams: 100,
		},
		Client: ClientConfig{
			Host:               "localhost",
			Port:               50051,
			TimeoutSecs:        30,
			HealthTimeoutSecs:  5,
			ConnectTimeoutSecs: 5,
		},
		Analysis: AnalysisConfig{
			SummarySentences: 2,
			TopKeywords:      5,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  15,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
	}
}

// applyConfigDefaults restores defaults for fields a YAML file zeroed out.
func applyConfigDefaults(cfg *AppConfig) {
	d := Default()
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = d.HTTP.Port
	}
	if cfg.HTTP.ReadTimeoutSecs == 0 {
		cfg.HTTP.ReadTimeoutSecs = d.HTTP.ReadTimeoutSecs
	}
	if cfg.HTTP.WriteTimeoutSecs == 0 {
		cfg.HTTP.WriteTimeoutSecs = d.HTTP.WriteTimeoutSecs
	}
	if cfg.HTTP.Backend == "" {
		cfg.HTTP.Backend = d.HTTP.Backend
	}
	if cfg.HTTP.MaxBodyBytes <= 0 {
		cfg.HTTP.MaxBodyBytes = d.HTTP.MaxBodyBytes
	}
	if cfg.GRPC.Port == 0 {
		cfg.GRPC.Port = d.GRPC.Port
	}
	if cfg.GRPC.Workers <= 0 {
		cfg.GRPC.Workers = d.GRPC.Workers
	}
	if cfg.GRPC.MaxConcurrentStreams <= 0 {
		cfg.GRPC.MaxConcurrentStreams = d.GRPC.MaxConcurrentStreams
	}
	if cfg.Client.Host == "" {
		cfg.Client.Host = d.Client.Host
	}
	if cfg.Client.Port == 0 {
		cfg.Client.Port = d.Client.Port
	}
	if cfg.Client.TimeoutSecs <= 0 {
		cfg.Client.TimeoutSecs = d.Client.TimeoutSecs
	}
	if cfg.Client.HealthTimeoutSecs <= 0 {
		cfg.Client.HealthTimeoutSecs = d.Client.HealthTimeoutSecs
	}
	if cfg.Client.ConnectTimeoutSecs <= 0 {
		cfg.Client.ConnectTimeoutSecs = d.Client.ConnectTimeoutSecs
	}
	if cfg.Analysis.SummarySentences <= 0 {
		cfg.Analysis.SummarySentences = d.Analysis.SummarySentences
	}
	if cfg.Analysis.TopKeywords <= 0 {
		cfg.Analysis.TopKeywords = d.Analysis.TopKeywords
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = d.Logging.Format
	}
}

// ApplyEnv overrides cfg from environment variables:
// PROCESSING_HOST, PROCESSING_PORT, GRPC_HOST, GRPC_PORT, HTTP_HOST,
// HTTP_PORT, HTTP_BACKEND, LOG_LEVEL and STOPWORDS_PATH.
func ApplyEnv(cfg *AppConfig) error {
	strVars := map[string]*string{
		"PROCESSING_HOST": &cfg.Client.Host,
		"GRPC_HOST":       &cfg.GRPC.Host,
		"HTTP_HOST":       &cfg.HTTP.Host,
		"HTTP_BACKEND":    &cfg.HTTP.Backend,
		"LOG_LEVEL":       &cfg.Logging.Level,
		"STOPWORDS_PATH":  &cfg.Analysis.StopwordsPath,
	}
	for name, dst := range strVars {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
	intVars := map[string]*int{
		"PROCESSING_PORT": &cfg.Client.Port,
		"GRPC_PORT":       &cfg.GRPC.Port,
		"HTTP_PORT":       &cfg.HTTP.Port,
	}
	for name, dst := range intVars {
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		*dst = n
	}
	return nil
}
