package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"textproc/internal/config"
	"textproc/internal/domain"
	"textproc/internal/logging"
	"textproc/internal/rpc"
	"textproc/internal/service"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// app holds what every subcommand needs after bootstrap.
type app struct {
	cfg    *config.AppConfig
	logger *logrus.Logger
	closer io.Closer
}

func (a *app) Close() error { return a.closer.Close() }

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "textproc",
		Short: "Text processing service: summaries, sentiment and keywords",
		Long: `textproc analyzes text into an extractive summary, a sentiment label
and a ranked keyword list. It serves the analysis over HTTP and gRPC,
or runs it once from the command line or an interactive terminal UI.

Available commands:
  serve    - HTTP API and gRPC service together
  http     - HTTP API only
  grpc     - gRPC service only
  analyze  - analyze a file or stdin and print JSON
  tui      - interactive terminal UI`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config YAML (default ./config.yaml, then ~/.config/textproc/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(
		newServeCmd(opts),
		newHTTPCmd(opts),
		newGRPCCmd(opts),
		newAnalyzeCmd(opts),
		newTUICmd(opts),
	)
	return root
}

// bootstrap loads .env, the config file and the logger. console receives
// log output; nil keeps logs out of the terminal.
func bootstrap(opts *rootOptions, console io.Writer) (*app, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var (
		cfg  *config.AppConfig
		path string
		err  error
	)
	if opts.configPath != "" {
		path = opts.configPath
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logger, closer, err := logging.New(cfg.Logging, console)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.WithField("path", path).Debug("config loaded")
	}
	return &app{cfg: cfg, logger: logger, closer: closer}, nil
}

// newAnalyzer returns the in-process engine, or a connected gRPC client when
// remote is set. The returned closer releases the client.
func (a *app) newAnalyzer(ctx context.Context, remote bool) (domain.Analyzer, func() error, error) {
	if !remote {
		return service.New(a.cfg.Analysis, a.logger), func() error { return nil }, nil
	}
	client := rpc.NewClient(rpc.ClientConfigFrom(a.cfg.Client), a.logger)
	if err := client.Connect(ctx); err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

