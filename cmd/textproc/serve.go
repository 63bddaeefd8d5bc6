package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"textproc/internal/domain"
	"textproc/internal/httpapi"
	"textproc/internal/rpc"
	"textproc/internal/service"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine := service.New(a.cfg.Analysis, a.logger)
			g, ctx := errgroup.WithContext(ctx)

			srv := rpc.NewServer(rpc.ServerConfigFrom(a.cfg.GRPC), engine, a.logger)
			if err := srv.Start(); err != nil {
				return err
			}
			g.Go(func() error {
				<-ctx.Done()
				return srv.Stop()
			})

			httpSrv, closeBackend, err := a.newHTTPServer(ctx, engine)
			if err != nil {
				stop()
				_ = g.Wait()
				return err
			}
			defer closeBackend()
			g.Go(func() error { return httpSrv.ListenAndServe(ctx) })

			return g.Wait()
		},
	}
}

func newHTTPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "http",
		Short: "Run the HTTP API only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var local domain.Analyzer
			if a.cfg.HTTP.Backend != "grpc" {
				local = service.New(a.cfg.Analysis, a.logger)
			}
			httpSrv, closeBackend, err := a.newHTTPServer(ctx, local)
			if err != nil {
				return err
			}
			defer closeBackend()
			return httpSrv.ListenAndServe(ctx)
		},
	}
}

func newGRPCCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "grpc",
		Short: "Run the gRPC service only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := rpc.NewServer(rpc.ServerConfigFrom(a.cfg.GRPC), service.New(a.cfg.Analysis, a.logger), a.logger)
			if err := srv.Start(); err != nil {
				return err
			}
			<-ctx.Done()
			return srv.Stop()
		},
	}
}

// newHTTPServer builds the HTTP front-end over local, or over a gRPC client
// when http.backend is "grpc".
func (a *app) newHTTPServer(ctx context.Context, local domain.Analyzer) (*httpapi.Server, func() error, error) {
	switch a.cfg.HTTP.Backend {
	case "", "local":
		return httpapi.New(a.cfg.HTTP, local, nil, a.logger), func() error { return nil }, nil
	case "grpc":
		client := rpc.NewClient(rpc.ClientConfigFrom(a.cfg.Client), a.logger)
		if err := client.Connect(ctx); err != nil {
			return nil, nil, err
		}
		return httpapi.New(a.cfg.HTTP, client, client, a.logger), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown http backend %q", a.cfg.HTTP.Backend)
	}
}
