package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-propertysheet/internal/config"
	"github.com/goliatone/go-propertysheet/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sheet over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck

			srv, err := server.New(rt.sheet,
				server.WithLogger(rt.logger),
				server.WithRule(rt.def.Apply),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rt.logger, &http.Server{
				Addr:              rt.cfg.Server.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}, rt.cfg.Server.ShutdownTimeout)
		},
	}
	cmd.Flags().String("server-addr", config.Default().Server.Addr, "listen address")
	cmd.Flags().Duration("server-shutdown-timeout", config.Default().Server.ShutdownTimeout, "graceful shutdown timeout")
	return cmd
}

// serve runs httpSrv until ctx is done, then drains it within timeout.
func serve(ctx context.Context, logger *zap.Logger, httpSrv *http.Server, timeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
