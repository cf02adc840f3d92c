package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/grekz/tally/internal/logging"
	"github.com/grekz/tally/internal/sheetapi"
	"github.com/grekz/tally/pkg/sheet"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured sheet over HTTP",
	Long: `Serve the configured sheet over HTTP until interrupted.

Endpoints:
  GET  /exec    - all data rows as a JSON array of arrays
  POST /exec    - append a row built from form fields named after the headers
  GET  /healthz - backend health
  GET  /books   - sample book catalogue

The sheet is created with the configured headers when it does not exist.
Logs are written to stderr as JSON; use --verbose for request logging.`,
	Args: noArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger, err := logging.New(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	if client, ok := store.(*sheet.Client); ok {
		client.SetLogger(logger)
	}

	headers, err := sheet.Ensure(ctx, store, cfg.Sheet.Name, cfg.Sheet.Headers)
	if err != nil {
		return err
	}
	logger.Info("Sheet ready",
		zap.String("sheet", cfg.Sheet.Name),
		zap.Strings("headers", headers),
		zap.String("backend", cfg.Store.Backend),
		zap.String("instance", cfg.Instance))

	readTimeout, writeTimeout, shutdownTimeout := cfg.Server.Timeouts()
	srv := sheetapi.NewServer(store, cfg.Sheet.Name, sheetapi.Options{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}, logger)

	return runServer(ctx, srv, shutdownTimeout, logger)
}

// server is the part of sheetapi.Server the lifecycle needs.
type server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// runServer serves until ctx is cancelled or the listener fails, then shuts
// down within shutdownTimeout.
func runServer(ctx context.Context, srv server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.ListenAndServe)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", zap.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	return g.Wait()
}
