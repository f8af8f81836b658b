package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/edgarsift/internal/httpapi"
	"github.com/fyrsmithlabs/edgarsift/internal/refine"
	"github.com/fyrsmithlabs/edgarsift/internal/transform"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP API",
	Long: `Serve exposes the analysis services over HTTP: schema diffing and
pattern detection on POST /v1/analyze, threshold filtering on
POST /v1/filter, and failure analysis on POST /v1/refine. Health and
Prometheus metrics are on GET /healthz and GET /metrics.

Examples:
  edgarsift serve
  edgarsift serve --config edgarsift.yaml --log-format console`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	server, err := httpapi.NewServer(
		newDetector(cfg.Extraction.MaxSampleValues),
		transform.NewFilterService(),
		refine.NewAnalyzer(cfg.Refine.MinPatternFrequency, cfg.Refine.MinFieldFailures),
		logger,
		&httpapi.Config{
			Host:             cfg.Serve.Host,
			Port:             cfg.Serve.Port,
			DefaultThreshold: cfg.Extraction.ConfidenceThreshold,
		},
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
