// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexforge/lexforge/internal/observability"
	"github.com/lexforge/lexforge/internal/store"
	"github.com/lexforge/lexforge/internal/telemetry"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"
)

func newServeCmd() *cobra.Command {
	var metricsAddr string
	var saveInterval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the observability server and a debounced dictionary autosave loop",
		Long: `serve keeps lexforge's dictionary autosave and /metrics, /healthz
endpoints running as a long-lived process; it exposes no domain HTTP
endpoints of its own.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("metrics-addr") && cfg.Metrics.Addr != "" {
				metricsAddr = cfg.Metrics.Addr
			}
			if err := mustAddr(metricsAddr, "metrics-addr"); err != nil {
				return oops.Code("CONFIG_INVALID").Wrap(err)
			}

			telemetry.Init(noop.NewMeterProvider())

			lex, patterns, err := loadDictionary(cfg.Dictionary.Path)
			if err != nil {
				return err
			}

			saver := store.NewSaver(cfg.Dictionary.Path, saveInterval, func() store.Document {
				return store.DocumentFrom(lex, patterns)
			})
			saver.Start(cmd.Context())
			defer saver.Stop()

			obsServer := observability.NewServer(metricsAddr, func() bool { return true })
			if err := obsServer.Start(); err != nil {
				return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			slog.Info("lexforge serve ready", "metrics_addr", obsServer.Addr())
			<-sigCh
			slog.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return obsServer.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "127.0.0.1:9090", "metrics/health HTTP address")
	cmd.Flags().DurationVar(&saveInterval, "save-interval", 2*time.Second, "debounce window for dictionary autosave")
	return cmd
}
