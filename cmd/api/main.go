package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xavierca1/jetleads/internal/config"
	"github.com/xavierca1/jetleads/internal/featureflag"
	"github.com/xavierca1/jetleads/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jetleads",
		Short:         "Charter lead intake API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the database schema",
			RunE:  runMigrate,
		},
		&cobra.Command{
			Use:   "sweep-retention",
			Short: "Delete leads and contact submissions past their retention date",
			RunE:  runSweep,
		},
		&cobra.Command{
			Use:   "variant <flag-id> <visitor-id>",
			Short: "Print the variant a visitor is assigned",
			Args:  cobra.ExactArgs(2),
			RunE:  runVariant,
		},
	)
	return root
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Error("invalid configuration")
		return nil, err
	}
	if err := logger.Init(logger.Options{
		Level:       cfg.LogLevel,
		JSON:        cfg.IsProduction(),
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.Environment,
	}); err != nil {
		logrus.WithError(err).Warn("sentry disabled")
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Flush()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		logger.LogError("startup_failed", err, nil)
		return err
	}
	defer a.Close()

	h, err := a.routes(ctx)
	if err != nil {
		logger.LogError("startup_failed", err, nil)
		return err
	}

	go a.retention.Start(ctx)
	a.startCRMSync(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(h, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	db, err := openDatabase(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	logrus.WithField("driver", cfg.DatabaseDriver).Info("schema up to date")
	return nil
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	for table, n := range a.retention.Sweep(cmd.Context()) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d deleted\n", table, n)
	}
	return nil
}

func runVariant(cmd *cobra.Command, args []string) error {
	path := os.Getenv("CATALOG_FILE")
	if path == "" {
		path = config.DefaultCatalogFile
	}
	catalog, err := config.LoadCatalog(path)
	if err != nil {
		return err
	}
	assigner, err := featureflag.NewAssigner(catalog.FeatureFlags)
	if err != nil {
		return err
	}
	if !assigner.Has(args[0]) {
		return fmt.Errorf("unknown feature flag %q", args[0])
	}

	out := struct {
		FlagID    string               `json:"flagId"`
		VisitorID string               `json:"visitorId"`
		Bucket    int                  `json:"bucket"`
		Variant   *featureflag.Variant `json:"variant"`
	}{args[0], args[1], featureflag.Bucket(args[1]), assigner.GetVariant(args[0], args[1])}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
