package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	web "auraboxing/internal/adapters/http"
	"auraboxing/internal/adapters/http/perf"
	"auraboxing/internal/adapters/storage"
	enquiryStore "auraboxing/internal/adapters/storage/enquiry"
	programStore "auraboxing/internal/adapters/storage/program"
	"auraboxing/internal/application/orchestrators"
	"auraboxing/internal/config"
)

// runServe loads configuration, opens the database and serves until interrupted.
func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	db, err := storage.OpenSQLite(cfg.DB.Path)
	if err != nil {
		return err
	}

	// Performance instrumentation: wrap DB with timing
	collector := perf.NewCollector()
	timedDB := storage.NewTimedDB(db, collector, cfg.Limits.SlowQueryMs)
	defer timedDB.Close()

	if err := storage.MigrateDB(timedDB.RawDB()); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	stores := &web.Stores{
		ProgramStore: programStore.NewSQLiteStore(timedDB),
		EnquiryStore: enquiryStore.NewSQLiteStore(timedDB),
	}

	gate, err := newGate(cfg)
	if err != nil {
		return err
	}
	csrfKey, err := cfg.CSRFKey()
	if err != nil {
		return err
	}
	flashKey, err := cfg.FlashKey()
	if err != nil {
		return err
	}

	handler := web.NewMux(stores, collector, web.Options{
		Gate:           gate,
		CSRFKey:        csrfKey,
		FlashKey:       flashKey,
		SessionTTL:     cfg.Admin.SessionTTL,
		RatePerSecond:  cfg.Limits.RatePerSecond,
		SlowRequestMs:  cfg.Limits.SlowRequestMs,
		Secure:         cfg.IsProduction(),
		TrustedOrigins: cfg.HTTP.TrustedOrigins,
		Site: web.SiteContent{
			Name:    cfg.Site.Name,
			Tagline: cfg.Site.Tagline,
			About:   cfg.Site.About,
		},
		DB: timedDB,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_start", "version", version, "addr", cfg.HTTP.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_stop", "grace", cfg.HTTP.ShutdownGrace.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newGate prefers the stored hash; a plaintext secret is hashed at startup.
func newGate(cfg *config.Config) (*orchestrators.AdminGate, error) {
	if cfg.Admin.SecretHash != "" {
		return orchestrators.NewAdminGate(cfg.Admin.SecretHash)
	}
	if cfg.IsProduction() {
		slog.Warn("config_warning", "event", "plaintext_admin_secret", "detail", "prefer AURA_ADMIN_SECRET_HASH")
	}
	return orchestrators.NewAdminGateFromSecret(cfg.Admin.Secret)
}

// setupLogging installs the default slog handler: text in development, JSON in production.
func setupLogging(cfg *config.Config) {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}
