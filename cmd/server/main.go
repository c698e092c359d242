package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/ledgerview/internal/application"
	"github.com/JonMunkholm/ledgerview/internal/auth"
	"github.com/JonMunkholm/ledgerview/internal/config"
	"github.com/JonMunkholm/ledgerview/internal/logging"
	"github.com/JonMunkholm/ledgerview/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source", cfg.Source.Kind,
		"dashboard_range", cfg.Source.DashboardRange,
		"admin_range", cfg.Source.AdminRange,
		"export_max_concurrent", cfg.Export.MaxConcurrent,
		"history", cfg.Database.HistoryEnabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()
	app, err := application.Build(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	deps := web.Deps{
		Service:   app.Service,
		Renderers: app.Renderers,
		Exporters: app.Exporters,
		Sessions:  auth.NewSessions(auth.Static{Username: cfg.Admin.Username, Password: cfg.Admin.Password}, cfg.Admin.SessionTTL),
	}
	if app.History != nil {
		deps.History = app.History
	}
	server := web.NewServer(deps, cfg)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for in-flight exports so their archives are delivered
		if status := app.Service.ExportLimiter().Status(); status.Active > 0 {
			slog.Info("waiting for exports to complete", "active", status.Active)
			if err := app.Service.WaitForExports(shutdownCtx); err != nil {
				slog.Warn("exports did not complete in time", "error", err)
			} else {
				slog.Info("all exports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
}
