// Package application wires the ledger components from configuration.
// Both the HTTP server and the ledgerctl CLI start from Build.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/option"

	"github.com/JonMunkholm/ledgerview/internal/config"
	"github.com/JonMunkholm/ledgerview/internal/core"
	"github.com/JonMunkholm/ledgerview/internal/export"
	"github.com/JonMunkholm/ledgerview/internal/invoice"
	"github.com/JonMunkholm/ledgerview/internal/sheet"
	"github.com/JonMunkholm/ledgerview/internal/store"
)

// App holds the wired components.
type App struct {
	Config    *config.Config
	Service   *core.Service
	Renderers map[invoice.Format]invoice.Renderer
	Exporters map[invoice.Format]*export.Exporter
	History   *store.ExportLog // nil without DATABASE_URL

	pool *pgxpool.Pool
}

// Build creates the source, service, renderers and exporters described by
// cfg. The export history is connected only when a database URL is set.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	src, err := NewSource(cfg.Source)
	if err != nil {
		return nil, err
	}

	templates, err := invoice.LoadTemplates(cfg.Invoice.TemplateFile)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Service:   core.NewService(src, cfg),
		Renderers: make(map[invoice.Format]invoice.Renderer),
		Exporters: make(map[invoice.Format]*export.Exporter),
	}

	var recorder export.Recorder = export.NopRecorder{}
	if cfg.Database.HistoryEnabled() {
		pool, err := store.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		log := store.NewExportLog(pool)
		if err := log.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		slog.Info("export history enabled", "database", store.DatabaseName(cfg.Database.URL))
		app.pool = pool
		app.History = log
		recorder = log
	}

	assets := os.DirFS(cfg.Invoice.AssetDir)
	for _, t := range templates.Templates {
		r, err := invoice.New(t, assets)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Renderers[t.Format] = r
		app.Exporters[t.Format] = export.New(r, cfg.Export.MaxParallel, export.WithRecorder(recorder))
		slog.Debug("invoice template loaded", "name", t.Name, "format", t.Format, "fields", len(t.Fields))
	}

	def, err := invoice.ParseFormat(cfg.Invoice.Format)
	if err != nil {
		app.Close()
		return nil, err
	}
	if _, ok := app.Renderers[def]; !ok {
		app.Close()
		return nil, fmt.Errorf("no invoice template for INVOICE_FORMAT %q", cfg.Invoice.Format)
	}
	return app, nil
}

// NewSource returns the tabular source selected by SOURCE_KIND.
func NewSource(cfg config.SourceConfig) (sheet.Source, error) {
	switch cfg.Kind {
	case "sheets":
		// The fetch deadline comes from the request context. A custom HTTP
		// client would bypass the API key transport.
		return sheet.NewGoogleSheets(option.WithUserAgent("ledgerview")), nil
	case "xlsx":
		return sheet.NewWorkbook(cfg.SkipRows, &http.Client{Timeout: cfg.Timeout}), nil
	default:
		return nil, fmt.Errorf("unknown SOURCE_KIND %q", cfg.Kind)
	}
}

// Close releases the history database pool, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
