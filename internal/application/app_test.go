package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/ledgerview/internal/config"
	"github.com/JonMunkholm/ledgerview/internal/invoice"
	"github.com/JonMunkholm/ledgerview/internal/sheet"
)

func TestNewSource(t *testing.T) {
	src, err := NewSource(config.SourceConfig{Kind: "sheets"})
	if err != nil {
		t.Fatalf("NewSource(sheets) error = %v", err)
	}
	if _, ok := src.(*sheet.GoogleSheets); !ok {
		t.Errorf("NewSource(sheets) = %T", src)
	}

	src, err = NewSource(config.SourceConfig{Kind: "xlsx", SkipRows: 1})
	if err != nil {
		t.Fatalf("NewSource(xlsx) error = %v", err)
	}
	if _, ok := src.(*sheet.Workbook); !ok {
		t.Errorf("NewSource(xlsx) = %T", src)
	}

	if _, err := NewSource(config.SourceConfig{Kind: "csv"}); err == nil {
		t.Error("NewSource(csv) error = nil")
	}
}

func buildConfig(t *testing.T) *config.Config {
	return &config.Config{
		Source:  config.SourceConfig{Kind: "xlsx", SpreadsheetID: filepath.Join(t.TempDir(), "ledger.xlsx")},
		Invoice: config.InvoiceConfig{AssetDir: t.TempDir(), Format: "png"},
		Export:  config.ExportConfig{MaxParallel: 2, MaxConcurrent: 1},
	}
}

func TestBuild(t *testing.T) {
	app, err := Build(context.Background(), buildConfig(t))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer app.Close()

	for _, f := range []invoice.Format{invoice.PNG, invoice.PDF} {
		if app.Renderers[f] == nil || app.Exporters[f] == nil {
			t.Errorf("format %s not wired", f)
		}
	}
	if app.History != nil {
		t.Error("History wired without a database URL")
	}
}

func TestBuild_TemplateOverride(t *testing.T) {
	cfg := buildConfig(t)
	cfg.Invoice.TemplateFile = filepath.Join(t.TempDir(), "templates.yaml")
	yaml := "templates:\n  - {name: plain, format: pdf, width: 595, height: 842, fields: [{name: Invoice, x: 40, y: 40, font: {size: 12}}]}\n"
	if err := os.WriteFile(cfg.Invoice.TemplateFile, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Build(context.Background(), cfg); err == nil {
		t.Error("Build() accepted a table without the default png format")
	}

	cfg.Invoice.Format = "pdf"
	app, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer app.Close()
	if _, ok := app.Renderers[invoice.PNG]; ok {
		t.Error("png renderer wired from a pdf-only table")
	}
}
