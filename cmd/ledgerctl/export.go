package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ledgerview/internal/export"
	"github.com/JonMunkholm/ledgerview/internal/invoice"
)

var (
	exportQuery  string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render invoices for the admin rows and write invoices.zip",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportQuery, "query", "", "only export rows containing this text")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "invoice format: png or pdf (default INVOICE_FORMAT)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "invoices.zip", "archive path")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	if exportFormat == "" {
		exportFormat = app.Config.Invoice.Format
	}
	format, err := invoice.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	exporter, ok := app.Exporters[format]
	if !ok {
		return fmt.Errorf("unknown invoice format %q", format)
	}

	ctx, cancel := context.WithTimeout(ctx, app.Config.Export.Timeout)
	defer cancel()

	snap, records, err := app.Service.AdminRecords(ctx, exportQuery)
	if err != nil && !snap.Stale {
		return err
	}

	bundle, exportErr := exporter.Export(ctx, records, time.Now())
	var assembly *export.ExportError
	if exportErr != nil && !errors.As(exportErr, &assembly) {
		return exportErr
	}
	if err := os.WriteFile(exportOut, bundle.Archive, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %d invoices to %s\n", bundle.SuccessCount, exportOut)
	for _, f := range bundle.Failures {
		fmt.Fprintf(out, "  skipped row %d (%s %s): %s\n", f.Row, f.Invoice, f.Consumer, f.Reason)
	}
	return exportErr
}
