package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/ledgerview/internal/export"
	"github.com/JonMunkholm/ledgerview/internal/logging"
)

// handleExport streams invoices.zip for the admin records matching ?q=.
//
// The export holds a limiter slot for its whole run and is abandoned after
// EXPORT_TIMEOUT; records not rendered by then are listed as failures.
// Outcome counts are sent in X-Export-* headers, also when the archive
// could not be assembled.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := s.formatParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	exporter, ok := s.Exporters[format]
	if !ok {
		respondError(w, r, fmt.Errorf("unknown invoice format %q", format), http.StatusBadRequest)
		return
	}
	query := r.URL.Query().Get("q")

	var bundle *export.Bundle
	err = s.Service.ExportLimiter().Do(r.Context(), func(ctx context.Context) error {
		if s.cfg.Export.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.Export.Timeout)
			defer cancel()
		}

		snap, records, err := s.Service.AdminRecords(ctx, query)
		if err != nil && !snap.Stale {
			return err
		}
		bundle, err = exporter.Export(ctx, records, time.Now())
		return err
	})
	logger := logging.FromContext(r.Context())

	// An archive that could not be assembled still arrives as an empty zip
	// with every record counted as failed.
	var assembly *export.ExportError
	switch {
	case errors.As(err, &assembly) && bundle != nil:
		logger.Error("invoice archive assembly failed", "export_id", bundle.ID.String(), "error", assembly.Err)
	case err != nil:
		respondError(w, r, err, statusFor(err))
		return
	}

	for _, f := range bundle.Failures {
		logger.Warn("invoice skipped", "export_id", bundle.ID.String(), "row", f.Row, "reason", f.Reason)
	}

	w.Header().Set("X-Export-ID", bundle.ID.String())
	w.Header().Set("X-Export-Succeeded", strconv.Itoa(bundle.SuccessCount))
	w.Header().Set("X-Export-Failed", strconv.Itoa(len(bundle.Failures)))
	writeAttachment(w, "application/zip", export.ArchiveName, bundle.Archive)
}
