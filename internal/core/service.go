package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/ledgerview/internal/config"
	"github.com/JonMunkholm/ledgerview/internal/logging"
	"github.com/JonMunkholm/ledgerview/internal/sheet"
)

// ErrEmptyQuery is returned when the public search is submitted blank.
var ErrEmptyQuery = errors.New("search term is required")

// ErrRecordNotFound is returned when a row number does not exist in the ledger.
var ErrRecordNotFound = errors.New("record not found")

// Snapshot is a dataset together with when it was fetched.
type Snapshot struct {
	Dataset
	Range     string
	FetchedAt time.Time
	Stale     bool // the latest fetch failed; this is the previous good data
}

// Service provides the ledger operations used by the web server and the CLI.
type Service struct {
	source  sheet.Source
	src     config.SourceConfig
	limiter *ExportLimiter
	now     func() time.Time

	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewService creates a Service reading from source with the ranges and
// credential resolved in cfg.
func NewService(source sheet.Source, cfg *config.Config) *Service {
	return &Service{
		source:    source,
		src:       cfg.Source,
		limiter:   NewExportLimiter(cfg.Export.MaxConcurrent, cfg.Export.MaxWaitTime),
		now:       time.Now,
		snapshots: make(map[string]Snapshot),
	}
}

// DashboardRange returns the range shown on the public dashboard.
func (s *Service) DashboardRange() string {
	return s.src.DashboardRange
}

// AdminRange returns the range used by the admin view.
func (s *Service) AdminRange() string {
	if s.src.AdminRange == "" {
		return s.src.DashboardRange
	}
	return s.src.AdminRange
}

// Load fetches and maps one range. Fetches are single-shot.
//
// On failure the error is returned together with the last good snapshot of
// the range, marked Stale, so callers can keep showing consistent data. If
// the range was never fetched successfully the snapshot is empty.
func (s *Service) Load(ctx context.Context, rangeName string) (Snapshot, error) {
	logger := logging.WithFields(ctx, "range", rangeName)

	fetchCtx := ctx
	if s.src.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.src.Timeout)
		defer cancel()
	}

	start := time.Now()
	grid, err := s.source.Fetch(fetchCtx, sheet.Request{
		SpreadsheetID: s.src.SpreadsheetID,
		Range:         rangeName,
		Credential:    s.src.APIKey,
	})
	if err != nil {
		logger.Error("fetch failed", "error", err)
		s.mu.RLock()
		prev, ok := s.snapshots[rangeName]
		s.mu.RUnlock()
		if ok {
			prev.Stale = true
			return prev, err
		}
		return Snapshot{Range: rangeName}, err
	}

	ds, err := MapGrid(grid)
	if errors.Is(err, ErrParse) {
		// A sheet with data but no header is shown as empty, not as an outage.
		logger.Warn("ledger has no header row, treating as empty", "rows", len(grid))
	}

	snap := Snapshot{Dataset: ds, Range: rangeName, FetchedAt: s.now()}

	s.mu.Lock()
	s.snapshots[rangeName] = snap
	s.mu.Unlock()

	logger.Debug("ledger fetched",
		"records", ds.Len(),
		"columns", len(ds.Header),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

// Search runs the public search for state against a fresh fetch of the
// dashboard range.
//
// A blank query returns ErrEmptyQuery without fetching. When the fetch fails
// but an earlier snapshot exists, the view is built from it with Stale set
// and the fetch error is returned alongside.
func (s *Service) Search(ctx context.Context, state ViewState) (SearchView, error) {
	if strings.TrimSpace(state.Query) == "" {
		return SearchView{State: state}, ErrEmptyQuery
	}

	snap, err := s.Load(ctx, s.DashboardRange())
	if err != nil && !snap.Stale {
		return SearchView{State: state}, err
	}

	view := BuildView(snap.Dataset, state, DefaultPageSize)
	view.FetchedAt = snap.FetchedAt
	view.Stale = snap.Stale

	logging.FromContext(ctx).Debug("search",
		"query", state.Query,
		"page", view.State.Page,
		"results", view.Page.TotalRows,
	)
	return view, err
}

// AdminRecords fetches the admin range and applies the plain filter.
// The stale-data contract is the same as Search.
func (s *Service) AdminRecords(ctx context.Context, query string) (Snapshot, []Record, error) {
	snap, err := s.Load(ctx, s.AdminRange())
	if err != nil && !snap.Stale {
		return snap, nil, err
	}
	return snap, Filter(snap.Records, query), err
}

// AdminRecord returns one admin record by its 1-based row number.
func (s *Service) AdminRecord(ctx context.Context, row int) (Record, error) {
	snap, err := s.Load(ctx, s.AdminRange())
	if err != nil && !snap.Stale {
		return Record{}, err
	}
	rec, ok := snap.Find(row)
	if !ok {
		return Record{}, fmt.Errorf("row %d: %w", row, ErrRecordNotFound)
	}
	return rec, nil
}

// ExportLimiter returns the limiter guarding batch exports.
func (s *Service) ExportLimiter() *ExportLimiter {
	return s.limiter
}

// WaitForExports blocks until all active exports complete or ctx is done.
// Used during graceful shutdown.
func (s *Service) WaitForExports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
