// Package sheet defines the tabular data source contract consumed by the
// dashboard and its two implementations: the Google Sheets values API and
// XLSX workbooks read with excelize.
//
// A source returns a raw, row-major grid of strings. Row 0 is the header.
// Absence of data is an empty grid, never an error.
package sheet

import (
	"context"
	"fmt"
)

// Grid is a row-major 2-D grid of cell values. Rows may have different lengths.
type Grid [][]string

// Request identifies what to fetch. The core resolves these values from
// configuration before calling a Source; sources never read the environment.
type Request struct {
	SpreadsheetID string // sheet ID, or workbook path/URL for XLSX sources
	Range         string // range or sheet name, e.g. "Dashboard"
	Credential    string // API key; ignored by sources that need none
}

// Source fetches a grid. Implementations must be safe for concurrent use.
type Source interface {
	Fetch(ctx context.Context, req Request) (Grid, error)
}

// FetchError reports that a source was unreachable or returned a payload
// that could not be read. Fetches are single-shot; callers decide whether
// to keep showing previously fetched data.
type FetchError struct {
	Kind  string // "sheets" or "xlsx"
	Range string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("source fetch failed (%s %q): %v", e.Kind, e.Range, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
