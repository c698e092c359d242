package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxWorkbookSize caps downloaded workbooks (32MB).
const maxWorkbookSize = 32 << 20

// Workbook reads a sheet from an XLSX workbook. The request's SpreadsheetID
// is a local path or an http(s) URL (e.g. a published sheet export link);
// Range names the worksheet, or the first worksheet when empty.
type Workbook struct {
	// SkipRows drops leading title rows so that the header lands on row 0.
	SkipRows int

	client *http.Client
}

// NewWorkbook creates an XLSX source. A nil client uses http.DefaultClient.
func NewWorkbook(skipRows int, client *http.Client) *Workbook {
	if client == nil {
		client = http.DefaultClient
	}
	return &Workbook{SkipRows: skipRows, client: client}
}

// Fetch opens the workbook and returns the rows of the requested worksheet.
func (w *Workbook) Fetch(ctx context.Context, req Request) (Grid, error) {
	f, err := w.open(ctx, req.SpreadsheetID)
	if err != nil {
		return nil, &FetchError{Kind: "xlsx", Range: req.Range, Err: err}
	}
	defer f.Close()

	name := req.Range
	if name == "" {
		name = f.GetSheetName(0)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, &FetchError{Kind: "xlsx", Range: req.Range, Err: fmt.Errorf("read sheet %q: %w", name, err)}
	}

	if w.SkipRows >= len(rows) {
		return Grid{}, nil
	}
	return Grid(rows[w.SkipRows:]), nil
}

func (w *Workbook) open(ctx context.Context, location string) (*excelize.File, error) {
	if location == "" {
		return nil, fmt.Errorf("no workbook location configured")
	}

	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return excelize.OpenFile(location)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := w.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download workbook: unexpected status %s", resp.Status)
	}

	return excelize.OpenReader(io.LimitReader(resp.Body, maxWorkbookSize))
}
