package sheet

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheets reads ranges through the Sheets API v4 values endpoint using
// an API key passed as the request credential.
type GoogleSheets struct {
	opts []option.ClientOption
}

// NewGoogleSheets creates a Sheets-backed source. Extra client options are
// appended after the per-request API key (tests use option.WithEndpoint).
func NewGoogleSheets(opts ...option.ClientOption) *GoogleSheets {
	return &GoogleSheets{opts: opts}
}

// Fetch retrieves the formatted values of req.Range.
func (g *GoogleSheets) Fetch(ctx context.Context, req Request) (Grid, error) {
	opts := make([]option.ClientOption, 0, len(g.opts)+1)
	if req.Credential != "" {
		opts = append(opts, option.WithAPIKey(req.Credential))
	}
	opts = append(opts, g.opts...)

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, &FetchError{Kind: "sheets", Range: req.Range, Err: fmt.Errorf("create client: %w", err)}
	}

	resp, err := srv.Spreadsheets.Values.Get(req.SpreadsheetID, req.Range).Context(ctx).Do()
	if err != nil {
		return nil, &FetchError{Kind: "sheets", Range: req.Range, Err: err}
	}

	return gridFromValues(resp.Values), nil
}

// gridFromValues converts the API's loosely typed cells to strings.
// Formatted values arrive as strings; anything else is printed as-is.
func gridFromValues(values [][]interface{}) Grid {
	if len(values) == 0 {
		return Grid{}
	}
	grid := make(Grid, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			switch c := v.(type) {
			case nil:
				cells[j] = ""
			case string:
				cells[j] = c
			default:
				cells[j] = fmt.Sprint(c)
			}
		}
		grid[i] = cells
	}
	return grid
}
