package sheet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/api/option"
)

func newSheetsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/spreadsheets/sheet-1/values/Dashboard") {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("key"); got != "secret" {
			t.Errorf("key = %q, want %q", got, "secret")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestGoogleSheets_Fetch(t *testing.T) {
	ts := newSheetsServer(t, http.StatusOK, `{
		"range": "Dashboard!A1:C3",
		"majorDimension": "ROWS",
		"values": [["Invoice", "Consumer Name", "Days"], ["1", "Alice", "5"], ["2", "Bob"]]
	}`)

	src := NewGoogleSheets(option.WithEndpoint(ts.URL + "/"))
	grid, err := src.Fetch(context.Background(), Request{
		SpreadsheetID: "sheet-1",
		Range:         "Dashboard",
		Credential:    "secret",
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := Grid{
		{"Invoice", "Consumer Name", "Days"},
		{"1", "Alice", "5"},
		{"2", "Bob"},
	}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
	}
}

func TestGoogleSheets_FetchEmptyRange(t *testing.T) {
	ts := newSheetsServer(t, http.StatusOK, `{"range": "Dashboard!A1:Z1000", "majorDimension": "ROWS"}`)

	src := NewGoogleSheets(option.WithEndpoint(ts.URL + "/"))
	grid, err := src.Fetch(context.Background(), Request{SpreadsheetID: "sheet-1", Range: "Dashboard", Credential: "secret"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(grid) != 0 {
		t.Errorf("len(grid) = %d, want 0", len(grid))
	}
}

func TestGoogleSheets_FetchError(t *testing.T) {
	ts := newSheetsServer(t, http.StatusForbidden, `{"error": {"code": 403, "message": "API key not valid"}}`)

	src := NewGoogleSheets(option.WithEndpoint(ts.URL + "/"))
	_, err := src.Fetch(context.Background(), Request{SpreadsheetID: "sheet-1", Range: "Dashboard", Credential: "secret"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error type = %T, want *FetchError", err)
	}
	if fetchErr.Kind != "sheets" {
		t.Errorf("Kind = %q, want %q", fetchErr.Kind, "sheets")
	}
}

func TestGridFromValues(t *testing.T) {
	got := gridFromValues([][]interface{}{{"a", nil, 3.5, true}})
	want := Grid{{"a", "", "3.5", "true"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("gridFromValues() mismatch (-want +got):\n%s", diff)
	}
}
