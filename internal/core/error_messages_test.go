package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/ledgerview/internal/sheet"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"fetch error", &sheet.FetchError{Kind: "sheets", Range: "Admin", Err: errors.New("403 forbidden")}, "SRC001"},
		{"fetch timeout is still a source error", &sheet.FetchError{Kind: "sheets", Err: context.DeadlineExceeded}, "SRC001"},
		{"empty header", fmt.Errorf("load: %w", ErrParse), "SRC002"},
		{"render", errors.New(`render invoice: background asset "bill.png": file does not exist`), "REN001"},
		{"empty search", ErrEmptyQuery, "VAL001"},
		{"missing row", fmt.Errorf("row 9: %w", ErrRecordNotFound), "VAL003"},
		{"busy", ErrTooManyExports, "EXP003"},
		{"plain deadline", context.DeadlineExceeded, "REQ002"},
		{"cancelled", context.Canceled, "REQ001"},
		{"case insensitive", errors.New("RATE LIMIT exceeded"), "RATE001"},
		{"unknown error returns default", errors.New("some random internal error"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrEmptyQuery)

	expected := "Please enter a value to search (Code: VAL001). Type a consumer name, or showall to list everything"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", ErrTooManyExports, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
