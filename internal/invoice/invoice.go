// Package invoice renders ledger records onto invoice templates.
//
// A template is data: a background asset plus a table of field positions and
// fonts, declared in templates.yaml. Two renderers consume it: Raster draws
// onto a PNG and Vector lays the fields out on a PDF page. Each call to
// Render allocates its own drawing surface and font faces, so one renderer
// may be used from many goroutines.
package invoice

import (
	"context"
	"fmt"
	"image/color"
	"io/fs"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Record is the read side of a ledger row.
type Record interface {
	Get(name string) (string, bool)
}

// Field names that identify an invoice.
const (
	FieldInvoice  = "Invoice"
	FieldConsumer = "Consumer Name"
)

// Rendered is one finished invoice.
type Rendered struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Renderer draws a record onto its template.
type Renderer interface {
	Render(ctx context.Context, rec Record, now time.Time) (Rendered, error)
	Format() Format
}

// RenderError is returned when a template's background asset cannot be
// loaded or decoded. Missing record fields never cause it.
type RenderError struct {
	Template string
	Asset    string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render invoice %q: background asset %q: %v", e.Template, e.Asset, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// New returns the renderer for the template's format. Background assets are
// read from assets on every render.
func New(t Template, assets fs.FS) (Renderer, error) {
	switch t.Format {
	case PNG:
		return &Raster{tmpl: t, assets: assets}, nil
	case PDF:
		return &Vector{tmpl: t, assets: assets}, nil
	default:
		return nil, fmt.Errorf("unknown invoice format %q", t.Format)
	}
}

// Filename derives "{invoice}_{consumer}{ext}" with every whitespace
// character in the consumer name replaced by "_". Path separators are
// replaced as well so the name is safe as an archive entry.
func Filename(rec Record, f Format) string {
	inv, _ := rec.Get(FieldInvoice)
	name, _ := rec.Get(FieldConsumer)
	return sanitize(inv) + "_" + sanitize(name) + f.Ext()
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, s)
}

func loadAsset(assets fs.FS, t Template) ([]byte, error) {
	if assets == nil {
		return nil, &RenderError{Template: t.Name, Asset: t.Background, Err: fs.ErrNotExist}
	}
	data, err := fs.ReadFile(assets, t.Background)
	if err != nil {
		return nil, &RenderError{Template: t.Name, Asset: t.Background, Err: err}
	}
	return data, nil
}

// parseColor reads #rrggbb. Anything else is black.
func parseColor(s string) color.RGBA {
	black := color.RGBA{A: 0xff}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return black
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
