package invoice

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io/fs"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Vector lays record values out on a single PDF page using the built-in
// PDF fonts. The background, when set, is embedded as a full-page image and
// sets the page size, one point per pixel.
type Vector struct {
	tmpl   Template
	assets fs.FS
}

// Format returns PDF.
func (v *Vector) Format() Format {
	return PDF
}

// Render builds a new document for rec. Dates inside the document are fixed
// to now so the output is reproducible.
func (v *Vector) Render(ctx context.Context, rec Record, now time.Time) (Rendered, error) {
	if err := ctx.Err(); err != nil {
		return Rendered{}, err
	}

	width, height := v.tmpl.Width, v.tmpl.Height
	var bg []byte
	var imageType string
	if v.tmpl.Background != "" {
		data, err := loadAsset(v.assets, v.tmpl)
		if err != nil {
			return Rendered{}, err
		}
		cfg, kind, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return Rendered{}, &RenderError{Template: v.tmpl.Name, Asset: v.tmpl.Background, Err: err}
		}
		bg, imageType = data, strings.ToUpper(kind)
		width, height = float64(cfg.Width), float64(cfg.Height)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(Filename(rec, PDF), true)
	pdf.AddPage()

	if bg != nil {
		opts := fpdf.ImageOptions{ImageType: imageType}
		pdf.RegisterImageOptionsReader(v.tmpl.Background, opts, bytes.NewReader(bg))
		if err := pdf.Error(); err != nil {
			return Rendered{}, &RenderError{Template: v.tmpl.Name, Asset: v.tmpl.Background, Err: err}
		}
		pdf.ImageOptions(v.tmpl.Background, 0, 0, width, height, false, opts, 0, "")
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, t := range v.tmpl.layout(rec, now) {
		style := ""
		if t.font.Bold {
			style = "B"
		}
		c := parseColor(t.font.Color)
		pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
		pdf.SetFont(coreFamily(t.font.Family), style, t.font.Size)
		pdf.Text(t.x, t.y, tr(t.s))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Rendered{}, fmt.Errorf("write pdf: %w", err)
	}

	return Rendered{
		Filename:    Filename(rec, PDF),
		ContentType: PDF.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// coreFamily maps a template family onto a standard PDF font.
func coreFamily(family string) string {
	switch strings.ToLower(family) {
	case "times", "courier":
		return strings.ToLower(family)
	default:
		return "helvetica"
	}
}
