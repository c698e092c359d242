package invoice

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Raster overlays record values on the background image and encodes a PNG.
type Raster struct {
	tmpl   Template
	assets fs.FS
}

// Format returns PNG.
func (r *Raster) Format() Format {
	return PNG
}

// faceKey selects one of the bundled Go fonts.
type faceKey struct {
	mono bool
	bold bool
}

// Parsed fonts are read-only and shared. Faces hold scratch buffers and are
// created per render.
var loadFonts = sync.OnceValues(func() (map[faceKey]*opentype.Font, error) {
	ttfs := map[faceKey][]byte{
		{mono: false, bold: false}: goregular.TTF,
		{mono: false, bold: true}:  gobold.TTF,
		{mono: true, bold: false}:  gomono.TTF,
		{mono: true, bold: true}:   gomonobold.TTF,
	}
	fonts := make(map[faceKey]*opentype.Font, len(ttfs))
	for k, ttf := range ttfs {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, err
		}
		fonts[k] = f
	}
	return fonts, nil
})

// rasterFont maps a template font onto the bundled Go fonts, following the
// pdf core families: courier is drawn with Go Mono, every other family with
// the proportional Go font. There is no bundled serif, so times falls back
// to the proportional face.
func rasterFont(f Font) faceKey {
	return faceKey{mono: coreFamily(f.Family) == "courier", bold: f.Bold}
}

// Render draws rec onto a fresh copy of the background.
func (r *Raster) Render(ctx context.Context, rec Record, now time.Time) (Rendered, error) {
	if err := ctx.Err(); err != nil {
		return Rendered{}, err
	}

	canvas, err := r.surface()
	if err != nil {
		return Rendered{}, err
	}

	fonts, err := loadFonts()
	if err != nil {
		return Rendered{}, fmt.Errorf("load fonts: %w", err)
	}

	faces := make(map[Font]font.Face)
	defer func() {
		for _, f := range faces {
			f.Close()
		}
	}()

	for _, t := range r.tmpl.layout(rec, now) {
		key := Font{Family: coreFamily(t.font.Family), Size: t.font.Size, Bold: t.font.Bold}
		face, ok := faces[key]
		if !ok {
			face, err = opentype.NewFace(fonts[rasterFont(t.font)], &opentype.FaceOptions{
				Size:    t.font.Size,
				DPI:     72,
				Hinting: font.HintingNone,
			})
			if err != nil {
				return Rendered{}, fmt.Errorf("font face: %w", err)
			}
			faces[key] = face
		}

		d := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(parseColor(t.font.Color)),
			Face: face,
			Dot:  fixed.Point26_6{X: fixed.I(int(t.x)), Y: fixed.I(int(t.y))},
		}
		d.DrawString(t.s)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return Rendered{}, fmt.Errorf("encode png: %w", err)
	}

	return Rendered{
		Filename:    Filename(rec, PNG),
		ContentType: PNG.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// surface returns a new RGBA image holding the background, or a white page
// of the template's size when it has none.
func (r *Raster) surface() (*image.RGBA, error) {
	if r.tmpl.Background == "" {
		canvas := image.NewRGBA(image.Rect(0, 0, int(r.tmpl.Width), int(r.tmpl.Height)))
		draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
		return canvas, nil
	}

	data, err := loadAsset(r.assets, r.tmpl)
	if err != nil {
		return nil, err
	}
	bg, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &RenderError{Template: r.tmpl.Name, Asset: r.tmpl.Background, Err: err}
	}

	b := bg.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), bg, b.Min, draw.Src)
	return canvas, nil
}
