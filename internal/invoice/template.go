package invoice

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var builtinTemplates []byte

// Format is the output encoding of a rendered invoice.
type Format string

const (
	PNG Format = "png"
	PDF Format = "pdf"
)

// ParseFormat accepts "png" or "pdf", case-insensitively. Blank means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "pdf":
		return PDF, nil
	default:
		return "", fmt.Errorf("unknown invoice format %q", s)
	}
}

// Ext returns the filename extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == PDF {
		return "application/pdf"
	}
	return "image/png"
}

// Font selects the face a value is drawn with.
type Font struct {
	Family string  `yaml:"family"`
	Size   float64 `yaml:"size"`
	Bold   bool    `yaml:"bold"`
	Color  string  `yaml:"color"` // #rrggbb, black when empty
}

// Field places one record value on the invoice.
type Field struct {
	Name   string  `yaml:"name"`
	Format string  `yaml:"format"` // "{value}" is replaced by the record value
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Font   Font    `yaml:"font"`
}

// Stamp places the render date, formatted with a Go time layout.
type Stamp struct {
	Layout string  `yaml:"layout"`
	Format string  `yaml:"format"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Font   Font    `yaml:"font"`
}

// Template is one invoice layout. Adding a field to an invoice is an edit
// to the template table, not to the renderers.
type Template struct {
	Name       string  `yaml:"name"`
	Format     Format  `yaml:"format"`
	Background string  `yaml:"background"` // asset name; the surface takes its size
	Width      float64 `yaml:"width"`      // used only without a background
	Height     float64 `yaml:"height"`
	Stamps     []Stamp `yaml:"stamps"`
	Fields     []Field `yaml:"fields"`
}

// Set is a table of templates, at most one per format.
type Set struct {
	Templates []Template `yaml:"templates"`
}

// ForFormat returns the template producing f.
func (s Set) ForFormat(f Format) (Template, error) {
	for _, t := range s.Templates {
		if t.Format == f {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("no invoice template for format %q", f)
}

// LoadTemplates parses the template table at path, or the built-in table
// when path is empty.
func LoadTemplates(path string) (Set, error) {
	data := builtinTemplates
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return Set{}, fmt.Errorf("read invoice templates: %w", err)
		}
	}
	return ParseTemplates(data)
}

// ParseTemplates decodes and validates a YAML template table.
func ParseTemplates(data []byte) (Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return Set{}, fmt.Errorf("parse invoice templates: %w", err)
	}
	if err := set.Validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

// Validate reports every problem in the table at once.
func (s Set) Validate() error {
	var errs []string
	if len(s.Templates) == 0 {
		errs = append(errs, "no templates defined")
	}

	seen := make(map[Format]string)
	for i, t := range s.Templates {
		label := t.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if _, err := ParseFormat(string(t.Format)); err != nil || t.Format == "" {
			errs = append(errs, fmt.Sprintf("template %s: format must be png or pdf", label))
		}
		if prev, dup := seen[t.Format]; dup {
			errs = append(errs, fmt.Sprintf("template %s: format %s already used by %s", label, t.Format, prev))
		}
		seen[t.Format] = label
		if t.Background == "" && (t.Width <= 0 || t.Height <= 0) {
			errs = append(errs, fmt.Sprintf("template %s: width and height are required without a background", label))
		}
		for _, f := range t.Fields {
			if f.Name == "" {
				errs = append(errs, fmt.Sprintf("template %s: field with empty name", label))
			}
			if f.Font.Size <= 0 {
				errs = append(errs, fmt.Sprintf("template %s: field %q needs a font size", label, f.Name))
			}
		}
		for _, st := range t.Stamps {
			if st.Layout == "" || st.Font.Size <= 0 {
				errs = append(errs, fmt.Sprintf("template %s: stamps need a layout and a font size", label))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New("invalid invoice templates:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

// text is one resolved string to draw.
type text struct {
	s    string
	x, y float64
	font Font
}

// layout resolves the strings a template draws for rec at now. Fields the
// record lacks are skipped.
func (t Template) layout(rec Record, now time.Time) []text {
	out := make([]text, 0, len(t.Stamps)+len(t.Fields))
	for _, st := range t.Stamps {
		out = append(out, text{
			s:    apply(st.Format, now.Format(st.Layout)),
			x:    st.X,
			y:    st.Y,
			font: st.Font,
		})
	}
	for _, f := range t.Fields {
		v, ok := rec.Get(f.Name)
		if !ok {
			continue
		}
		out = append(out, text{s: apply(f.Format, v), x: f.X, y: f.Y, font: f.Font})
	}
	return out
}

func apply(format, value string) string {
	if format == "" {
		return value
	}
	return strings.ReplaceAll(format, "{value}", value)
}
