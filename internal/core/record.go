package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/JonMunkholm/ledgerview/internal/sheet"
)

// ErrParse is returned by MapGrid when the grid has data rows but a blank
// header row. The accompanying Dataset is empty and safe to display.
var ErrParse = errors.New("ledger header row is empty")

// Header is the ordered list of field names from the grid's first row.
// Names are expected to be unique but this is not enforced.
type Header []string

// Field is one header column of a record.
type Field struct {
	Name    string
	Value   string
	Present bool // false when the source row was shorter than the header
}

// Record is one data row keyed by header name, in header order.
// A value beyond the end of a short source row is absent, not blank.
type Record struct {
	// Row is the 1-based data row number in the source grid (header excluded).
	Row int

	header Header
	values []string
}

// NewRecord builds a record from a raw row. Cells beyond the header are dropped.
func NewRecord(row int, header Header, cells []string) Record {
	n := len(cells)
	if n > len(header) {
		n = len(header)
	}
	values := make([]string, n)
	copy(values, cells[:n])
	return Record{Row: row, header: header, values: values}
}

// Get returns the value for name and whether it is present.
// If the header repeats a name, the last present value wins.
func (r Record) Get(name string) (string, bool) {
	for i := len(r.header) - 1; i >= 0; i-- {
		if r.header[i] == name && i < len(r.values) {
			return r.values[i], true
		}
	}
	return "", false
}

// Header returns the record's header.
func (r Record) Header() Header {
	return r.header
}

// Fields returns every header column in order, present or not.
func (r Record) Fields() []Field {
	fields := make([]Field, len(r.header))
	for i, name := range r.header {
		fields[i] = Field{Name: name}
		if i < len(r.values) {
			fields[i].Value = r.values[i]
			fields[i].Present = true
		}
	}
	return fields
}

// contains reports whether any present value contains needle.
// needle must already be lower-cased.
func (r Record) contains(needle string) bool {
	for _, v := range r.values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the record as an object whose keys follow header
// order. Absent fields are omitted; blank fields are kept as "".
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	seen := make(map[string]bool, len(r.values))
	for _, name := range r.header {
		if seen[name] {
			continue
		}
		v, ok := r.Get(name)
		if !ok {
			continue
		}
		seen[name] = true
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dataset is the mapped form of one fetched grid.
type Dataset struct {
	Header  Header
	Records []Record
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Find returns the record with the given 1-based row number.
func (d Dataset) Find(row int) (Record, bool) {
	// Records are built in row order, so the index is row-1 unless the
	// slice was produced elsewhere.
	if row >= 1 && row <= len(d.Records) && d.Records[row-1].Row == row {
		return d.Records[row-1], true
	}
	for _, rec := range d.Records {
		if rec.Row == row {
			return rec, true
		}
	}
	return Record{}, false
}

// MapGrid turns a raw grid into a header and header-ordered records.
// Grids with fewer than two rows map to an empty dataset without error.
// A blank header row yields an empty dataset and ErrParse.
func MapGrid(grid sheet.Grid) (Dataset, error) {
	if len(grid) < 2 {
		return Dataset{}, nil
	}

	if isBlankRow(grid[0]) {
		return Dataset{}, ErrParse
	}

	header := make(Header, len(grid[0]))
	copy(header, grid[0])

	records := make([]Record, 0, len(grid)-1)
	for i, row := range grid[1:] {
		records = append(records, NewRecord(i+1, header, row))
	}

	return Dataset{Header: header, Records: records}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
