// Package export renders a batch of ledger records into invoices.zip.
//
// Records without an invoice number or consumer name are reported as
// failures and never rendered. The rest are rendered concurrently, bounded
// by the exporter's parallelism, and a per-record render error never aborts
// the batch. Every input record ends up either as an archive entry or in the
// failure list.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/ledgerview/internal/core"
	"github.com/JonMunkholm/ledgerview/internal/invoice"
	"github.com/JonMunkholm/ledgerview/internal/logging"
)

// ArchiveName is the download name of a bundle.
const ArchiveName = "invoices.zip"

// ErrMissingIdentity marks a record without a usable invoice number or
// consumer name.
var ErrMissingIdentity = errors.New("missing identifying field")

// ExportError is returned when the archive itself cannot be assembled.
// The bundle that accompanies it has no entries.
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("archive assembly failed: %v", e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Failure is one record that did not make it into the archive.
type Failure struct {
	Position int    `json:"position"` // 0-based index in the exported batch
	Row      int    `json:"row"`      // ledger row number
	Invoice  string `json:"invoice,omitempty"`
	Consumer string `json:"consumer,omitempty"`
	Reason   string `json:"reason"`
}

// Bundle is the outcome of one export.
type Bundle struct {
	ID           uuid.UUID
	Format       invoice.Format
	Archive      []byte
	Entries      []string // archive entry names, sorted
	SuccessCount int
	Failures     []Failure
	StartedAt    time.Time
	Duration     time.Duration
}

// Total returns the number of records the bundle accounts for.
func (b *Bundle) Total() int {
	return b.SuccessCount + len(b.Failures)
}

// Exporter renders batches with one renderer.
type Exporter struct {
	renderer invoice.Renderer
	parallel int
	recorder Recorder
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRecorder reports every finished export to r.
func WithRecorder(r Recorder) Option {
	return func(e *Exporter) {
		e.recorder = r
	}
}

// New creates an exporter rendering at most parallel invoices at once.
func New(r invoice.Renderer, parallel int, opts ...Option) *Exporter {
	if parallel <= 0 {
		parallel = 1
	}
	e := &Exporter{renderer: r, parallel: parallel, recorder: NopRecorder{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// job is one record accepted for rendering.
type job struct {
	pos      int
	rec      core.Record
	filename string

	out []byte
	err error
}

// Export renders records and packs the results into a zip archive whose
// entries are sorted by name and stamped with now.
//
// When ctx ends before every record is rendered, the remaining records are
// reported as failures carrying the context error; Export itself still
// returns a bundle. The returned error is non-nil only for an *ExportError,
// and then the bundle holds an empty archive with every record listed as a
// failure, so callers can still deliver it.
func (e *Exporter) Export(ctx context.Context, records []core.Record, now time.Time) (*Bundle, error) {
	b := &Bundle{
		ID:        uuid.New(),
		Format:    e.renderer.Format(),
		StartedAt: time.Now(),
	}
	logger := logging.WithFields(ctx, "export_id", b.ID.String(), "records", len(records))
	logger.Info("export started", "format", b.Format)

	jobs := e.plan(records, b)
	e.render(ctx, jobs, now)

	files := make(map[string][]byte, len(jobs))
	for _, j := range jobs {
		if j.err != nil {
			b.Failures = append(b.Failures, failure(j.pos, j.rec, j.err.Error()))
			continue
		}
		files[j.filename] = j.out
	}

	archive, entries, err := buildArchive(files, now)
	if err != nil {
		for _, j := range jobs {
			if j.err == nil {
				b.Failures = append(b.Failures, failure(j.pos, j.rec, "archive assembly failed"))
			}
		}
		err = &ExportError{Err: err}
		b.Archive = emptyArchive()
	} else {
		b.Archive = archive
		b.Entries = entries
		b.SuccessCount = len(entries)
	}

	sort.Slice(b.Failures, func(i, k int) bool {
		return b.Failures[i].Position < b.Failures[k].Position
	})
	b.Duration = time.Since(b.StartedAt)

	logger.Info("export finished",
		"entries", b.SuccessCount,
		"failures", len(b.Failures),
		"bytes", len(b.Archive),
		"duration_ms", b.Duration.Milliseconds(),
	)

	// The run is recorded even when the request was cancelled.
	if rerr := e.recorder.RecordExport(context.WithoutCancel(ctx), NewRun(ctx, b)); rerr != nil {
		logger.Warn("failed to record export run", "error", rerr)
	}

	return b, err
}

// plan validates records and assigns filenames in input order so collision
// suffixes do not depend on render completion order.
func (e *Exporter) plan(records []core.Record, b *Bundle) []*job {
	format := e.renderer.Format()
	used := make(map[string]bool, len(records))
	jobs := make([]*job, 0, len(records))

	for pos, rec := range records {
		if !identified(rec) {
			b.Failures = append(b.Failures, failure(pos, rec, ErrMissingIdentity.Error()))
			continue
		}
		name := uniqueName(invoice.Filename(rec, format), used)
		used[name] = true
		jobs = append(jobs, &job{pos: pos, rec: rec, filename: name})
	}
	return jobs
}

// render fans jobs out to at most e.parallel goroutines. Each job records its
// own outcome; the group never fails.
func (e *Exporter) render(ctx context.Context, jobs []*job, now time.Time) {
	var g errgroup.Group
	g.SetLimit(e.parallel)

	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			j.err = err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				j.err = err
				return nil
			}
			out, err := e.renderer.Render(ctx, j.rec, now)
			if err != nil {
				logging.FromContext(ctx).Warn("invoice render failed",
					"row", j.rec.Row,
					"error", err,
				)
				j.err = err
				return nil
			}
			j.out = out.Data
			return nil
		})
	}
	_ = g.Wait()
}

func identified(rec core.Record) bool {
	inv, ok := rec.Get(invoice.FieldInvoice)
	if !ok || strings.TrimSpace(inv) == "" {
		return false
	}
	name, ok := rec.Get(invoice.FieldConsumer)
	return ok && strings.TrimSpace(name) != ""
}

func failure(pos int, rec core.Record, reason string) Failure {
	inv, _ := rec.Get(invoice.FieldInvoice)
	name, _ := rec.Get(invoice.FieldConsumer)
	return Failure{Position: pos, Row: rec.Row, Invoice: inv, Consumer: name, Reason: reason}
}

// uniqueName appends _2, _3, ... before the extension until name is unused.
func uniqueName(name string, used map[string]bool) string {
	if !used[name] {
		return name
	}
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		candidate := base + "_" + strconv.Itoa(n) + ext
		if !used[candidate] {
			return candidate
		}
	}
}

// buildArchive writes files sorted by name with a fixed modification time,
// so the same files always produce the same bytes.
func buildArchive(files map[string][]byte, now time.Time) ([]byte, []string, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, nil, fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), names, nil
}

// emptyArchive returns a valid zip with no entries.
func emptyArchive() []byte {
	var buf bytes.Buffer
	zip.NewWriter(&buf).Close()
	return buf.Bytes()
}
