package export

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/ledgerview/internal/core"
)

// Run is the summary of one export kept in the export history.
type Run struct {
	ID        uuid.UUID
	Format    string
	Requester core.Requester
	Total     int
	Succeeded int
	Failed    int
	StartedAt time.Time
	Duration  time.Duration
	Failures  []Failure
}

// NewRun summarizes b, taking the requester from ctx.
func NewRun(ctx context.Context, b *Bundle) Run {
	return Run{
		ID:        b.ID,
		Format:    string(b.Format),
		Requester: core.RequesterFromContext(ctx),
		Total:     b.Total(),
		Succeeded: b.SuccessCount,
		Failed:    len(b.Failures),
		StartedAt: b.StartedAt,
		Duration:  b.Duration,
		Failures:  b.Failures,
	}
}

// Recorder stores export runs. Errors are logged by the exporter and never
// fail the export.
type Recorder interface {
	RecordExport(ctx context.Context, run Run) error
}

// NopRecorder discards runs. It is used when no history database is set.
type NopRecorder struct{}

// RecordExport does nothing.
func (NopRecorder) RecordExport(context.Context, Run) error {
	return nil
}
