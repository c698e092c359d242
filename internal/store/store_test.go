package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/ledgerview/internal/config"
	"github.com/JonMunkholm/ledgerview/internal/core"
	"github.com/JonMunkholm/ledgerview/internal/export"
)

// execRecorder captures Exec calls. Query paths are covered by the
// database test below.
type execRecorder struct {
	sql  []string
	args [][]any
	err  error
}

func (e *execRecorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.sql = append(e.sql, sql)
	e.args = append(e.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), e.err
}

func (e *execRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (e *execRecorder) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func sampleRun() export.Run {
	return export.Run{
		ID:        uuid.MustParse("6f1c0e4a-2f7d-4c55-9a55-0d8a4b2f9e11"),
		Format:    "png",
		Requester: core.Requester{User: "admin", IPAddress: "10.0.0.1"},
		Total:     5,
		Succeeded: 4,
		Failed:    1,
		StartedAt: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Failures:  []export.Failure{{Position: 2, Row: 3, Invoice: "INV3", Reason: "missing identifying field"}},
	}
}

func TestEnsureSchema(t *testing.T) {
	db := &execRecorder{}
	if err := NewExportLog(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if len(db.sql) != 1 || !strings.Contains(db.sql[0], "CREATE TABLE IF NOT EXISTS export_runs") {
		t.Errorf("EnsureSchema() ran %q", db.sql)
	}
}

func TestRecordExport(t *testing.T) {
	db := &execRecorder{}
	if err := NewExportLog(db).RecordExport(context.Background(), sampleRun()); err != nil {
		t.Fatalf("RecordExport() error = %v", err)
	}

	args := db.args[0]
	if len(args) != 11 {
		t.Fatalf("insert has %d args, want 11", len(args))
	}
	if got := args[2].(pgtype.Text); got.String != "admin" || !got.Valid {
		t.Errorf("user_name = %+v", got)
	}
	if got := args[4].(pgtype.Text); got.Valid {
		t.Errorf("user_agent = %+v, want NULL", got)
	}
	if got := args[10].(int64); got != 1500 {
		t.Errorf("duration_ms = %d, want 1500", got)
	}

	var failures []export.Failure
	if err := json.Unmarshal(args[8].([]byte), &failures); err != nil {
		t.Fatalf("failures JSON: %v", err)
	}
	if len(failures) != 1 || failures[0].Row != 3 {
		t.Errorf("failures = %+v", failures)
	}
}

func TestRecordExport_Error(t *testing.T) {
	db := &execRecorder{err: errors.New("connection reset")}
	err := NewExportLog(db).RecordExport(context.Background(), sampleRun())
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("RecordExport() error = %v, want wrapped exec error", err)
	}
}

func TestDatabaseName(t *testing.T) {
	if got := DatabaseName("postgres://u:p@localhost:5432/ledger?sslmode=disable"); got != "ledger" {
		t.Errorf("DatabaseName() = %q, want ledger", got)
	}
}

// TestExportLog_Postgres runs against a real database when
// LEDGERVIEW_TEST_DATABASE_URL is set.
func TestExportLog_Postgres(t *testing.T) {
	dsn := os.Getenv("LEDGERVIEW_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LEDGERVIEW_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := Open(ctx, config.DatabaseConfig{URL: dsn, MaxConns: 2, MaxConnLifetime: time.Minute, MaxConnIdleTime: time.Minute})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer tx.Rollback(ctx)

	log := NewExportLog(tx)
	if err := log.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	run := sampleRun()
	run.ID = uuid.New()
	run.StartedAt = time.Now().Add(time.Hour)
	if err := log.RecordExport(ctx, run); err != nil {
		t.Fatalf("RecordExport() error = %v", err)
	}

	runs, err := log.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID.String() || runs[0].User != "admin" {
		t.Errorf("Recent() = %+v", runs)
	}
}
