// Package store keeps the export history in PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/ledgerview/internal/config"
	"github.com/JonMunkholm/ledgerview/internal/export"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

const schema = `CREATE TABLE IF NOT EXISTS export_runs (
	id          UUID PRIMARY KEY,
	format      TEXT NOT NULL,
	user_name   TEXT,
	ip_address  TEXT,
	user_agent  TEXT,
	total       INTEGER NOT NULL,
	succeeded   INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	failures    JSONB NOT NULL DEFAULT '[]',
	started_at  TIMESTAMPTZ NOT NULL,
	duration_ms BIGINT NOT NULL
)`

const insertRun = `INSERT INTO export_runs
	(id, format, user_name, ip_address, user_agent, total, succeeded, failed, failures, started_at, duration_ms)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const recentRuns = `SELECT id, format, user_name, total, succeeded, failed, started_at, duration_ms
	FROM export_runs ORDER BY started_at DESC LIMIT $1`

// DefaultRecentLimit is how many runs the admin page lists.
const DefaultRecentLimit = 10

// RunSummary is one row of the export history.
type RunSummary struct {
	ID        string        `json:"id"`
	Format    string        `json:"format"`
	User      string        `json:"user,omitempty"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// ExportLog records export runs. It implements export.Recorder.
type ExportLog struct {
	db DBTX
}

// NewExportLog wraps db. Call EnsureSchema before first use.
func NewExportLog(db DBTX) *ExportLog {
	return &ExportLog{db: db}
}

// EnsureSchema creates the export_runs table if it does not exist.
func (l *ExportLog) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create export_runs: %w", err)
	}
	return nil
}

// RecordExport inserts one run.
func (l *ExportLog) RecordExport(ctx context.Context, run export.Run) error {
	failures := run.Failures
	if failures == nil {
		failures = []export.Failure{}
	}
	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return fmt.Errorf("encode failures: %w", err)
	}

	_, err = l.db.Exec(ctx, insertRun,
		pgtype.UUID{Bytes: [16]byte(run.ID), Valid: true},
		run.Format,
		text(run.Requester.User),
		text(run.Requester.IPAddress),
		text(run.Requester.UserAgent),
		run.Total,
		run.Succeeded,
		run.Failed,
		failuresJSON,
		run.StartedAt,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert export run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (l *ExportLog) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := l.db.Query(ctx, recentRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("query export runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunSummary, 0, limit)
	for rows.Next() {
		var (
			id         pgtype.UUID
			user       pgtype.Text
			s          RunSummary
			durationMS int64
		)
		if err := rows.Scan(&id, &s.Format, &user, &s.Total, &s.Succeeded, &s.Failed, &s.StartedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scan export run: %w", err)
		}
		s.ID = uuid.UUID(id.Bytes).String()
		s.User = user.String
		s.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// Open connects a pool with the configured limits and verifies it.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// DatabaseName returns the database part of a connection URL for logging.
func DatabaseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
