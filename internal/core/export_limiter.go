package core

// export_limiter.go bounds how many batch exports run at once.
//
// Each export fans out to several render workers and holds one raster surface
// per worker, so the number of simultaneous exports directly bounds memory.
// Requests that cannot get a slot within maxWait fail with ErrTooManyExports.
// WaitForDrain lets shutdown wait for in-flight exports.

import (
	"context"
	"errors"
	"time"
)

// ErrTooManyExports is returned when every export slot stays busy for the
// whole wait period. Clients should retry after a short delay.
var ErrTooManyExports = errors.New("too many exports in progress, please try again later")

// DefaultMaxConcurrentExports is the default limit for simultaneous exports.
const DefaultMaxConcurrentExports = 2

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// ExportLimiter is a counting semaphore over export slots.
type ExportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
}

// NewExportLimiter creates a limiter admitting at most maxConcurrent exports.
// Non-positive arguments fall back to the defaults.
func NewExportLimiter(maxConcurrent int, maxWait time.Duration) *ExportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentExports
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &ExportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting at most maxWait.
// The caller MUST call Release when the export completes (use defer).
func (l *ExportLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyExports
	}
}

// Release frees a slot taken by Acquire.
func (l *ExportLimiter) Release() {
	<-l.slots
}

// Do runs fn while holding a slot.
func (l *ExportLimiter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn(ctx)
}

// ActiveCount returns the number of exports currently holding a slot.
func (l *ExportLimiter) ActiveCount() int {
	return len(l.slots)
}

// WaitForDrain blocks until no export holds a slot or ctx is cancelled.
func (l *ExportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ExportLimiterStatus is a snapshot of the limiter for the health endpoint.
type ExportLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *ExportLimiter) Status() ExportLimiterStatus {
	active := len(l.slots)
	return ExportLimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - active,
		MaxConcurrent: cap(l.slots),
	}
}
