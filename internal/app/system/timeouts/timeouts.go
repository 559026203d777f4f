// Package timeouts holds the process-wide deadlines for database work that
// runs outside a request's own context.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults used until Configure is called.
const (
	DefaultPing  = 2 * time.Second
	DefaultShort = 5 * time.Second
	DefaultBatch = 60 * time.Second
)

var (
	mu    sync.RWMutex
	ping  = DefaultPing
	short = DefaultShort
	batch = DefaultBatch
)

// Ping bounds health check round trips.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short bounds single-document operations (startup seeding, schema checks).
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Batch bounds one run of a background job.
func Batch() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return batch
}

// Config holds timeout values. Zero fields keep the current value.
type Config struct {
	Ping  time.Duration
	Short time.Duration
	Batch time.Duration
}

// Configure sets custom timeout values.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Batch > 0 {
		batch = cfg.Batch
	}
}

// Reset restores all timeouts to defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	batch = DefaultBatch
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Batch: batch}
}

// WithTimeout creates a context with timeout and logs when the deadline,
// rather than the caller, ended it.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
