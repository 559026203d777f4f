// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultSessionPurgeInterval is used when no purge interval is configured.
const DefaultSessionPurgeInterval = time.Hour

// DefaultPublishedCheckInterval is used when no published-content check
// interval is configured.
const DefaultPublishedCheckInterval = 15 * time.Minute

// SessionPurger removes admin sessions past their expiry.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PurgeCounter records how many sessions a purge removed.
type PurgeCounter interface {
	AddSessionsPurged(n int64)
}

// PublishedCounter reports how many content documents are published.
type PublishedCounter interface {
	CountPublished(ctx context.Context) (int64, error)
}

// SessionPurgeJob deletes expired admin sessions. The sessions collection
// also carries a TTL index; this job keeps the mirror tight between TTL
// monitor passes. counter may be nil.
func SessionPurgeJob(p SessionPurger, interval time.Duration, counter PurgeCounter, logger *zap.Logger) Job {
	if interval <= 0 {
		interval = DefaultSessionPurgeInterval
	}
	return Job{
		Name:     "admin-session-purge",
		Interval: interval,
		Run: func(ctx context.Context) error {
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				return err
			}
			if counter != nil {
				counter.AddSessionsPurged(n)
			}
			if n > 0 {
				logger.Info("purged expired admin sessions", zap.Int64("deleted", n))
			}
			return nil
		},
	}
}

// PublishedContentCheckJob warns when the number of published documents is
// not exactly one. Zero is normal before the first landing-page read; more
// than one can follow concurrent publishes on a deployment without
// transactions, and resolves itself on the next publish.
func PublishedContentCheckJob(c PublishedCounter, interval time.Duration, logger *zap.Logger) Job {
	if interval <= 0 {
		interval = DefaultPublishedCheckInterval
	}
	return Job{
		Name:     "published-content-check",
		Interval: interval,
		Run: func(ctx context.Context) error {
			n, err := c.CountPublished(ctx)
			if err != nil {
				return err
			}
			switch {
			case n == 0:
				logger.Debug("no content published yet")
			case n > 1:
				logger.Warn("multiple content documents published; newest is served",
					zap.Int64("published", n))
			}
			return nil
		},
	}
}
