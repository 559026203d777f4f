// internal/app/system/tasks/runner.go
package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/stratapage/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ErrUnknownJob is returned by RunOnce for a name that was never registered.
var ErrUnknownJob = errors.New("unknown job")

// Job represents a scheduled background task.
type Job struct {
	Name     string
	Interval time.Duration

	// Timeout bounds a single run; zero means timeouts.Batch().
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

func (j Job) timeout() time.Duration {
	if j.Timeout > 0 {
		return j.Timeout
	}
	return timeouts.Batch()
}

// Runner manages background job execution.
type Runner struct {
	logger   *zap.Logger
	jobs     []Job
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	running  atomic.Int32 // Count of currently executing jobs
	jobNames sync.Map     // Track which jobs are currently running
}

// New creates a new task runner.
func New(logger *zap.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Register adds a job to the runner. Jobs without a positive interval are
// rejected with a warning since a ticker cannot run them.
func (r *Runner) Register(job Job) {
	if job.Interval <= 0 {
		r.logger.Warn("job not registered: interval must be positive",
			zap.String("job", job.Name),
			zap.Duration("interval", job.Interval))
		return
	}
	r.jobs = append(r.jobs, job)
}

// Jobs returns the names of the registered jobs in registration order.
func (r *Runner) Jobs() []string {
	names := make([]string, 0, len(r.jobs))
	for _, j := range r.jobs {
		names = append(names, j.Name)
	}
	return names
}

// Start begins executing all registered jobs.
// Call Stop to gracefully shutdown.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.runJob(ctx, job)
	}

	r.logger.Info("background task runner started",
		zap.Int("job_count", len(r.jobs)))
}

// Stop gracefully stops all running jobs within the given context's deadline.
// If ctx is cancelled before all jobs complete, it returns ctx.Err().
// Pass context.Background() for unlimited wait time.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	// Wait for jobs to complete with timeout
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("background task runner stopped gracefully")
		return nil
	case <-ctx.Done():
		// Log which jobs are still running
		var stillRunning []string
		r.jobNames.Range(func(key, _ any) bool {
			stillRunning = append(stillRunning, key.(string))
			return true
		})
		r.logger.Warn("background task runner shutdown timed out",
			zap.Strings("jobs_still_running", stillRunning),
			zap.Int32("running_count", r.running.Load()))
		return ctx.Err()
	}
}

// runJob executes a single job on its interval.
func (r *Runner) runJob(ctx context.Context, job Job) {
	defer r.wg.Done()

	// Run immediately on startup
	r.executeJob(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("job stopped", zap.String("job", job.Name))
			return
		case <-ticker.C:
			r.executeJob(ctx, job)
		}
	}
}

// executeJob runs a job and logs the result.
func (r *Runner) executeJob(ctx context.Context, job Job) {
	// Track that this job is running
	r.running.Add(1)
	r.jobNames.Store(job.Name, struct{}{})
	defer func() {
		r.running.Add(-1)
		r.jobNames.Delete(job.Name)
	}()

	start := time.Now()
	r.logger.Debug("job starting", zap.String("job", job.Name))

	runCtx, cancel := timeouts.WithTimeout(ctx, job.timeout(), r.logger, job.Name)
	defer cancel()

	if err := job.Run(runCtx); err != nil {
		// Don't log context cancellation as an error during shutdown
		if ctx.Err() != nil {
			r.logger.Debug("job cancelled during shutdown",
				zap.String("job", job.Name),
				zap.Duration("duration", time.Since(start)))
			return
		}
		r.logger.Error("job failed",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}

	r.logger.Debug("job completed",
		zap.String("job", job.Name),
		zap.Duration("duration", time.Since(start)))
}

// RunOnce executes a registered job immediately under its timeout.
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			runCtx, cancel := context.WithTimeout(ctx, job.timeout())
			defer cancel()
			return job.Run(runCtx)
		}
	}
	return ErrUnknownJob
}
