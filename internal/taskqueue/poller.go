package taskqueue

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Handler processes a single job, returning the number of shifts
// produced for Status reporting.
type Handler func(ctx context.Context, job *Job) (shiftCount int, err error)

// Poller drives Source.Next in a loop, rate-limited so an empty queue
// does not spin, dispatching each job to a Handler.
type Poller struct {
	source  Source
	handler Handler
	limiter *rate.Limiter
	logger  *slog.Logger

	killOnError bool
	killDelay   time.Duration

	statuses *statusStore
}

// NewPoller constructs a Poller. fetchInterval bounds how often Next is
// called when the queue is empty; killOnError and killDelay restore the
// original service's self-termination-on-error behavior as an
// adapter-level policy.
func NewPoller(source Source, handler Handler, fetchInterval time.Duration, killOnError bool, killDelay time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		source:      source,
		handler:     handler,
		limiter:     rate.NewLimiter(rate.Every(fetchInterval), 1),
		logger:      logger,
		killOnError: killOnError,
		killDelay:   killDelay,
		statuses:    newStatusStore(),
	}
}

// Statuses returns the poller's job-status tracker, read by the debug
// HTTP surface's /jobs/:id endpoint.
func (p *Poller) Statuses() *statusStore {
	return p.statuses
}

// Run polls until ctx is cancelled. A job handler error is logged and
// the job is Nack'd; if killOnError is set, the process then sleeps
// killDelay and exits, for an external supervisor to restart it.
func (p *Poller) Run(ctx context.Context) error {
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return ctx.Err()
		}

		job, err := p.source.Next(ctx)
		if errors.Is(err, ErrNoJob) {
			continue
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			p.logger.Error("taskqueue: fetching next job", "error", err)
			continue
		}

		p.statuses.set(job.ID, Status{JobID: job.ID, State: "running"})

		count, err := p.handler(ctx, job)
		if err != nil {
			p.statuses.set(job.ID, Status{JobID: job.ID, State: "failed", Err: err.Error()})
			p.logger.Error("taskqueue: job failed", "job_id", job.ID, "error", err)
			if nackErr := p.source.Nack(ctx, job); nackErr != nil {
				p.logger.Error("taskqueue: nacking failed job", "job_id", job.ID, "error", nackErr)
			}
			if p.killOnError {
				p.logger.Error("taskqueue: kill_on_error set, exiting after delay", "delay", p.killDelay)
				time.Sleep(p.killDelay)
				os.Exit(1)
			}
			continue
		}

		p.statuses.set(job.ID, Status{JobID: job.ID, State: "done", ShiftsLen: count})
		if err := p.source.Ack(ctx, job); err != nil {
			p.logger.Error("taskqueue: acking job", "job_id", job.ID, "error", err)
		}
	}
}
