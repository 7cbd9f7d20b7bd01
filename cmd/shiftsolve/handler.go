package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffjoy/shiftsolve/internal/config"
	"github.com/staffjoy/shiftsolve/internal/metrics"
	"github.com/staffjoy/shiftsolve/internal/orgmeta"
	"github.com/staffjoy/shiftsolve/internal/publish"
	"github.com/staffjoy/shiftsolve/internal/shiftsolve"
	"github.com/staffjoy/shiftsolve/internal/taskqueue"
	"github.com/staffjoy/shiftsolve/internal/wallclock"
)

// publisherClient is the subset of publish.Client/ExistingShiftsSource a
// job handler needs: publish a resolved week and look up what is already
// published before subtracting it from demand.
type publisherClient interface {
	publish.Client
	publish.ExistingShiftsSource
}

// buildJobHandler wires one taskqueue.Handler: resolve org/location
// metadata, subtract already-published coverage from demand, run the
// core decomposition, convert to wall-clock instants, and publish.
// Metadata lookup and demand subtraction happen before the core ever
// runs, per SPEC_FULL.md's adapter ordering: the core never needs to
// know about prior shifts.
func buildJobHandler(cfg *config.Config, logger *slog.Logger, cache shiftsolve.Cache, orgs orgmeta.Store, publisher publisherClient, collectors *metrics.Collectors) taskqueue.Handler {
	return func(ctx context.Context, job *taskqueue.Job) (int, error) {
		start := time.Now()
		defer func() { collectors.SearchDuration.Observe(time.Since(start).Seconds()) }()

		org, err := orgs.Lookup(ctx, job.OrgID, job.LocationID)
		if err != nil {
			collectors.JobsProcessed.WithLabelValues("failed").Inc()
			return 0, fmt.Errorf("serve: job %s: %w", job.ID, err)
		}

		loc, err := time.LoadLocation(org.Timezone)
		if err != nil {
			collectors.JobsProcessed.WithLabelValues("failed").Inc()
			return 0, fmt.Errorf("serve: job %s: loading timezone %q: %w", job.ID, org.Timezone, err)
		}

		weekStart := time.Now().In(loc)
		margin := time.Duration(cfg.MaxShiftLengthHours) * time.Hour
		windowStart := weekStart.Add(-margin)
		windowEnd := weekStart.AddDate(0, 0, len(job.WeekDemand)).Add(margin)

		existing, err := publisher.ExistingShifts(ctx, job.OrgID, job.LocationID, windowStart, windowEnd)
		if err != nil {
			collectors.JobsProcessed.WithLabelValues("failed").Inc()
			return 0, fmt.Errorf("serve: job %s: looking up existing shifts: %w", job.ID, err)
		}

		demand := publish.SubtractExisting(job.WeekDemand, existing, cfg.MaxShiftLengthHours, weekStart)

		opts := shiftsolve.DefaultOptions()
		opts.CalculationTimeout = cfg.CalculationTimeout()
		opts.BifurcationThreshold = cfg.BifurcationThreshold
		opts.Cache = cache
		opts.Logger = logger
		opts.MaxWindowWorkers = cfg.WindowWorkers

		splitter, err := shiftsolve.NewSplitter(demand, job.MinLength, job.MaxLength, opts)
		if err != nil {
			collectors.JobsProcessed.WithLabelValues("failed").Inc()
			return 0, fmt.Errorf("serve: building splitter for job %s: %w", job.ID, err)
		}
		if err := splitter.Calculate(); err != nil {
			collectors.JobsProcessed.WithLabelValues("failed").Inc()
			return 0, fmt.Errorf("serve: job %s: %w", job.ID, err)
		}

		shifts := splitter.GetShifts()
		resolved := wallclock.ConvertAll(shifts, weekStart, loc, org.BucketMins)

		if err := publisher.Publish(ctx, job.OrgID, job.LocationID, resolved); err != nil {
			collectors.JobsProcessed.WithLabelValues("failed").Inc()
			return 0, fmt.Errorf("serve: publishing job %s: %w", job.ID, err)
		}

		collectors.JobsProcessed.WithLabelValues("succeeded").Inc()
		return len(shifts), nil
	}
}
