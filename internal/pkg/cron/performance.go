package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/performance"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/retry"
)

// PerformanceJobs recomputes last month's snapshots for every company once a
// month, starting at the configured UTC day and hour.
type PerformanceJobs struct {
	employeeRepo   employee.EmployeeRepository
	performanceSvc performance.PerformanceService
	day            int
	hour           int
	timeout        time.Duration
	retry          retry.Policy
	now            func() time.Time

	mu        sync.Mutex
	completed *performance.Period
}

func NewPerformanceJobs(
	employeeRepo employee.EmployeeRepository,
	performanceSvc performance.PerformanceService,
	day, hour int,
	timeout time.Duration,
	retryPolicy retry.Policy,
) *PerformanceJobs {
	return &PerformanceJobs{
		employeeRepo:   employeeRepo,
		performanceSvc: performanceSvc,
		day:            day,
		hour:           hour,
		timeout:        timeout,
		retry:          retryPolicy,
		now:            time.Now,
	}
}

func (j *PerformanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "recompute_monthly_performance",
		Interval: 1 * time.Hour,
		Timeout:  j.timeout,
		Fn:       j.MonthlyRecompute,
	})
}

// MonthlyRecompute is a no-op before the configured day and hour of the month.
// From then on every tick recomputes the previous month until one run
// finishes without error, so a failed run is retried on the next tick.
func (j *PerformanceJobs) MonthlyRecompute(ctx context.Context) error {
	now := j.now().UTC()
	due := time.Date(now.Year(), now.Month(), j.day, j.hour, 0, 0, 0, time.UTC)
	if now.Before(due) {
		return nil
	}

	current, err := performance.NewPeriod(int(now.Month()), now.Year())
	if err != nil {
		return err
	}
	period := current.Previous()

	j.mu.Lock()
	done := j.completed != nil && *j.completed == period
	j.mu.Unlock()
	if done {
		return nil
	}

	if err := j.RecomputePeriod(ctx, period); err != nil {
		return err
	}

	j.mu.Lock()
	j.completed = &period
	j.mu.Unlock()
	return nil
}

// RecomputePeriod runs a company-wide compute for every company that has
// active employees. A failing company does not stop the others.
func (j *PerformanceJobs) RecomputePeriod(ctx context.Context, period performance.Period) error {
	slog.Info("Cron: Starting monthly performance recompute", "period", period.String())

	companyIDs, err := retry.Do(ctx, "active company ids", j.retry, j.employeeRepo.ListActiveCompanyIDs)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	if len(companyIDs) == 0 {
		slog.Info("Cron: No companies with active employees found")
		return nil
	}

	var errs []error
	written, failed := 0, 0
	for _, companyID := range companyIDs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		result, err := j.performanceSvc.Compute(ctx, performance.ComputeRequest{
			Month:     period.Month,
			Year:      period.Year,
			CompanyID: companyID,
		})
		if err != nil {
			slog.Error("Cron: Failed to recompute company performance",
				"company_id", companyID,
				"period", period.String(),
				"error", err)
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}

		written += result.WrittenCount
		failed += len(result.Failures)
		if len(result.Failures) > 0 {
			slog.Warn("Cron: Company recompute finished with failures",
				"company_id", companyID,
				"run_id", result.RunID,
				"failed", len(result.Failures))
		}
	}

	slog.Info("Cron: Monthly performance recompute completed",
		"period", period.String(),
		"companies", len(companyIDs),
		"written", written,
		"failed", failed)

	return errors.Join(errs...)
}
