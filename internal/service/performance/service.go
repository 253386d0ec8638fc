package performance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/engagement"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/performance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/revenue"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/retry"
)

// Options tunes the batch orchestrator.
type Options struct {
	// Workers bounds how many employee pipelines run at once.
	Workers int
	// Retry applies to every store read.
	Retry retry.Policy
	// Now stamps CalculatedAt. Defaults to time.Now.
	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Workers: 4,
		Retry:   retry.DefaultPolicy(),
		Now:     time.Now,
	}
}

type PerformanceServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	holidayRepo    calendar.HolidayRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	pointLogRepo   engagement.PointLogRepository
	workReportRepo engagement.WorkReportRepository
	claimRepo      revenue.ClaimRepository
	snapshotRepo   performance.SnapshotRepository
	opts           Options
}

func NewPerformanceService(
	employeeRepo employee.EmployeeRepository,
	holidayRepo calendar.HolidayRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	pointLogRepo engagement.PointLogRepository,
	workReportRepo engagement.WorkReportRepository,
	claimRepo revenue.ClaimRepository,
	snapshotRepo performance.SnapshotRepository,
	opts Options,
) *PerformanceServiceImpl {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Retry.Attempts < 1 {
		opts.Retry.Attempts = 1
	}
	opts.Retry.IsPermanent = isPermanent

	return &PerformanceServiceImpl{
		employeeRepo:   employeeRepo,
		holidayRepo:    holidayRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		pointLogRepo:   pointLogRepo,
		workReportRepo: workReportRepo,
		claimRepo:      claimRepo,
		snapshotRepo:   snapshotRepo,
		opts:           opts,
	}
}

var _ performance.PerformanceService = (*PerformanceServiceImpl)(nil)

// Compute implements performance.PerformanceService.
func (s *PerformanceServiceImpl) Compute(ctx context.Context, req performance.ComputeRequest) (performance.ComputeResult, error) {
	if err := req.Validate(); err != nil {
		return performance.ComputeResult{}, err
	}

	period, err := performance.NewPeriod(req.Month, req.Year)
	if err != nil {
		return performance.ComputeResult{}, err
	}

	runID := newRunID()
	if req.EmployeeID != nil {
		snapshot, err := s.computeSingle(ctx, runID, period, req.CompanyID, *req.EmployeeID)
		if err != nil {
			return performance.ComputeResult{}, err
		}
		return performance.ComputeResult{
			RunID:        runID,
			Period:       period,
			WrittenCount: 1,
			Snapshots:    []performance.Snapshot{snapshot},
			Failures:     []performance.ComputeFailure{},
		}, nil
	}

	return s.computeCompany(ctx, runID, period, req.CompanyID)
}

// computeSingle runs the pipeline for one employee. A missing employee is
// reported as employee.ErrEmployeeNotFound.
func (s *PerformanceServiceImpl) computeSingle(ctx context.Context, runID string, period performance.Period, companyID, employeeID string) (performance.Snapshot, error) {
	emp, err := load(ctx, s.opts.Retry, "employee", func(ctx context.Context) (employee.Employee, error) {
		return s.employeeRepo.GetByID(ctx, employeeID, companyID)
	})
	if err != nil {
		return performance.Snapshot{}, err
	}

	cal, err := s.resolveCalendar(ctx, companyID, period)
	if err != nil {
		return performance.Snapshot{}, err
	}

	snapshot, err := s.computeEmployee(ctx, cal, emp)
	if err != nil {
		slog.Error("Performance: snapshot computation failed",
			"run_id", runID,
			"employee_id", employeeID,
			"period", period.String(),
			"error", err)
		return performance.Snapshot{}, err
	}

	slog.Info("Performance: snapshot written",
		"run_id", runID,
		"employee_id", employeeID,
		"period", period.String(),
		"overall_score", snapshot.OverallScore,
		"grade", snapshot.PerformanceGrade)
	return snapshot, nil
}

type unitResult struct {
	snapshot *performance.Snapshot
	failure  *performance.ComputeFailure
}

// computeCompany fans the pipeline out over every active employee. Failures
// are captured per employee and never abort the batch.
func (s *PerformanceServiceImpl) computeCompany(ctx context.Context, runID string, period performance.Period, companyID string) (performance.ComputeResult, error) {
	start := time.Now()

	cal, err := s.resolveCalendar(ctx, companyID, period)
	if err != nil {
		return performance.ComputeResult{}, err
	}

	employees, err := load(ctx, s.opts.Retry, "active employees", func(ctx context.Context) ([]employee.Employee, error) {
		return s.employeeRepo.ListActiveByCompany(ctx, companyID)
	})
	if err != nil {
		return performance.ComputeResult{}, err
	}

	slog.Info("Performance: starting company recompute",
		"run_id", runID,
		"company_id", companyID,
		"period", period.String(),
		"employee_count", len(employees),
		"working_days", cal.TotalWorkingDays())

	results := make([]unitResult, len(employees))
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)

	for i, emp := range employees {
		if err := ctx.Err(); err != nil {
			results[i] = failed(emp.ID, fmt.Errorf("not started: %w", err))
			continue
		}
		i, emp := i, emp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = failed(emp.ID, fmt.Errorf("not started: %w", err))
				return nil
			}
			results[i] = s.runUnit(ctx, runID, cal, emp)
			return nil
		})
	}
	_ = g.Wait()

	result := performance.ComputeResult{
		RunID:     runID,
		Period:    period,
		Snapshots: []performance.Snapshot{},
		Failures:  []performance.ComputeFailure{},
	}
	for _, r := range results {
		switch {
		case r.snapshot != nil:
			result.Snapshots = append(result.Snapshots, *r.snapshot)
		case r.failure != nil:
			result.Failures = append(result.Failures, *r.failure)
		}
	}
	result.WrittenCount = len(result.Snapshots)

	slog.Info("Performance: company recompute finished",
		"run_id", runID,
		"company_id", companyID,
		"period", period.String(),
		"written", result.WrittenCount,
		"failed", len(result.Failures),
		"duration", time.Since(start))

	return result, nil
}

// runUnit computes one employee and converts the outcome into a unit result.
// Panics are converted into failures so one bad record cannot take the batch
// down.
func (s *PerformanceServiceImpl) runUnit(ctx context.Context, runID string, cal Calendar, emp employee.Employee) (res unitResult) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("Performance: employee pipeline panicked",
				"run_id", runID,
				"employee_id", emp.ID,
				"panic", p)
			res = failed(emp.ID, fmt.Errorf("pipeline panic: %v", p))
		}
	}()

	snapshot, err := s.computeEmployee(ctx, cal, emp)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			slog.Warn("Performance: employee disappeared during run, skipping",
				"run_id", runID,
				"employee_id", emp.ID)
			return unitResult{}
		}
		slog.Error("Performance: snapshot computation failed",
			"run_id", runID,
			"employee_id", emp.ID,
			"period", cal.Period.String(),
			"error", err)
		return failed(emp.ID, err)
	}
	return unitResult{snapshot: &snapshot}
}

func failed(employeeID string, err error) unitResult {
	return unitResult{failure: &performance.ComputeFailure{
		EmployeeID: employeeID,
		Error:      err.Error(),
		Retryable:  performance.IsRetryable(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded),
	}}
}

// resolveCalendar loads the company holidays of the period and builds the
// request-scoped calendar.
func (s *PerformanceServiceImpl) resolveCalendar(ctx context.Context, companyID string, period performance.Period) (Calendar, error) {
	holidays, err := load(ctx, s.opts.Retry, "holidays", func(ctx context.Context) ([]calendar.Holiday, error) {
		return s.holidayRepo.ListByCompanyAndRange(ctx, companyID, period.Start(), period.End())
	})
	if err != nil {
		return Calendar{}, err
	}
	return BuildCalendar(companyID, period, holidays), nil
}

// Query implements performance.PerformanceService.
func (s *PerformanceServiceImpl) Query(ctx context.Context, filter performance.SnapshotFilter) (performance.SnapshotListResponse, error) {
	if err := filter.Validate(); err != nil {
		return performance.SnapshotListResponse{}, err
	}

	snapshots, total, err := s.snapshotRepo.List(ctx, filter)
	if err != nil {
		return performance.SnapshotListResponse{}, fmt.Errorf("failed to list performance snapshots: %w", err)
	}
	if snapshots == nil {
		snapshots = []performance.Snapshot{}
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return performance.SnapshotListResponse{
		Snapshots:  snapshots,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetSnapshot implements performance.PerformanceService.
func (s *PerformanceServiceImpl) GetSnapshot(ctx context.Context, companyID, employeeID string, month, year int) (performance.Snapshot, error) {
	if _, err := performance.NewPeriod(month, year); err != nil {
		return performance.Snapshot{}, err
	}

	snapshot, err := s.snapshotRepo.Get(ctx, employeeID, month, year)
	if err != nil {
		return performance.Snapshot{}, fmt.Errorf("failed to get performance snapshot: %w", err)
	}
	if snapshot == nil || snapshot.CompanyID != companyID {
		return performance.Snapshot{}, performance.ErrSnapshotNotFound
	}
	return *snapshot, nil
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
