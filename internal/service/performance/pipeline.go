package performance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/engagement"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/performance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/revenue"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/retry"
)

type sources struct {
	attendance []attendance.Attendance
	leaves     []leave.LeaveRequest
	points     []engagement.PointLog
	reports    []engagement.WorkReport
	claims     []revenue.Claim
	previous   *performance.Snapshot
}

// computeEmployee runs the full pipeline for one employee: concurrent source
// reads, reduction, composite, trend and the final upsert.
func (s *PerformanceServiceImpl) computeEmployee(ctx context.Context, cal Calendar, emp employee.Employee) (performance.Snapshot, error) {
	src, err := s.loadSources(ctx, cal, emp)
	if err != nil {
		return performance.Snapshot{}, err
	}

	att, err := AggregateAttendance(src.attendance, src.leaves, cal)
	if err != nil {
		return performance.Snapshot{}, fmt.Errorf("aggregate attendance: %w", err)
	}
	eng, err := AggregateEngagement(src.points, src.reports, cal)
	if err != nil {
		return performance.Snapshot{}, fmt.Errorf("aggregate engagement: %w", err)
	}
	rev := AggregateRevenue(src.claims, cal)
	comm := ScoreCommunication(src.reports, cal)

	overall := OverallScore(att, eng, comm)
	trend := ClassifyTrend(overall, src.previous)
	flags := DeriveFlags(overall, att, eng, cal.TotalWorkingDays())

	snapshot := performance.Snapshot{
		EmployeeID:   emp.ID,
		CompanyID:    emp.CompanyID,
		DepartmentID: emp.DepartmentID,
		Month:        cal.Period.Month,
		Year:         cal.Period.Year,

		TotalWorkingDays: cal.TotalWorkingDays(),
		DaysPresent:      att.DaysPresent,
		DaysAbsent:       att.DaysAbsent,
		DaysLate:         att.DaysLate,
		DaysOnLeave:      att.DaysOnLeave,
		TotalLateMinutes: att.TotalLateMinutes,
		TotalWorkHours:   att.TotalWorkHours,
		AverageWorkHours: att.AverageWorkHours,
		OvertimeHours:    att.OvertimeHours,
		AttendanceScore:  att.Score,

		TotalPointsEarned:    eng.TotalPointsEarned,
		ReportsSubmitted:     eng.ReportsSubmitted,
		ReportsExpected:      eng.ReportsExpected,
		ReportSubmissionRate: eng.ReportSubmissionRate,
		AverageSelfRating:    eng.AverageSelfRating,
		AverageManagerRating: eng.AverageManagerRating,
		TaskQualityScore:     eng.TaskQualityScore,
		TasksCompleted:       eng.TasksCompleted,
		TasksAssigned:        eng.TasksAssigned,
		TaskCompletionRate:   eng.TaskCompletionRate,

		TotalRevenueGenerated: rev.TotalRevenueGenerated,
		RevenueTarget:         rev.RevenueTarget,
		RevenueAchievement:    rev.RevenueAchievement,

		TotalFollowUps:     comm.TotalFollowUps,
		TotalChats:         comm.TotalChats,
		CommunicationScore: comm.Score,

		OverallScore:     overall,
		PerformanceGrade: GradeFor(overall),
		Trend:            trend.Trend,
		ImprovementScore: trend.ImprovementScore,
		NeedsAttention:   flags.NeedsAttention,
		IsTopPerformer:   flags.IsTopPerformer,
		WarningFlags:     flags.WarningFlags,

		CalculatedAt: s.opts.Now().UTC(),
	}

	return s.writeSnapshot(ctx, snapshot)
}

// loadSources reads every input of the employee concurrently. The first
// failing read cancels the others.
func (s *PerformanceServiceImpl) loadSources(ctx context.Context, cal Calendar, emp employee.Employee) (sources, error) {
	var src sources
	p := s.opts.Retry
	prev := cal.Period.Previous()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		src.attendance, err = load(gCtx, p, "attendance", func(ctx context.Context) ([]attendance.Attendance, error) {
			return s.attendanceRepo.ListByEmployeeAndRange(ctx, emp.ID, emp.CompanyID, cal.Start, cal.End)
		})
		return err
	})
	g.Go(func() (err error) {
		src.leaves, err = load(gCtx, p, "leave requests", func(ctx context.Context) ([]leave.LeaveRequest, error) {
			return s.leaveRepo.ListApprovedOverlapping(ctx, emp.ID, emp.CompanyID, cal.Start, cal.End)
		})
		return err
	})
	g.Go(func() (err error) {
		src.points, err = load(gCtx, p, "point logs", func(ctx context.Context) ([]engagement.PointLog, error) {
			return s.pointLogRepo.ListByEmployeeAndRange(ctx, emp.ID, emp.CompanyID, cal.Start, cal.End)
		})
		return err
	})
	g.Go(func() (err error) {
		src.reports, err = load(gCtx, p, "work reports", func(ctx context.Context) ([]engagement.WorkReport, error) {
			return s.workReportRepo.ListByEmployeeAndRange(ctx, emp.ID, emp.CompanyID, cal.Start, cal.End)
		})
		return err
	})
	g.Go(func() (err error) {
		src.claims, err = load(gCtx, p, "revenue claims", func(ctx context.Context) ([]revenue.Claim, error) {
			return s.claimRepo.ListApprovedPaidBetween(ctx, emp.ID, emp.CompanyID, cal.Start, cal.End)
		})
		return err
	})
	g.Go(func() (err error) {
		src.previous, err = load(gCtx, p, "previous snapshot", func(ctx context.Context) (*performance.Snapshot, error) {
			return s.snapshotRepo.Get(ctx, emp.ID, prev.Month, prev.Year)
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return sources{}, err
	}
	return src, nil
}

// writeSnapshot upserts the snapshot, retrying once when a concurrent
// recompute of the same key won the race.
func (s *PerformanceServiceImpl) writeSnapshot(ctx context.Context, snapshot performance.Snapshot) (performance.Snapshot, error) {
	saved, err := s.upsert(ctx, snapshot)
	if errors.Is(err, performance.ErrWriteConflict) {
		slog.Warn("Performance: snapshot write conflict, retrying once",
			"employee_id", snapshot.EmployeeID,
			"period", snapshot.Period().String())
		saved, err = s.upsert(ctx, snapshot)
	}
	if err != nil {
		return performance.Snapshot{}, fmt.Errorf("write snapshot: %w", err)
	}
	return saved, nil
}

func (s *PerformanceServiceImpl) upsert(ctx context.Context, snapshot performance.Snapshot) (performance.Snapshot, error) {
	if s.opts.Retry.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Retry.Timeout)
		defer cancel()
	}
	return s.snapshotRepo.Upsert(ctx, snapshot)
}

// load reads one source through the retry policy. Exhausted retries are
// reported as performance.ErrUpstreamRead.
func load[T any](ctx context.Context, p retry.Policy, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := retry.Do(ctx, name, p, fn)
	if err == nil {
		return v, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return v, fmt.Errorf("load %s: %w", name, ctxErr)
	}
	if isPermanent(err) {
		return v, err
	}
	return v, fmt.Errorf("%w: load %s: %w", performance.ErrUpstreamRead, name, err)
}

// isPermanent marks errors that a retry cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, employee.ErrEmployeeNotFound) ||
		errors.Is(err, performance.ErrInvalidPeriod) ||
		errors.Is(err, engagement.ErrInvalidWorkReport) ||
		errors.Is(err, attendance.ErrInvalidAttendanceRecord) ||
		errors.Is(err, context.Canceled)
}
