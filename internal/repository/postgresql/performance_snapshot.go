package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/performance"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/database"
)

// Postgres error codes treated as a lost race between two recomputes of the
// same snapshot key.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

const snapshotColumns = `
	id, employee_id, company_id, department_id, month, year,
	total_working_days, days_present, days_absent, days_late, days_on_leave, total_late_minutes,
	total_work_hours, average_work_hours, overtime_hours, attendance_score, total_points_earned, reports_submitted,
	reports_expected, report_submission_rate, average_self_rating, average_manager_rating, task_quality_score, tasks_completed,
	tasks_assigned, task_completion_rate, total_revenue_generated, revenue_target, revenue_achievement, total_follow_ups,
	total_chats, communication_score, overall_score, performance_grade, trend, improvement_score,
	needs_attention, is_top_performer, warning_flags, calculated_at, created_at, updated_at`

type snapshotRepositoryImpl struct {
	db *database.DB
}

func NewSnapshotRepository(db *database.DB) performance.SnapshotRepository {
	return &snapshotRepositoryImpl{db: db}
}

// Get implements performance.SnapshotRepository.
func (r *snapshotRepositoryImpl) Get(ctx context.Context, employeeID string, month, year int) (*performance.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + snapshotColumns + `
		FROM performance_snapshots
		WHERE employee_id = $1 AND month = $2 AND year = $3
	`

	snapshot, err := scanSnapshot(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get performance snapshot for employee %s period %04d-%02d: %w", employeeID, year, month, err)
	}
	return &snapshot, nil
}

// Upsert implements performance.SnapshotRepository.
func (r *snapshotRepositoryImpl) Upsert(ctx context.Context, s performance.Snapshot) (performance.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO performance_snapshots (
			employee_id, company_id, department_id, month, year,
			total_working_days, days_present, days_absent, days_late, days_on_leave, total_late_minutes, total_work_hours, average_work_hours, overtime_hours, attendance_score,
			total_points_earned, reports_submitted, reports_expected, report_submission_rate, average_self_rating, average_manager_rating, task_quality_score, tasks_completed, tasks_assigned, task_completion_rate,
			total_revenue_generated, revenue_target, revenue_achievement,
			total_follow_ups, total_chats, communication_score,
			overall_score, performance_grade, trend, improvement_score, needs_attention, is_top_performer, warning_flags,
			calculated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25,
			$26, $27, $28,
			$29, $30, $31,
			$32, $33, $34, $35, $36, $37, $38,
			$39
		)
		ON CONFLICT (employee_id, month, year) DO UPDATE SET
			company_id = EXCLUDED.company_id,
			department_id = EXCLUDED.department_id,
			total_working_days = EXCLUDED.total_working_days,
			days_present = EXCLUDED.days_present,
			days_absent = EXCLUDED.days_absent,
			days_late = EXCLUDED.days_late,
			days_on_leave = EXCLUDED.days_on_leave,
			total_late_minutes = EXCLUDED.total_late_minutes,
			total_work_hours = EXCLUDED.total_work_hours,
			average_work_hours = EXCLUDED.average_work_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			attendance_score = EXCLUDED.attendance_score,
			total_points_earned = EXCLUDED.total_points_earned,
			reports_submitted = EXCLUDED.reports_submitted,
			reports_expected = EXCLUDED.reports_expected,
			report_submission_rate = EXCLUDED.report_submission_rate,
			average_self_rating = EXCLUDED.average_self_rating,
			average_manager_rating = EXCLUDED.average_manager_rating,
			task_quality_score = EXCLUDED.task_quality_score,
			tasks_completed = EXCLUDED.tasks_completed,
			tasks_assigned = EXCLUDED.tasks_assigned,
			task_completion_rate = EXCLUDED.task_completion_rate,
			total_revenue_generated = EXCLUDED.total_revenue_generated,
			revenue_target = EXCLUDED.revenue_target,
			revenue_achievement = EXCLUDED.revenue_achievement,
			total_follow_ups = EXCLUDED.total_follow_ups,
			total_chats = EXCLUDED.total_chats,
			communication_score = EXCLUDED.communication_score,
			overall_score = EXCLUDED.overall_score,
			performance_grade = EXCLUDED.performance_grade,
			trend = EXCLUDED.trend,
			improvement_score = EXCLUDED.improvement_score,
			needs_attention = EXCLUDED.needs_attention,
			is_top_performer = EXCLUDED.is_top_performer,
			warning_flags = EXCLUDED.warning_flags,
			calculated_at = EXCLUDED.calculated_at,
			updated_at = NOW()
		RETURNING ` + snapshotColumns

	saved, err := scanSnapshot(q.QueryRow(ctx, query,
		s.EmployeeID, s.CompanyID, s.DepartmentID, s.Month, s.Year,
		s.TotalWorkingDays, s.DaysPresent, s.DaysAbsent, s.DaysLate, s.DaysOnLeave, s.TotalLateMinutes, s.TotalWorkHours, s.AverageWorkHours, s.OvertimeHours, s.AttendanceScore,
		s.TotalPointsEarned, s.ReportsSubmitted, s.ReportsExpected, s.ReportSubmissionRate, s.AverageSelfRating, s.AverageManagerRating, s.TaskQualityScore, s.TasksCompleted, s.TasksAssigned, s.TaskCompletionRate,
		s.TotalRevenueGenerated, s.RevenueTarget, s.RevenueAchievement,
		s.TotalFollowUps, s.TotalChats, s.CommunicationScore,
		s.OverallScore, s.PerformanceGrade, s.Trend, s.ImprovementScore, s.NeedsAttention, s.IsTopPerformer, s.WarningFlags,
		s.CalculatedAt,
	))
	if err != nil {
		if isWriteConflict(err) {
			return performance.Snapshot{}, fmt.Errorf("%w: employee %s period %s: %v", performance.ErrWriteConflict, s.EmployeeID, s.Period(), err)
		}
		return performance.Snapshot{}, fmt.Errorf("failed to upsert performance snapshot for employee %s: %w", s.EmployeeID, err)
	}
	return saved, nil
}

// List implements performance.SnapshotRepository.
func (r *snapshotRepositoryImpl) List(ctx context.Context, filter performance.SnapshotFilter) ([]performance.Snapshot, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM performance_snapshots
		WHERE company_id = $1
	`
	args := []interface{}{filter.CompanyID}
	argIdx := 2

	if filter.Month != nil {
		baseQuery += fmt.Sprintf(" AND month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		baseQuery += fmt.Sprintf(" AND year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentID != nil {
		baseQuery += fmt.Sprintf(" AND department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count performance snapshots: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		%s
		ORDER BY year DESC, month DESC, overall_score DESC, employee_id
		LIMIT $%d OFFSET $%d
	`, snapshotColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list performance snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []performance.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan performance snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return snapshots, totalCount, nil
}

func scanSnapshot(row pgx.Row) (performance.Snapshot, error) {
	var s performance.Snapshot
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.CompanyID, &s.DepartmentID, &s.Month,
		&s.Year, &s.TotalWorkingDays, &s.DaysPresent, &s.DaysAbsent, &s.DaysLate,
		&s.DaysOnLeave, &s.TotalLateMinutes, &s.TotalWorkHours, &s.AverageWorkHours, &s.OvertimeHours,
		&s.AttendanceScore, &s.TotalPointsEarned, &s.ReportsSubmitted, &s.ReportsExpected, &s.ReportSubmissionRate,
		&s.AverageSelfRating, &s.AverageManagerRating, &s.TaskQualityScore, &s.TasksCompleted, &s.TasksAssigned,
		&s.TaskCompletionRate, &s.TotalRevenueGenerated, &s.RevenueTarget, &s.RevenueAchievement, &s.TotalFollowUps,
		&s.TotalChats, &s.CommunicationScore, &s.OverallScore, &s.PerformanceGrade, &s.Trend,
		&s.ImprovementScore, &s.NeedsAttention, &s.IsTopPerformer, &s.WarningFlags, &s.CalculatedAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func isWriteConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgUniqueViolation:
		return true
	}
	return false
}
