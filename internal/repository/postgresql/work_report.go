package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/engagement"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/database"
)

type workReportRepositoryImpl struct {
	db *database.DB
}

func NewWorkReportRepository(db *database.DB) engagement.WorkReportRepository {
	return &workReportRepositoryImpl{db: db}
}

// ListByEmployeeAndRange implements engagement.WorkReportRepository.
func (r *workReportRepositoryImpl) ListByEmployeeAndRange(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]engagement.WorkReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, date, self_rating, manager_rating,
			   tasks_completed, tasks_snapshot, evaluation,
			   follow_ups_completed, chats_handled, created_at, updated_at
		FROM work_reports
		WHERE employee_id = $1 AND company_id = $2 AND date BETWEEN $3 AND $4
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list work reports: %w", err)
	}
	defer rows.Close()

	var reports []engagement.WorkReport
	for rows.Next() {
		var wr engagement.WorkReport
		var tasksBytes, evaluationBytes []byte
		if err := rows.Scan(
			&wr.ID, &wr.EmployeeID, &wr.CompanyID, &wr.Date, &wr.SelfRating, &wr.ManagerRating,
			&wr.TasksCompleted, &tasksBytes, &evaluationBytes,
			&wr.FollowUpsCompleted, &wr.ChatsHandled, &wr.CreatedAt, &wr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan work report: %w", err)
		}

		if len(tasksBytes) > 0 {
			if err := json.Unmarshal(tasksBytes, &wr.TasksSnapshot); err != nil {
				return nil, fmt.Errorf("%w: report %s: tasks_snapshot: %v", engagement.ErrInvalidWorkReport, wr.ID, err)
			}
		}
		if len(evaluationBytes) > 0 && string(evaluationBytes) != "null" {
			var eval engagement.Evaluation
			if err := json.Unmarshal(evaluationBytes, &eval); err != nil {
				return nil, fmt.Errorf("%w: report %s: evaluation: %v", engagement.ErrInvalidWorkReport, wr.ID, err)
			}
			wr.Evaluation = &eval
		}

		reports = append(reports, wr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}
