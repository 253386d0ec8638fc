package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/engagement"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/database"
)

type pointLogRepositoryImpl struct {
	db *database.DB
}

func NewPointLogRepository(db *database.DB) engagement.PointLogRepository {
	return &pointLogRepositoryImpl{db: db}
}

// ListByEmployeeAndRange implements engagement.PointLogRepository.
func (r *pointLogRepositoryImpl) ListByEmployeeAndRange(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]engagement.PointLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, date, points, reason, created_at
		FROM point_logs
		WHERE employee_id = $1 AND company_id = $2 AND date BETWEEN $3 AND $4
		ORDER BY date, created_at
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list point logs: %w", err)
	}
	defer rows.Close()

	var logs []engagement.PointLog
	for rows.Next() {
		var p engagement.PointLog
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.CompanyID, &p.Date, &p.Points, &p.Reason, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan point log: %w", err)
		}
		logs = append(logs, p)
	}

	return logs, rows.Err()
}
