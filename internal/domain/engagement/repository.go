package engagement

import (
	"context"
	"time"
)

type PointLogRepository interface {
	ListByEmployeeAndRange(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]PointLog, error)
}

type WorkReportRepository interface {
	ListByEmployeeAndRange(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]WorkReport, error)
}
