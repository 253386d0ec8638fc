package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	// ListApprovedOverlapping returns approved requests of the employee whose
	// [start_date, end_date] overlaps [start, end].
	ListApprovedOverlapping(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]LeaveRequest, error)
}
