package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines read access to attendance records.
// All methods include companyID parameter to prevent cross-company data access.
type AttendanceRepository interface {
	// ListByEmployeeAndRange returns the employee's records whose date lies
	// within [start, end], ordered by date.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]Attendance, error)
}
