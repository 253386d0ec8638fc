package performance

import "context"

type PerformanceService interface {
	// Compute recomputes snapshots for one employee when EmployeeID is set,
	// otherwise for every active employee of the company.
	Compute(ctx context.Context, req ComputeRequest) (ComputeResult, error)

	// Query lists stored snapshots.
	Query(ctx context.Context, filter SnapshotFilter) (SnapshotListResponse, error)

	// GetSnapshot returns one stored snapshot of an employee of the company.
	GetSnapshot(ctx context.Context, companyID, employeeID string, month, year int) (Snapshot, error)
}
