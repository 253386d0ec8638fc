package performance

import "context"

// SnapshotRepository persists monthly performance snapshots keyed by
// (employee_id, month, year).
type SnapshotRepository interface {
	// Get returns nil, nil when no snapshot exists for the key.
	Get(ctx context.Context, employeeID string, month, year int) (*Snapshot, error)

	// Upsert creates the snapshot or fully replaces the existing one for the
	// same key in a single atomic statement. Lost races surface as
	// ErrWriteConflict.
	Upsert(ctx context.Context, snapshot Snapshot) (Snapshot, error)

	// List returns snapshots matching the filter ordered by year desc,
	// month desc, overall score desc, plus the total match count.
	List(ctx context.Context, filter SnapshotFilter) ([]Snapshot, int64, error)
}
