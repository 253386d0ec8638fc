package revenue

import (
	"context"
	"time"
)

type ClaimRepository interface {
	// ListApprovedPaidBetween returns approved claims whose linked transaction
	// was paid within [start, end].
	ListApprovedPaidBetween(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]Claim, error)
}
