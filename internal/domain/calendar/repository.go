package calendar

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// ListByCompanyAndRange returns the company's holidays dated within [start, end].
	ListByCompanyAndRange(ctx context.Context, companyID string, start, end time.Time) ([]Holiday, error)
}
