package calendar

import "time"

// Holiday is a company-specific non-working day.
type Holiday struct {
	ID        string
	CompanyID string
	Date      time.Time
	Name      string
}
