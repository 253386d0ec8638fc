package performance

import (
	"fmt"
	"time"
)

const (
	MinYear = 2000
	MaxYear = 2100
)

// Period identifies one calendar month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// NewPeriod validates month and year and returns the period. Errors wrap
// ErrInvalidPeriod.
func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalidPeriod, month)
	}
	if year < MinYear || year > MaxYear {
		return Period{}, fmt.Errorf("%w: year must be between %d and %d, got %d", ErrInvalidPeriod, MinYear, MaxYear, year)
	}
	return Period{Month: month, Year: year}, nil
}

// Start is the first day of the month at 00:00 UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End is the last day of the month at 00:00 UTC.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

// Previous returns the immediately preceding month, rolling the year over
// in January.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Month: 12, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
