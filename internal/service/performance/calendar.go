package performance

import (
	"time"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/performance"
)

const dateLayout = "2006-01-02"

// Calendar is the request-scoped view of one company month. It is resolved
// once per Compute call and shared read-only by every employee pipeline of
// that call.
type Calendar struct {
	CompanyID   string
	Period      performance.Period
	Start       time.Time
	End         time.Time
	WorkingDays []time.Time
	holidays    map[string]struct{}
}

// BuildCalendar enumerates every day of the period and keeps weekdays that are
// not company holidays.
func BuildCalendar(companyID string, period performance.Period, holidays []calendar.Holiday) Calendar {
	cal := Calendar{
		CompanyID: companyID,
		Period:    period,
		Start:     period.Start(),
		End:       period.End(),
		holidays:  make(map[string]struct{}, len(holidays)),
	}

	for _, h := range holidays {
		if h.CompanyID != "" && h.CompanyID != companyID {
			continue
		}
		cal.holidays[h.Date.Format(dateLayout)] = struct{}{}
	}

	for day := cal.Start; !day.After(cal.End); day = day.AddDate(0, 0, 1) {
		if cal.isWorkingDay(day) {
			cal.WorkingDays = append(cal.WorkingDays, day)
		}
	}

	return cal
}

// TotalWorkingDays is the number of official working days in the period.
func (c Calendar) TotalWorkingDays() int {
	return len(c.WorkingDays)
}

// IsHoliday reports whether day is a company holiday.
func (c Calendar) IsHoliday(day time.Time) bool {
	_, ok := c.holidays[day.Format(dateLayout)]
	return ok
}

// Contains reports whether t falls on any day of the period.
func (c Calendar) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(c.Start) && t.Before(c.End.AddDate(0, 0, 1))
}

func (c Calendar) isWorkingDay(day time.Time) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.IsHoliday(day)
}
