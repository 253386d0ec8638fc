package attendance

import (
	"time"
)

type Attendance struct {
	ID                 string
	EmployeeID         string
	CompanyID          string
	Date               time.Time
	ClockIn            *time.Time
	ClockOut           *time.Time
	WorkHoursInMinutes *int
	Status             Status
	LateMinutes        *int
	EarlyLeaveMinutes  *int
	OvertimeMinutes    *int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Status string

const (
	StatusPresent    Status = "present"
	StatusLate       Status = "late"
	StatusAbsent     Status = "absent"
	StatusLeave      Status = "leave"
	StatusAutoClosed Status = "auto_closed"
	StatusPending    Status = "pending"
	StatusRejected   Status = "rejected"
)

// CountsAsPresent reports whether the record represents a day the employee
// actually showed up. Auto-closed sessions had a clock-in.
func (s Status) CountsAsPresent() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAutoClosed:
		return true
	}
	return false
}

// Late returns the recorded lateness, treating a missing value as zero.
func (a Attendance) Late() int {
	if a.LateMinutes == nil {
		return 0
	}
	return *a.LateMinutes
}

// WorkedHours returns clock-out minus clock-in in hours and whether both
// timestamps were present.
func (a Attendance) WorkedHours() (float64, bool) {
	if a.ClockIn == nil || a.ClockOut == nil {
		return 0, false
	}
	return a.ClockOut.Sub(*a.ClockIn).Hours(), true
}
