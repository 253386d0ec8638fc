package performance

import (
	"fmt"
	"math"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/leave"
)

const (
	standardWorkHours = 8.0

	presenceWeight     = 70.0
	punctualityWeight  = 0.2
	maxOvertimeBonus   = 10.0
	overtimeBonusRatio = 10.0
)

type AttendanceMetrics struct {
	DaysPresent      int
	DaysAbsent       int
	DaysLate         int
	DaysOnLeave      int
	TotalLateMinutes int
	TotalWorkHours   float64
	AverageWorkHours float64
	OvertimeHours    float64
	Score            float64
}

// AggregateAttendance reduces the employee's attendance rows and approved
// leave requests for the calendar month.
func AggregateAttendance(records []attendance.Attendance, leaves []leave.LeaveRequest, cal Calendar) (AttendanceMetrics, error) {
	var m AttendanceMetrics
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		if !cal.Contains(r.Date) {
			continue
		}
		day := r.Date.Format(dateLayout)
		if _, dup := seen[day]; dup {
			return AttendanceMetrics{}, fmt.Errorf("%w: duplicate record for %s", attendance.ErrInvalidAttendanceRecord, day)
		}
		seen[day] = struct{}{}

		late := r.Late()
		if late < 0 {
			return AttendanceMetrics{}, fmt.Errorf("%w: negative late minutes on %s", attendance.ErrInvalidAttendanceRecord, day)
		}

		if r.Status.CountsAsPresent() {
			m.DaysPresent++
		}
		if late > 0 {
			m.DaysLate++
			m.TotalLateMinutes += late
		}

		if hours, ok := r.WorkedHours(); ok {
			if hours < 0 {
				return AttendanceMetrics{}, fmt.Errorf("%w: clock-out before clock-in on %s", attendance.ErrInvalidAttendanceRecord, day)
			}
			m.TotalWorkHours += hours
		}
	}

	m.DaysOnLeave = countLeaveDays(leaves, cal)

	workingDays := cal.TotalWorkingDays()
	m.DaysAbsent = max(0, workingDays-m.DaysPresent)
	if m.DaysPresent > 0 {
		m.AverageWorkHours = m.TotalWorkHours / float64(m.DaysPresent)
	}
	m.OvertimeHours = math.Max(0, m.TotalWorkHours-float64(m.DaysPresent)*standardWorkHours)
	m.Score = attendanceScore(m.DaysPresent, m.DaysLate, workingDays, m.OvertimeHours)

	return m, nil
}

// attendanceScore combines presence (70), punctuality (20) and an overtime
// bonus (10) and caps the result at 100. Without working days the ratio based
// components are zero.
func attendanceScore(daysPresent, daysLate, workingDays int, overtimeHours float64) float64 {
	var presence, punctuality float64
	if workingDays > 0 {
		presence = float64(daysPresent) / float64(workingDays) * presenceWeight
		lateRatio := float64(daysLate) / float64(workingDays) * 100
		punctuality = math.Max(0, 100-lateRatio) * punctualityWeight
	}
	bonus := math.Min(maxOvertimeBonus, overtimeHours/overtimeBonusRatio)
	return math.Min(100, presence+punctuality+bonus)
}

// countLeaveDays counts the working days of the period covered by approved
// leave. Overlapping requests count a day once.
func countLeaveDays(leaves []leave.LeaveRequest, cal Calendar) int {
	if len(leaves) == 0 {
		return 0
	}
	count := 0
	for _, day := range cal.WorkingDays {
		for _, l := range leaves {
			if l.Status != leave.LeaveRequestStatusApproved {
				continue
			}
			if l.Covers(day) {
				count++
				break
			}
		}
	}
	return count
}
