package performance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Trend string

const (
	TrendImproving Trend = "IMPROVING"
	TrendStable    Trend = "STABLE"
	TrendDeclining Trend = "DECLINING"
)

type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

const (
	FlagLowAttendance    = "LOW_ATTENDANCE"
	FlagPoorReporting    = "POOR_REPORTING"
	FlagFrequentLate     = "FREQUENT_LATE"
	FlagLowManagerRating = "LOW_MANAGER_RATING"
)

// Snapshot is the monthly performance record of one employee. It is unique
// per (EmployeeID, Month, Year) and fully replaced on every recompute.
type Snapshot struct {
	ID           string  `json:"id,omitempty"`
	EmployeeID   string  `json:"employee_id"`
	CompanyID    string  `json:"company_id"`
	DepartmentID *string `json:"department_id,omitempty"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`

	// Attendance
	TotalWorkingDays int     `json:"total_working_days"`
	DaysPresent      int     `json:"days_present"`
	DaysAbsent       int     `json:"days_absent"`
	DaysLate         int     `json:"days_late"`
	DaysOnLeave      int     `json:"days_on_leave"`
	TotalLateMinutes int     `json:"total_late_minutes"`
	TotalWorkHours   float64 `json:"total_work_hours"`
	AverageWorkHours float64 `json:"average_work_hours"`
	OvertimeHours    float64 `json:"overtime_hours"`
	AttendanceScore  float64 `json:"attendance_score"`

	// Engagement
	TotalPointsEarned    float64 `json:"total_points_earned"`
	ReportsSubmitted     int     `json:"reports_submitted"`
	ReportsExpected      int     `json:"reports_expected"`
	ReportSubmissionRate float64 `json:"report_submission_rate"`
	AverageSelfRating    float64 `json:"average_self_rating"`
	AverageManagerRating float64 `json:"average_manager_rating"`
	TaskQualityScore     float64 `json:"task_quality_score"`
	TasksCompleted       int     `json:"tasks_completed"`
	TasksAssigned        int     `json:"tasks_assigned"`
	TaskCompletionRate   float64 `json:"task_completion_rate"`

	// Revenue
	TotalRevenueGenerated decimal.Decimal `json:"total_revenue_generated"`
	RevenueTarget         decimal.Decimal `json:"revenue_target"`
	RevenueAchievement    float64         `json:"revenue_achievement"`

	// Communication
	TotalFollowUps     int     `json:"total_follow_ups"`
	TotalChats         int     `json:"total_chats"`
	CommunicationScore float64 `json:"communication_score"`

	// Composite
	OverallScore     float64  `json:"overall_score"`
	PerformanceGrade Grade    `json:"performance_grade"`
	Trend            Trend    `json:"trend"`
	ImprovementScore float64  `json:"improvement_score"`
	NeedsAttention   bool     `json:"needs_attention"`
	IsTopPerformer   bool     `json:"is_top_performer"`
	WarningFlags     []string `json:"warning_flags,omitempty"`

	CalculatedAt time.Time `json:"calculated_at"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Period returns the month the snapshot describes.
func (s Snapshot) Period() Period {
	return Period{Month: s.Month, Year: s.Year}
}
