package engagement

import (
	"fmt"
	"time"
)

const (
	MinRating = 1
	MaxRating = 10

	MinEvaluationScore = -3.0
	MaxEvaluationScore = 3.0
)

// PointLog is one entry of the employee point ledger.
type PointLog struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Date       time.Time
	Points     float64
	Reason     *string
	CreatedAt  time.Time
}

// TaskItem is one task assigned on a report day. The engine only counts them.
type TaskItem struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Evaluation holds the structured manager/peer evaluation attached to a work
// report. Each score is optional and bounded to [-3, 3].
type Evaluation struct {
	WorkQuality   *float64 `json:"work_quality,omitempty"`
	Efficiency    *float64 `json:"efficiency,omitempty"`
	Communication *float64 `json:"communication,omitempty"`
}

// WorkReport is a daily self/manager work report.
type WorkReport struct {
	ID                 string
	EmployeeID         string
	CompanyID          string
	Date               time.Time
	SelfRating         *float64
	ManagerRating      *float64
	TasksCompleted     int
	TasksSnapshot      []TaskItem
	Evaluation         *Evaluation
	FollowUpsCompleted int
	ChatsHandled       int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate checks the numeric bounds of the report. Violations wrap
// ErrInvalidWorkReport.
func (r WorkReport) Validate() error {
	if err := checkRating("self_rating", r.SelfRating); err != nil {
		return r.invalid(err)
	}
	if err := checkRating("manager_rating", r.ManagerRating); err != nil {
		return r.invalid(err)
	}
	if r.TasksCompleted < 0 {
		return r.invalid(fmt.Errorf("tasks_completed must not be negative, got %d", r.TasksCompleted))
	}
	if r.FollowUpsCompleted < 0 || r.ChatsHandled < 0 {
		return r.invalid(fmt.Errorf("communication counters must not be negative"))
	}
	if r.Evaluation != nil {
		if err := checkEvaluation("work_quality", r.Evaluation.WorkQuality); err != nil {
			return r.invalid(err)
		}
		if err := checkEvaluation("efficiency", r.Evaluation.Efficiency); err != nil {
			return r.invalid(err)
		}
		if err := checkEvaluation("communication", r.Evaluation.Communication); err != nil {
			return r.invalid(err)
		}
	}
	return nil
}

func (r WorkReport) invalid(err error) error {
	return fmt.Errorf("%w: report %s on %s: %v", ErrInvalidWorkReport, r.ID, r.Date.Format("2006-01-02"), err)
}

func checkRating(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if *v < MinRating || *v > MaxRating {
		return fmt.Errorf("%s must be between %d and %d, got %v", field, MinRating, MaxRating, *v)
	}
	return nil
}

func checkEvaluation(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if *v < MinEvaluationScore || *v > MaxEvaluationScore {
		return fmt.Errorf("evaluation.%s must be between %v and %v, got %v", field, MinEvaluationScore, MaxEvaluationScore, *v)
	}
	return nil
}
