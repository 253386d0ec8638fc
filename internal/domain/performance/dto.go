package performance

import (
	"strings"

	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/validator"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ========================================
// COMPUTE
// ========================================

type ComputeRequest struct {
	Month      int     `json:"month"`
	Year       int     `json:"year"`
	CompanyID  string  `json:"-"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

// Validate checks the request shape. Month and year are checked by NewPeriod
// so that an out-of-range period always surfaces as ErrInvalidPeriod.
func (r *ComputeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_id",
			Message: "company_id is required",
		})
	}

	if r.EmployeeID != nil && validator.IsEmpty(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must not be blank when provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ComputeFailure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
	Retryable  bool   `json:"retryable"`
}

type ComputeResult struct {
	RunID        string           `json:"run_id"`
	Period       Period           `json:"period"`
	WrittenCount int              `json:"written_count"`
	Snapshots    []Snapshot       `json:"snapshots"`
	Failures     []ComputeFailure `json:"failures"`
}

// ========================================
// QUERY
// ========================================

type SnapshotFilter struct {
	CompanyID    string
	Month        *int
	Year         *int
	EmployeeID   *string
	DepartmentID *string
	Page         int
	Limit        int
}

// Validate checks the filter and normalises paging.
func (f *SnapshotFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_id",
			Message: "company_id is required",
		})
	}

	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if f.Year != nil && (*f.Year < MinYear || *f.Year > MaxYear) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between " + validator.Itoa(MinYear) + " and " + validator.Itoa(MaxYear),
		})
	}

	if f.EmployeeID != nil {
		trimmed := strings.TrimSpace(*f.EmployeeID)
		if trimmed == "" {
			f.EmployeeID = nil
		} else {
			f.EmployeeID = &trimmed
		}
	}
	if f.DepartmentID != nil {
		trimmed := strings.TrimSpace(*f.DepartmentID)
		if trimmed == "" {
			f.DepartmentID = nil
		} else {
			f.DepartmentID = &trimmed
		}
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Offset returns the row offset of the requested page.
func (f SnapshotFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type SnapshotListResponse struct {
	Snapshots  []Snapshot `json:"snapshots"`
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
