package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/engagement"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/performance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// User domain errors
	case errors.Is(err, user.ErrCompanyIDRequired):
		Forbidden(w, "Company membership required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Performance domain errors
	case errors.Is(err, performance.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, performance.ErrSnapshotNotFound):
		NotFound(w, "Performance snapshot not found")
	case errors.Is(err, performance.ErrWriteConflict):
		Conflict(w, "Snapshot is being written concurrently, retry the request")
	case errors.Is(err, attendance.ErrInvalidAttendanceRecord),
		errors.Is(err, engagement.ErrInvalidWorkReport):
		UnprocessableEntity(w, "Source data for this employee is malformed")
	case errors.Is(err, performance.ErrUpstreamRead):
		ServiceUnavailable(w, "Source data is temporarily unavailable")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
