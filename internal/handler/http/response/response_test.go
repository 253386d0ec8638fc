package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/engagement"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/performance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/validator"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// ===== ENVELOPE =====

func TestSuccessWithMeta(t *testing.T) {
	rec := httptest.NewRecorder()

	SuccessWithMeta(rec, []string{"a"}, &Meta{Page: 2, Limit: 20, TotalItems: 41, TotalPages: 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.TotalItems)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestSuccessWithMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	SuccessWithMessage(rec, "Performance computed successfully", map[string]int{"written_count": 1})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Performance computed successfully", resp.Message)
}

// ===== ERROR MAPPING =====

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "month", Message: "month must be a number"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"expired token", auth.ErrTokenExpired, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"missing company", user.ErrCompanyIDRequired, http.StatusForbidden, "FORBIDDEN"},
		{"insufficient permissions", user.ErrInsufficientPermissions, http.StatusForbidden, "FORBIDDEN"},
		{"invalid period", fmt.Errorf("%w: month must be between 1 and 12, got 0", performance.ErrInvalidPeriod), http.StatusBadRequest, "BAD_REQUEST"},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"snapshot not found", performance.ErrSnapshotNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"write conflict", fmt.Errorf("write snapshot: %w", performance.ErrWriteConflict), http.StatusConflict, "CONFLICT"},
		{"malformed attendance", fmt.Errorf("aggregate attendance: %w", attendance.ErrInvalidAttendanceRecord), http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
		{"malformed work report", engagement.ErrInvalidWorkReport, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
		{"upstream read", fmt.Errorf("%w: load holidays: timeout", performance.ErrUpstreamRead), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	HandleError(rec, validator.ValidationErrors{{Field: "company_id", Message: "company_id is required"}})

	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, map[string]string{"company_id": "company_id is required"}, resp.Error.Details)
}
