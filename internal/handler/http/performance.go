package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/performance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-performance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-performance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/validator"
)

type PerformanceHandler interface {
	Compute(w http.ResponseWriter, r *http.Request)
	ListSnapshots(w http.ResponseWriter, r *http.Request)
	GetSnapshot(w http.ResponseWriter, r *http.Request)
}

type PerformanceHandlerImpl struct {
	performanceService performance.PerformanceService
}

func NewPerformanceHandler(performanceService performance.PerformanceService) PerformanceHandler {
	return &PerformanceHandlerImpl{
		performanceService: performanceService,
	}
}

// Compute implements PerformanceHandler.
func (h *PerformanceHandlerImpl) Compute(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyIDFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrCompanyIDRequired)
		return
	}

	var req performance.ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Compute decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = companyID

	result, err := h.performanceService.Compute(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Performance computed successfully"
	if len(result.Failures) > 0 {
		message = fmt.Sprintf("Performance computed with %d failure(s)", len(result.Failures))
	}
	response.SuccessWithMessage(w, message, result)
}

// ListSnapshots implements PerformanceHandler.
func (h *PerformanceHandlerImpl) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyIDFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrCompanyIDRequired)
		return
	}

	query := r.URL.Query()
	filter := performance.SnapshotFilter{CompanyID: companyID}

	var errs validator.ValidationErrors
	month, err := validator.ParseOptionalInt(query.Get("month"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
	}
	year, err := validator.ParseOptionalInt(query.Get("year"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}
	filter.Month = month
	filter.Year = year

	if employeeID := strings.TrimSpace(query.Get("employee_id")); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if departmentID := strings.TrimSpace(query.Get("department_id")); departmentID != "" {
		filter.DepartmentID = &departmentID
	}
	if pageStr := query.Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	// Without view_all a caller only ever sees their own snapshots.
	if !canViewAll(r) {
		ownID, ok := middleware.EmployeeIDFromContext(r.Context())
		if !ok {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != ownID {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}
		filter.EmployeeID = &ownID
	}

	result, err := h.performanceService.Query(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Snapshots, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// GetSnapshot implements PerformanceHandler.
func (h *PerformanceHandlerImpl) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyIDFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrCompanyIDRequired)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "Invalid year", nil)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		response.BadRequest(w, "Invalid month", nil)
		return
	}

	if !canViewAll(r) {
		ownID, ok := middleware.EmployeeIDFromContext(r.Context())
		if !ok || ownID != employeeID {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}
	}

	snapshot, err := h.performanceService.GetSnapshot(r.Context(), companyID, employeeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, snapshot)
}

func canViewAll(r *http.Request) bool {
	role, ok := middleware.RoleFromContext(r.Context())
	return ok && user.HasPermission(role, user.PermissionPerformanceViewAll)
}
