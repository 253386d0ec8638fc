package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/performance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/jwt"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type fakePerformanceService struct {
	mu          sync.Mutex
	computeReqs []performance.ComputeRequest
	filters     []performance.SnapshotFilter
	computeErr  error
	getErr      error
	snapshot    performance.Snapshot
}

func (f *fakePerformanceService) Compute(ctx context.Context, req performance.ComputeRequest) (performance.ComputeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.computeReqs = append(f.computeReqs, req)
	if f.computeErr != nil {
		return performance.ComputeResult{}, f.computeErr
	}
	return performance.ComputeResult{
		RunID:        "run-1",
		Period:       performance.Period{Month: req.Month, Year: req.Year},
		WrittenCount: 1,
		Snapshots:    []performance.Snapshot{{EmployeeID: "emp-1", CompanyID: req.CompanyID, Month: req.Month, Year: req.Year}},
		Failures:     []performance.ComputeFailure{},
	}, nil
}

func (f *fakePerformanceService) Query(ctx context.Context, filter performance.SnapshotFilter) (performance.SnapshotListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	return performance.SnapshotListResponse{
		Snapshots:  []performance.Snapshot{{EmployeeID: "emp-1", CompanyID: filter.CompanyID}},
		TotalCount: 41,
		Page:       2,
		Limit:      20,
		TotalPages: 3,
	}, nil
}

func (f *fakePerformanceService) GetSnapshot(ctx context.Context, companyID, employeeID string, month, year int) (performance.Snapshot, error) {
	if f.getErr != nil {
		return performance.Snapshot{}, f.getErr
	}
	s := f.snapshot
	s.CompanyID = companyID
	s.EmployeeID = employeeID
	s.Month = month
	s.Year = year
	return s, nil
}

type testEnv struct {
	server  *httptest.Server
	jwt     jwt.Service
	service *fakePerformanceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	svc := &fakePerformanceService{snapshot: performance.Snapshot{OverallScore: 81.5, PerformanceGrade: performance.GradeB}}
	router := NewRouter(RouterOptions{Env: "test", Version: "test", LogLevel: slog.LevelError}, jwtService, NewPerformanceHandler(svc))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testEnv{server: server, jwt: jwtService, service: svc}
}

func (e *testEnv) token(t *testing.T, role user.Role, companyID, employeeID *string) string {
	t.Helper()
	token, _, err := e.jwt.GenerateAccessToken(jwt.AccessClaims{
		UserID:     "user-1",
		Email:      "user@example.com",
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Role:       role,
	})
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func strPtr(s string) *string { return &s }

// ===== AUTHENTICATION =====

func TestPerformanceRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/performance/snapshots", "", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPerformanceRoutes_RejectForeignToken(t *testing.T) {
	env := newTestEnv(t)
	foreign := jwt.NewJWTService("another-secret", "1h")
	token, _, err := foreign.GenerateAccessToken(jwt.AccessClaims{UserID: "user-1", CompanyID: strPtr("company-1"), Role: user.RoleOwner})
	require.NoError(t, err)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/performance/snapshots", token, nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPerformanceRoutes_RequireCompany(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/performance/snapshots", env.token(t, user.RoleOwner, nil, nil), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/performance/snapshots", env.token(t, user.RolePending, strPtr("company-1"), nil), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ===== COMPUTE =====

func TestPerformanceHandler_Compute(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleManager, strPtr("company-1"), strPtr("emp-mgr"))

	resp, payload := env.do(t, http.MethodPost, "/api/v1/performance/compute", token, map[string]any{
		"month":       2,
		"year":        2025,
		"employee_id": "emp-1",
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["success"])
	require.Len(t, env.service.computeReqs, 1)
	req := env.service.computeReqs[0]
	assert.Equal(t, "company-1", req.CompanyID)
	assert.Equal(t, 2, req.Month)
	assert.Equal(t, 2025, req.Year)
	require.NotNil(t, req.EmployeeID)
	assert.Equal(t, "emp-1", *req.EmployeeID)

	data := payload["data"].(map[string]any)
	assert.Equal(t, "run-1", data["run_id"])
	assert.EqualValues(t, 1, data["written_count"])
}

func TestPerformanceHandler_Compute_CompanyIDIsTakenFromToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleOwner, strPtr("company-1"), nil)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/performance/compute", token, map[string]any{
		"month":      2,
		"year":       2025,
		"company_id": "company-2",
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, env.service.computeReqs, 1)
	assert.Equal(t, "company-1", env.service.computeReqs[0].CompanyID)
}

func TestPerformanceHandler_Compute_EmployeeForbidden(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleEmployee, strPtr("company-1"), strPtr("emp-1"))

	resp, _ := env.do(t, http.MethodPost, "/api/v1/performance/compute", token, map[string]any{"month": 2, "year": 2025})

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, env.service.computeReqs)
}

func TestPerformanceHandler_Compute_InvalidBody(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleOwner, strPtr("company-1"), nil)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/performance/compute", token, "not-an-object")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPerformanceHandler_Compute_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid period", fmt.Errorf("%w: month must be between 1 and 12, got 13", performance.ErrInvalidPeriod), http.StatusBadRequest},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound},
		{"write conflict", fmt.Errorf("write snapshot: %w", performance.ErrWriteConflict), http.StatusConflict},
		{"upstream read", fmt.Errorf("%w: load attendance: timeout", performance.ErrUpstreamRead), http.StatusServiceUnavailable},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.service.computeErr = tt.err
			token := env.token(t, user.RoleOwner, strPtr("company-1"), nil)

			resp, payload := env.do(t, http.MethodPost, "/api/v1/performance/compute", token, map[string]any{"month": 13, "year": 2025})

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, false, payload["success"])
		})
	}
}

// ===== LIST =====

func TestPerformanceHandler_ListSnapshots_Manager(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleManager, strPtr("company-1"), strPtr("emp-mgr"))

	resp, payload := env.do(t, http.MethodGet, "/api/v1/performance/snapshots?month=2&year=2025&department_id=dept-1&page=2&limit=20", token, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, env.service.filters, 1)
	filter := env.service.filters[0]
	assert.Equal(t, "company-1", filter.CompanyID)
	require.NotNil(t, filter.Month)
	assert.Equal(t, 2, *filter.Month)
	require.NotNil(t, filter.Year)
	assert.Equal(t, 2025, *filter.Year)
	require.NotNil(t, filter.DepartmentID)
	assert.Equal(t, "dept-1", *filter.DepartmentID)
	assert.Nil(t, filter.EmployeeID)
	assert.Equal(t, 2, filter.Page)

	meta := payload["meta"].(map[string]any)
	assert.EqualValues(t, 41, meta["total_items"])
	assert.EqualValues(t, 3, meta["total_pages"])
}

func TestPerformanceHandler_ListSnapshots_EmployeeSeesOnlyOwn(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleEmployee, strPtr("company-1"), strPtr("emp-7"))

	resp, _ := env.do(t, http.MethodGet, "/api/v1/performance/snapshots", token, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, env.service.filters, 1)
	require.NotNil(t, env.service.filters[0].EmployeeID)
	assert.Equal(t, "emp-7", *env.service.filters[0].EmployeeID)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/performance/snapshots?employee_id=emp-8", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Len(t, env.service.filters, 1)
}

func TestPerformanceHandler_ListSnapshots_InvalidMonth(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleOwner, strPtr("company-1"), nil)

	resp, payload := env.do(t, http.MethodGet, "/api/v1/performance/snapshots?month=feb", token, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errDetail := payload["error"].(map[string]any)
	assert.Contains(t, errDetail["details"], "month")
}

// ===== GET =====

func TestPerformanceHandler_GetSnapshot(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleOwner, strPtr("company-1"), nil)

	resp, payload := env.do(t, http.MethodGet, "/api/v1/performance/snapshots/emp-1/2025/2", token, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "emp-1", data["employee_id"])
	assert.Equal(t, "company-1", data["company_id"])
	assert.EqualValues(t, 2, data["month"])
	assert.EqualValues(t, 2025, data["year"])
	assert.Equal(t, "B", data["performance_grade"])
}

func TestPerformanceHandler_GetSnapshot_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.service.getErr = performance.ErrSnapshotNotFound
	token := env.token(t, user.RoleOwner, strPtr("company-1"), nil)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/performance/snapshots/emp-1/2025/2", token, nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPerformanceHandler_GetSnapshot_EmployeeOwnership(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleEmployee, strPtr("company-1"), strPtr("emp-1"))

	resp, _ := env.do(t, http.MethodGet, "/api/v1/performance/snapshots/emp-1/2025/2", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/performance/snapshots/emp-2/2025/2", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPerformanceHandler_GetSnapshot_InvalidYear(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, user.RoleOwner, strPtr("company-1"), nil)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/performance/snapshots/emp-1/twenty/2", token, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
