package performance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/engagement"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/performance"
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/revenue"
)

// fakeStore is an in-memory stand-in for every repository the engine reads
// from and writes to.
type fakeStore struct {
	mu sync.Mutex

	employees   []employee.Employee
	holidays    []calendar.Holiday
	attendance  map[string][]attendance.Attendance
	leaves      map[string][]leave.LeaveRequest
	points      map[string][]engagement.PointLog
	reports     map[string][]engagement.WorkReport
	claims      map[string][]revenue.Claim
	snapshots   map[string]performance.Snapshot
	nextID      int
	upsertCalls int

	// attendanceErr fails attendance reads of an employee.
	attendanceErr map[string]error
	// attendanceCalls counts attendance reads per employee.
	attendanceCalls map[string]int
	// onAttendance runs before an attendance read is answered.
	onAttendance func(employeeID string)
	// upsertErrs is consumed one error per Upsert call.
	upsertErrs []error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		attendance:      map[string][]attendance.Attendance{},
		leaves:          map[string][]leave.LeaveRequest{},
		points:          map[string][]engagement.PointLog{},
		reports:         map[string][]engagement.WorkReport{},
		claims:          map[string][]revenue.Claim{},
		snapshots:       map[string]performance.Snapshot{},
		attendanceErr:   map[string]error{},
		attendanceCalls: map[string]int{},
	}
}

func snapshotKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s/%04d-%02d", employeeID, year, month)
}

func (f *fakeStore) service(opts Options) *PerformanceServiceImpl {
	return NewPerformanceService(f, f, f, f, pointLogStore{f}, workReportStore{f}, f, snapshotStore{f}, opts)
}

// employee.EmployeeRepository

func (f *fakeStore) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.employees {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeStore) ListActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []employee.Employee
	for _, e := range f.employees {
		if e.CompanyID == companyID && e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListActiveCompanyIDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, e := range f.employees {
		if e.IsActive() && !seen[e.CompanyID] {
			seen[e.CompanyID] = true
			out = append(out, e.CompanyID)
		}
	}
	return out, nil
}

// calendar.HolidayRepository

func (f *fakeStore) ListByCompanyAndRange(ctx context.Context, companyID string, start, end time.Time) ([]calendar.Holiday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []calendar.Holiday
	for _, h := range f.holidays {
		if h.CompanyID == companyID && !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

// attendance.AttendanceRepository

func (f *fakeStore) ListByEmployeeAndRange(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]attendance.Attendance, error) {
	if f.onAttendance != nil {
		f.onAttendance(employeeID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attendanceCalls[employeeID]++
	if err := f.attendanceErr[employeeID]; err != nil {
		return nil, err
	}
	return f.attendance[employeeID], nil
}

// leave.LeaveRequestRepository

func (f *fakeStore) ListApprovedOverlapping(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leaves[employeeID], nil
}

// revenue.ClaimRepository

func (f *fakeStore) ListApprovedPaidBetween(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]revenue.Claim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.claims[employeeID], nil
}

// Point logs and work reports share a method name with attendance reads, so
// they are exposed through thin adapters.
type pointLogStore struct{ f *fakeStore }

func (p pointLogStore) ListByEmployeeAndRange(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]engagement.PointLog, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	return p.f.points[employeeID], nil
}

type workReportStore struct{ f *fakeStore }

func (w workReportStore) ListByEmployeeAndRange(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]engagement.WorkReport, error) {
	w.f.mu.Lock()
	defer w.f.mu.Unlock()
	return w.f.reports[employeeID], nil
}

// performance.SnapshotRepository

type snapshotStore struct{ f *fakeStore }

func (s snapshotStore) Get(ctx context.Context, employeeID string, month, year int) (*performance.Snapshot, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	snap, ok := s.f.snapshots[snapshotKey(employeeID, month, year)]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s snapshotStore) Upsert(ctx context.Context, snap performance.Snapshot) (performance.Snapshot, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.upsertCalls++
	if len(s.f.upsertErrs) > 0 {
		err := s.f.upsertErrs[0]
		s.f.upsertErrs = s.f.upsertErrs[1:]
		if err != nil {
			return performance.Snapshot{}, err
		}
	}

	key := snapshotKey(snap.EmployeeID, snap.Month, snap.Year)
	if existing, ok := s.f.snapshots[key]; ok {
		snap.ID = existing.ID
	} else {
		s.f.nextID++
		snap.ID = fmt.Sprintf("snap-%d", s.f.nextID)
	}
	s.f.snapshots[key] = snap
	return snap, nil
}

func (s snapshotStore) List(ctx context.Context, filter performance.SnapshotFilter) ([]performance.Snapshot, int64, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	var out []performance.Snapshot
	for _, snap := range s.f.snapshots {
		if snap.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Month != nil && snap.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && snap.Year != *filter.Year {
			continue
		}
		out = append(out, snap)
	}
	total := int64(len(out))
	start := min(filter.Offset(), len(out))
	end := min(start+filter.Limit, len(out))
	return out[start:end], total, nil
}
