// Package servicetest holds in-memory repositories shared by service tests.
package servicetest

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/service/shift"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// CompanyContext returns a context scoped to companyID with the manager role.
func CompanyContext(t *testing.T, companyID string) context.Context {
	t.Helper()
	ctx, err := jwt.WithCompany(context.Background(), companyID, user.RoleManager)
	require.NoError(t, err)
	return ctx
}

type RecordRepo struct {
	Records   map[string]timerecord.TimeRecord
	CreateErr error
	UpdateErr error
}

func NewRecordRepo(records ...timerecord.TimeRecord) *RecordRepo {
	repo := &RecordRepo{Records: make(map[string]timerecord.TimeRecord)}
	for _, r := range records {
		repo.Records[r.ID] = r
	}
	return repo
}

func (f *RecordRepo) Create(ctx context.Context, record timerecord.TimeRecord) (timerecord.TimeRecord, error) {
	if f.CreateErr != nil {
		return timerecord.TimeRecord{}, f.CreateErr
	}
	if record.ID == "" {
		record.ID = uuid.Must(uuid.NewV7()).String()
	}
	f.Records[record.ID] = record
	return record, nil
}

func (f *RecordRepo) Update(ctx context.Context, record timerecord.TimeRecord) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	if _, ok := f.Records[record.ID]; !ok {
		return timerecord.ErrTimeRecordNotFound
	}
	f.Records[record.ID] = record
	return nil
}

func (f *RecordRepo) GetByID(ctx context.Context, id string, companyID string) (timerecord.TimeRecord, error) {
	r, ok := f.Records[id]
	if !ok || r.CompanyID != companyID {
		return timerecord.TimeRecord{}, timerecord.ErrTimeRecordNotFound
	}
	return r, nil
}

func (f *RecordRepo) DeleteBulk(ctx context.Context, ids []string, companyID string) (int64, error) {
	var n int64
	for _, id := range ids {
		if r, ok := f.Records[id]; ok && r.CompanyID == companyID {
			delete(f.Records, id)
			n++
		}
	}
	return n, nil
}

func (f *RecordRepo) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time, companyID string) ([]timerecord.TimeRecord, error) {
	var out []timerecord.TimeRecord
	for _, r := range f.Sorted() {
		if r.EmployeeID == employeeID && r.CompanyID == companyID && !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *RecordRepo) StreamByCompanyAndRange(ctx context.Context, companyID string, start, end time.Time, fn func(timerecord.TimeRecord) error) error {
	for _, r := range f.Sorted() {
		if r.CompanyID == companyID && !r.Date.Before(start) && !r.Date.After(end) {
			if err := fn(r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *RecordRepo) ListUnsplitOvernight(ctx context.Context, limit int) ([]timerecord.TimeRecord, error) {
	var out []timerecord.TimeRecord
	for _, r := range f.Sorted() {
		if len(out) == limit {
			break
		}
		if _, _, ok := shift.SplitOvernight(r); ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Sorted returns the records ordered by employee, date and ID.
func (f *RecordRepo) Sorted() []timerecord.TimeRecord {
	out := make([]timerecord.TimeRecord, 0, len(f.Records))
	for _, r := range f.Records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Transactor restores the repository snapshot when fn fails. Nested calls
// join the outer one.
type Transactor struct {
	Repo    *RecordRepo
	Commits int
	depth   int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.depth > 0 {
		return fn(ctx)
	}

	snapshot := make(map[string]timerecord.TimeRecord, len(t.Repo.Records))
	for k, v := range t.Repo.Records {
		snapshot[k] = v
	}

	t.depth++
	err := fn(ctx)
	t.depth--
	if err != nil {
		t.Repo.Records = snapshot
		return err
	}
	t.Commits++
	return nil
}

type EmployeeRepo struct {
	Employees []employee.Employee
}

func (f *EmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	for _, e := range f.Employees {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *EmployeeRepo) ListRoster(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.Employees {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *EmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.Employees {
		if e.CompanyID == companyID && e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

type HolidayRepo struct {
	Holidays []holiday.Holiday
}

func (f *HolidayRepo) ListActiveInRange(ctx context.Context, companyID string, start, end time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range f.Holidays {
		if h.CompanyID == companyID && h.Active && !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

type LeaveRepo struct {
	Requests []leave.LeaveRequest
}

func (f *LeaveRepo) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveRequest, error) {
	for _, r := range f.Requests {
		if r.ID == id && r.CompanyID == companyID {
			return r, nil
		}
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (f *LeaveRepo) ListApprovedOverlapping(ctx context.Context, companyID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.Requests {
		if r.CompanyID == companyID && r.IsApproved() && !r.StartDate.After(end) && !r.LastDay().Before(start) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *LeaveRepo) ListByEmployeeForYear(ctx context.Context, employeeID string, year int, companyID string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.Requests {
		if r.EmployeeID == employeeID && r.CompanyID == companyID && r.StartDate.Year() == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *LeaveRepo) ListByCompanyForYear(ctx context.Context, companyID string, year int) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.Requests {
		if r.CompanyID == companyID && r.StartDate.Year() == year {
			out = append(out, r)
		}
	}
	return out, nil
}

// Day parses a 2006-01-02 date as UTC midnight.
func Day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func DayPtr(s string) *time.Time {
	d := Day(s)
	return &d
}

func StrPtr(s string) *string { return &s }
