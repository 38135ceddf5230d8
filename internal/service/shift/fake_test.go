package shift

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
)

type fakeRecordRepo struct {
	records   map[string]timerecord.TimeRecord
	createErr error
	updateErr error
}

func newFakeRecordRepo(records ...timerecord.TimeRecord) *fakeRecordRepo {
	repo := &fakeRecordRepo{records: make(map[string]timerecord.TimeRecord)}
	for _, r := range records {
		repo.records[r.ID] = r
	}
	return repo
}

func (f *fakeRecordRepo) Create(ctx context.Context, record timerecord.TimeRecord) (timerecord.TimeRecord, error) {
	if f.createErr != nil {
		return timerecord.TimeRecord{}, f.createErr
	}
	f.records[record.ID] = record
	return record, nil
}

func (f *fakeRecordRepo) Update(ctx context.Context, record timerecord.TimeRecord) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.records[record.ID]; !ok {
		return timerecord.ErrTimeRecordNotFound
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeRecordRepo) GetByID(ctx context.Context, id string, companyID string) (timerecord.TimeRecord, error) {
	r, ok := f.records[id]
	if !ok || r.CompanyID != companyID {
		return timerecord.TimeRecord{}, timerecord.ErrTimeRecordNotFound
	}
	return r, nil
}

func (f *fakeRecordRepo) DeleteBulk(ctx context.Context, ids []string, companyID string) (int64, error) {
	var n int64
	for _, id := range ids {
		if r, ok := f.records[id]; ok && r.CompanyID == companyID {
			delete(f.records, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeRecordRepo) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time, companyID string) ([]timerecord.TimeRecord, error) {
	var out []timerecord.TimeRecord
	for _, r := range f.sorted() {
		if r.EmployeeID == employeeID && r.CompanyID == companyID && !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) StreamByCompanyAndRange(ctx context.Context, companyID string, start, end time.Time, fn func(timerecord.TimeRecord) error) error {
	for _, r := range f.sorted() {
		if r.CompanyID == companyID && !r.Date.Before(start) && !r.Date.After(end) {
			if err := fn(r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fakeRecordRepo) ListUnsplitOvernight(ctx context.Context, limit int) ([]timerecord.TimeRecord, error) {
	var out []timerecord.TimeRecord
	for _, r := range f.sorted() {
		if _, _, ok := SplitOvernight(r); ok {
			out = append(out, r)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) sorted() []timerecord.TimeRecord {
	out := make([]timerecord.TimeRecord, 0, len(f.records))
	for _, r := range f.records {
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

// fakeTransactor restores the repository snapshot when fn fails.
type fakeTransactor struct {
	repo    *fakeRecordRepo
	commits int
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[string]timerecord.TimeRecord, len(t.repo.records))
	for k, v := range t.repo.records {
		snapshot[k] = v
	}
	if err := fn(ctx); err != nil {
		t.repo.records = snapshot
		return err
	}
	t.commits++
	return nil
}

var errBoom = errors.New("boom")
