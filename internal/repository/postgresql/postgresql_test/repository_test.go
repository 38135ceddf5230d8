package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/service/shift"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

func seedEmployee(t *testing.T, setup *TestDatabaseSetup, companyID, contractType, role string) string {
	t.Helper()
	ctx := context.Background()

	positionID := newID()
	_, err := setup.DB.Exec(ctx, `INSERT INTO positions (id, name) VALUES ($1, $2)`, positionID, role)
	require.NoError(t, err)

	id := newID()
	_, err = setup.DB.Exec(ctx, `
		INSERT INTO employees (id, company_id, full_name, employee_code, employment_type, position_id, hire_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, companyID, "Test "+role, "EMP-"+id[:8], contractType, positionID, date("2024-01-15"))
	require.NoError(t, err)
	return id
}

func TestEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	companyID := newID()
	permanentID := seedEmployee(t, setup, companyID, "permanent", "Engineer")
	oddID := seedEmployee(t, setup, companyID, "freelance", "Designer")

	t.Run("get by id", func(t *testing.T) {
		emp, err := repo.GetByID(ctx, permanentID, companyID)
		require.NoError(t, err)
		assert.Equal(t, employee.ContractTypePermanent, emp.ContractType)
		assert.Equal(t, "Engineer", emp.Role)
		assert.True(t, emp.IsActive())
	})

	t.Run("unknown contract type falls back to permanent", func(t *testing.T) {
		emp, err := repo.GetByID(ctx, oddID, companyID)
		require.NoError(t, err)
		assert.Equal(t, employee.ContractTypePermanent, emp.ContractType)
	})

	t.Run("other company is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, permanentID, newID())
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("roster", func(t *testing.T) {
		roster, err := repo.ListRoster(ctx, companyID)
		require.NoError(t, err)
		assert.Len(t, roster, 2)
	})
}

func TestTimeRecordRepository_SplitOnWrite(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	companyID := newID()
	employeeID := seedEmployee(t, setup, companyID, "permanent", "Operator")

	repo := postgresql.NewTimeRecordRepository(setup.DB)
	reconciler := shift.NewReconciler(repo, postgresql.NewTransactor(setup.DB))

	created, err := repo.Create(ctx, timerecord.TimeRecord{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Date:       date("2025-06-10"),
		ClockIn:    strPtr("22:00"),
		ClockOut:   strPtr("06:00"),
		DayStatus:  timerecord.DayStatusPresent,
	})
	require.NoError(t, err)

	res, err := reconciler.ReconcileOnWrite(ctx, created)
	require.NoError(t, err)
	require.True(t, res.Split)

	records, err := repo.ListByEmployeeAndRange(ctx, employeeID, date("2025-06-10"), date("2025-06-11"), companyID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "22:00:00", *records[0].ClockIn)
	assert.Equal(t, "23:59:59", *records[0].ClockOut)
	assert.Equal(t, "00:00:00", *records[1].ClockIn)
	assert.Equal(t, "06:00:00", *records[1].ClockOut)

	pending, err := repo.ListUnsplitOvernight(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	deleted, err := repo.DeleteBulk(ctx, []string{records[0].ID, records[1].ID}, companyID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	_, err = repo.GetByID(ctx, records[0].ID, companyID)
	assert.ErrorIs(t, err, timerecord.ErrTimeRecordNotFound)
}

func TestLeaveRequestRepository_ListApprovedOverlapping(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	companyID := newID()
	employeeID := seedEmployee(t, setup, companyID, "temporary", "Operator")

	insert := func(kind leave.RequestType, status leave.RequestStatus, start string, end *time.Time) {
		_, err := setup.DB.Exec(ctx, `
			INSERT INTO leave_requests (id, employee_id, request_type, start_date, end_date, status)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, newID(), employeeID, string(kind), date(start), end, string(status))
		require.NoError(t, err)
	}

	end := date("2025-06-12")
	insert(leave.TypePaidLeave, leave.StatusApproved, "2025-06-09", &end)
	insert(leave.TypeSickLeave, leave.StatusPending, "2025-06-10", nil)
	insert(leave.TypeWorkCertificate, leave.StatusApproved, "2025-06-30", nil)

	repo := postgresql.NewLeaveRequestRepository(setup.DB)

	requests, err := repo.ListApprovedOverlapping(ctx, companyID, date("2025-06-10"), date("2025-06-20"))
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, leave.TypePaidLeave, requests[0].Type)
	assert.True(t, requests[0].Covers(date("2025-06-11")))

	year, err := repo.ListByEmployeeForYear(ctx, employeeID, 2025, companyID)
	require.NoError(t, err)
	assert.Len(t, year, 3)
}
