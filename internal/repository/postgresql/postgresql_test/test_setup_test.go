package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/database"
)

// schema is the subset of the HRIS schema the timesheet engine reads.
const schema = `
CREATE TABLE IF NOT EXISTS positions (
	id   UUID PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS employees (
	id                UUID PRIMARY KEY,
	company_id        UUID NOT NULL,
	full_name         TEXT NOT NULL,
	employee_code     TEXT NOT NULL,
	employment_type   TEXT NOT NULL,
	position_id       UUID REFERENCES positions(id),
	hire_date         DATE,
	department_id     UUID,
	employment_status TEXT NOT NULL DEFAULT 'active',
	resignation_date  DATE,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	deleted_at        TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS time_records (
	id             UUID PRIMARY KEY,
	employee_id    UUID NOT NULL REFERENCES employees(id),
	company_id     UUID NOT NULL,
	date           DATE NOT NULL,
	clock_in       TIME,
	clock_out      TIME,
	day_status     TEXT NOT NULL,
	validated      BOOLEAN NOT NULL DEFAULT FALSE,
	overtime_hours NUMERIC(6,2) NOT NULL DEFAULT 0,
	department_id  UUID,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS leave_requests (
	id           UUID PRIMARY KEY,
	employee_id  UUID NOT NULL REFERENCES employees(id),
	request_type TEXT NOT NULL,
	start_date   DATE NOT NULL,
	end_date     DATE,
	status       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS holidays (
	id         UUID PRIMARY KEY,
	company_id UUID NOT NULL,
	date       DATE NOT NULL,
	name       TEXT NOT NULL,
	active     BOOLEAN NOT NULL DEFAULT TRUE
);
`

// TestDatabaseSetup holds a connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and skips the test when it is
// not set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		t.Fatalf("failed to create schema: %v", err)
	}
	if err := setup.TruncateAllTables(ctx); err != nil {
		db.Close()
		t.Fatalf("%v", err)
	}

	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row written by a previous run.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"time_records",
		"leave_requests",
		"holidays",
		"employees",
		"positions",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close releases the pool.
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
