package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const timeRecordColumns = `
	id, employee_id, company_id, date, clock_in::text, clock_out::text,
	day_status, validated, overtime_hours::text, department_id,
	created_at, updated_at`

type timeRecordRepository struct {
	db *database.DB
}

func NewTimeRecordRepository(db *database.DB) timerecord.TimeRecordRepository {
	return &timeRecordRepository{db: db}
}

func scanTimeRecord(row pgx.Row) (timerecord.TimeRecord, error) {
	var (
		r        timerecord.TimeRecord
		status   string
		overtime string
	)
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.CompanyID, &r.Date, &r.ClockIn, &r.ClockOut,
		&status, &r.Validated, &overtime, &r.DepartmentID,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return timerecord.TimeRecord{}, err
	}

	r.DayStatus = timerecord.DayStatus(status)
	if !r.DayStatus.IsValid() {
		slog.Warn("unknown day status, treating as unmarked", "record_id", r.ID, "day_status", status)
		r.DayStatus = timerecord.DayStatusUnmarked
	}
	r.OvertimeHours, err = decimal.NewFromString(overtime)
	if err != nil {
		return timerecord.TimeRecord{}, fmt.Errorf("failed to parse overtime hours %q: %w", overtime, err)
	}
	return r, nil
}

// Create implements timerecord.TimeRecordRepository.
func (t *timeRecordRepository) Create(ctx context.Context, record timerecord.TimeRecord) (timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, t.db)

	if record.ID == "" {
		record.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO time_records (
			id, employee_id, company_id, date, clock_in, clock_out,
			day_status, validated, overtime_hours, department_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.CompanyID,
		record.Date,
		record.ClockIn,
		record.ClockOut,
		string(record.DayStatus),
		record.Validated,
		record.OvertimeHours.String(),
		record.DepartmentID,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return timerecord.TimeRecord{}, fmt.Errorf("failed to create time record: %w", err)
	}

	return record, nil
}

// Update implements timerecord.TimeRecordRepository.
func (t *timeRecordRepository) Update(ctx context.Context, record timerecord.TimeRecord) error {
	q := GetQuerier(ctx, t.db)

	query := `
		UPDATE time_records
		SET clock_in = $1, clock_out = $2, day_status = $3, validated = $4,
			overtime_hours = $5, department_id = $6, updated_at = NOW()
		WHERE id = $7 AND company_id = $8
	`

	tag, err := q.Exec(ctx, query,
		record.ClockIn,
		record.ClockOut,
		string(record.DayStatus),
		record.Validated,
		record.OvertimeHours.String(),
		record.DepartmentID,
		record.ID,
		record.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update time record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timerecord.ErrTimeRecordNotFound
	}

	return nil
}

// GetByID implements timerecord.TimeRecordRepository.
func (t *timeRecordRepository) GetByID(ctx context.Context, id string, companyID string) (timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, t.db)

	query := `SELECT ` + timeRecordColumns + `
		FROM time_records
		WHERE id = $1 AND company_id = $2
	`

	r, err := scanTimeRecord(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timerecord.TimeRecord{}, timerecord.ErrTimeRecordNotFound
		}
		return timerecord.TimeRecord{}, fmt.Errorf("failed to get time record: %w", err)
	}

	return r, nil
}

// DeleteBulk implements timerecord.TimeRecordRepository.
func (t *timeRecordRepository) DeleteBulk(ctx context.Context, ids []string, companyID string) (int64, error) {
	q := GetQuerier(ctx, t.db)

	tag, err := q.Exec(ctx, `DELETE FROM time_records WHERE id = ANY($1) AND company_id = $2`, ids, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete time records: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ListByEmployeeAndRange implements timerecord.TimeRecordRepository.
func (t *timeRecordRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time, companyID string) ([]timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, t.db)

	query := `SELECT ` + timeRecordColumns + `
		FROM time_records
		WHERE employee_id = $1 AND company_id = $2 AND date BETWEEN $3 AND $4
		ORDER BY date, clock_in NULLS FIRST, id
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list time records: %w", err)
	}
	defer rows.Close()

	var records []timerecord.TimeRecord
	for rows.Next() {
		r, err := scanTimeRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time records: %w", err)
	}

	return records, nil
}

// StreamByCompanyAndRange implements timerecord.TimeRecordRepository.
func (t *timeRecordRepository) StreamByCompanyAndRange(ctx context.Context, companyID string, start, end time.Time, fn func(timerecord.TimeRecord) error) error {
	q := GetQuerier(ctx, t.db)

	query := `SELECT ` + timeRecordColumns + `
		FROM time_records
		WHERE company_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY employee_id, date, clock_in NULLS FIRST, id
	`

	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return fmt.Errorf("failed to stream time records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanTimeRecord(rows)
		if err != nil {
			return fmt.Errorf("failed to scan time record: %w", err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}

	return rows.Err()
}

// ListUnsplitOvernight implements timerecord.TimeRecordRepository.
func (t *timeRecordRepository) ListUnsplitOvernight(ctx context.Context, limit int) ([]timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, t.db)

	query := `SELECT ` + timeRecordColumns + `
		FROM time_records
		WHERE day_status IN ('present', 'late')
		  AND clock_in IS NOT NULL
		  AND clock_out IS NOT NULL
		  AND clock_out <= clock_in
		  AND clock_out <> TIME '23:59:59'
		ORDER BY date, id
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsplit overnight records: %w", err)
	}
	defer rows.Close()

	var records []timerecord.TimeRecord
	for rows.Next() {
		r, err := scanTimeRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unsplit overnight records: %w", err)
	}

	return records, nil
}
