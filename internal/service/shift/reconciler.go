package shift

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/clock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconcileResult reports what ReconcileOnWrite stored.
type ReconcileResult struct {
	Record       timerecord.TimeRecord
	Continuation *timerecord.TimeRecord
	Split        bool
}

// Reconciler keeps stored records inside a single civil day by splitting
// shifts that cross midnight.
type Reconciler struct {
	timerecord.TimeRecordRepository
	tx timerecord.Transactor
}

func NewReconciler(repo timerecord.TimeRecordRepository, tx timerecord.Transactor) *Reconciler {
	return &Reconciler{TimeRecordRepository: repo, tx: tx}
}

// ReconcileOnWrite splits rec when it crosses midnight. The closing update and
// the continuation insert commit together or not at all. rec must already be
// stored.
func (r *Reconciler) ReconcileOnWrite(ctx context.Context, rec timerecord.TimeRecord) (ReconcileResult, error) {
	closed, continuation, ok := SplitOvernight(rec)
	if !ok {
		return ReconcileResult{Record: rec}, nil
	}

	result := ReconcileResult{Record: closed, Split: true}
	err := r.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := r.TimeRecordRepository.Update(txCtx, closed); err != nil {
			return fmt.Errorf("failed to close overnight record: %w", err)
		}

		if continuation == nil {
			return nil
		}

		created, err := r.TimeRecordRepository.Create(txCtx, *continuation)
		if err != nil {
			return fmt.Errorf("failed to create continuation record: %w", err)
		}
		result.Continuation = &created
		return nil
	})
	if err != nil {
		return ReconcileResult{}, err
	}

	slog.Info("overnight record split",
		"record_id", rec.ID,
		"employee_id", rec.EmployeeID,
		"date", calendar.Key(rec.Date),
		"continuation_created", result.Continuation != nil,
	)

	return result, nil
}

// ReconcileCorrection re-splits a corrected record. prior is the continuation
// stored for it before the correction, if any: it is rewritten or removed so a
// pair never gains a second continuation or keeps a stale one.
func (r *Reconciler) ReconcileCorrection(ctx context.Context, rec timerecord.TimeRecord, prior *timerecord.TimeRecord) (ReconcileResult, error) {
	if prior == nil {
		return r.ReconcileOnWrite(ctx, rec)
	}

	closed, continuation, ok := SplitOvernight(rec)
	result := ReconcileResult{Record: rec}
	if ok {
		result = ReconcileResult{Record: closed, Split: true}
	}

	err := r.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if ok {
			if err := r.TimeRecordRepository.Update(txCtx, closed); err != nil {
				return fmt.Errorf("failed to close overnight record: %w", err)
			}
		}

		if continuation == nil {
			if _, err := r.TimeRecordRepository.DeleteBulk(txCtx, []string{prior.ID}, prior.CompanyID); err != nil {
				return fmt.Errorf("failed to remove stale continuation record: %w", err)
			}
			return nil
		}

		updated := *prior
		updated.ClockOut = continuation.ClockOut
		updated.DayStatus = continuation.DayStatus
		updated.DepartmentID = continuation.DepartmentID
		if err := r.TimeRecordRepository.Update(txCtx, updated); err != nil {
			return fmt.Errorf("failed to update continuation record: %w", err)
		}
		result.Continuation = &updated
		return nil
	})
	if err != nil {
		return ReconcileResult{}, err
	}

	slog.Info("overnight record corrected",
		"record_id", rec.ID,
		"continuation_id", prior.ID,
		"continuation_kept", result.Continuation != nil,
	)

	return result, nil
}

// Continuation returns the stored next-day half of head, or nil when head was
// not closed at end of day or nothing continues it.
func (r *Reconciler) Continuation(ctx context.Context, head timerecord.TimeRecord) (*timerecord.TimeRecord, error) {
	if !ClosedAtEndOfDay(head) {
		return nil, nil
	}
	next, err := r.TimeRecordRepository.ListByEmployeeAndRange(ctx, head.EmployeeID,
		calendar.AddDays(head.Date, 1), calendar.AddDays(head.Date, 1), head.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up continuation record: %w", err)
	}
	for _, rec := range next {
		if rec.ID != head.ID && StartsAtMidnight(rec) {
			return &rec, nil
		}
	}
	return nil, nil
}

// Head returns the stored previous-day half that tail continues, or nil.
func (r *Reconciler) Head(ctx context.Context, tail timerecord.TimeRecord) (*timerecord.TimeRecord, error) {
	if !StartsAtMidnight(tail) {
		return nil, nil
	}
	prev, err := r.TimeRecordRepository.ListByEmployeeAndRange(ctx, tail.EmployeeID,
		calendar.AddDays(tail.Date, -1), calendar.AddDays(tail.Date, -1), tail.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up head record: %w", err)
	}
	for _, rec := range prev {
		if rec.ID != tail.ID && ClosedAtEndOfDay(rec) {
			return &rec, nil
		}
	}
	return nil, nil
}

// ClosedAtEndOfDay reports whether rec was closed at 23:59:59 by a split.
func ClosedAtEndOfDay(rec timerecord.TimeRecord) bool {
	return rec.ClockIn != nil && rec.ClockOut != nil && isOffset(*rec.ClockOut, clock.EndOfDay)
}

// StartsAtMidnight reports whether rec looks like the continuation of a split.
func StartsAtMidnight(rec timerecord.TimeRecord) bool {
	return rec.ClockIn != nil && rec.ClockOut != nil && isOffset(*rec.ClockIn, clock.StartOfDay)
}

func isOffset(s, want string) bool {
	d, err := clock.ParseTimeOfDay(s)
	return err == nil && d == clock.MustParseTimeOfDay(want)
}

// SplitOvernight decides whether rec crosses midnight and builds the closed
// record and its next-day continuation. A clock-out at exactly midnight leaves
// nothing for the next day, so continuation is nil in that case.
func SplitOvernight(rec timerecord.TimeRecord) (closed timerecord.TimeRecord, continuation *timerecord.TimeRecord, ok bool) {
	if !rec.HasClockTimes() || !rec.DayStatus.IsPresence() {
		return rec, nil, false
	}

	in, err := clock.ParseTimeOfDay(*rec.ClockIn)
	if err != nil {
		logUnparsable(rec, err)
		return rec, nil, false
	}
	out, err := clock.ParseTimeOfDay(*rec.ClockOut)
	if err != nil {
		logUnparsable(rec, err)
		return rec, nil, false
	}

	endOfDay := clock.MustParseTimeOfDay(clock.EndOfDay)
	if out > in || out == endOfDay {
		return rec, nil, false
	}

	closed = rec
	closeAt := clock.EndOfDay
	closed.ClockOut = &closeAt

	if out == 0 {
		return closed, nil, true
	}

	startAt := clock.StartOfDay
	originalOut := *rec.ClockOut
	continuation = &timerecord.TimeRecord{
		ID:            uuid.Must(uuid.NewV7()).String(),
		EmployeeID:    rec.EmployeeID,
		CompanyID:     rec.CompanyID,
		Date:          calendar.AddDays(rec.Date, 1),
		ClockIn:       &startAt,
		ClockOut:      &originalOut,
		DayStatus:     rec.DayStatus,
		Validated:     rec.Validated,
		OvertimeHours: decimal.Zero,
		DepartmentID:  rec.DepartmentID,
	}

	return closed, continuation, true
}

func logUnparsable(rec timerecord.TimeRecord, err error) {
	slog.Warn("skipping reconciliation of record with unparsable time",
		"record_id", rec.ID,
		"employee_id", rec.EmployeeID,
		"date", calendar.Key(rec.Date),
		"error", err,
	)
}
