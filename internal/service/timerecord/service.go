package timerecord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/service/shift"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/service/worktime"
	"github.com/shopspring/decimal"
)

type TimeRecordServiceImpl struct {
	timerecord.TimeRecordRepository
	employees  employee.EmployeeRepository
	holidays   holiday.HolidayRepository
	leaves     leave.LeaveRequestRepository
	tx         timerecord.Transactor
	reconciler *shift.Reconciler
	aggregator *worktime.PeriodAggregator
}

func NewTimeRecordService(
	recordRepo timerecord.TimeRecordRepository,
	employeeRepo employee.EmployeeRepository,
	holidayRepo holiday.HolidayRepository,
	leaveRepo leave.LeaveRequestRepository,
	tx timerecord.Transactor,
	aggregator *worktime.PeriodAggregator,
) timerecord.TimeRecordService {
	return &TimeRecordServiceImpl{
		TimeRecordRepository: recordRepo,
		employees:            employeeRepo,
		holidays:             holidayRepo,
		leaves:               leaveRepo,
		tx:                   tx,
		reconciler:           shift.NewReconciler(recordRepo, tx),
		aggregator:           aggregator,
	}
}

// Capture implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) Capture(ctx context.Context, req timerecord.CreateTimeRecordRequest) (timerecord.CaptureResponse, error) {
	if err := req.Validate(); err != nil {
		return timerecord.CaptureResponse{}, err
	}

	companyID, err := jwt.CompanyID(ctx)
	if err != nil {
		return timerecord.CaptureResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return timerecord.CaptureResponse{}, err
	}

	departmentID := req.DepartmentID
	if departmentID == nil {
		departmentID = emp.DepartmentID
	}

	record := timerecord.TimeRecord{
		EmployeeID:    emp.ID,
		CompanyID:     companyID,
		Date:          req.ParsedDate(),
		ClockIn:       req.ClockIn,
		ClockOut:      req.ClockOut,
		DayStatus:     timerecord.DayStatus(req.DayStatus),
		OvertimeHours: decimal.Zero,
		DepartmentID:  departmentID,
	}

	var result shift.ReconcileResult
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err := s.TimeRecordRepository.Create(txCtx, record)
		if err != nil {
			return err
		}
		result, err = s.reconciler.ReconcileOnWrite(txCtx, created)
		return err
	})
	if err != nil {
		return timerecord.CaptureResponse{}, fmt.Errorf("failed to capture time record: %w", err)
	}

	slog.Info("time record captured",
		"record_id", result.Record.ID,
		"employee_id", result.Record.EmployeeID,
		"date", calendar.Key(result.Record.Date),
		"split", result.Split,
	)
	if result.Split {
		metrics.RecordSplit(metrics.SourceWrite)
	}

	return newCaptureResponse(result), nil
}

// Correct implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) Correct(ctx context.Context, req timerecord.UpdateTimeRecordRequest) (timerecord.CaptureResponse, error) {
	if err := req.Validate(); err != nil {
		return timerecord.CaptureResponse{}, err
	}

	companyID, err := jwt.CompanyID(ctx)
	if err != nil {
		return timerecord.CaptureResponse{}, err
	}

	var result shift.ReconcileResult
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		record, err := s.TimeRecordRepository.GetByID(txCtx, req.ID, companyID)
		if err != nil {
			return err
		}
		if record.Validated {
			return timerecord.ErrAlreadyValidated
		}

		head, err := s.reconciler.Head(txCtx, record)
		if err != nil {
			return err
		}
		if head != nil {
			return s.correctContinuation(txCtx, record, req, &result)
		}

		prior, err := s.reconciler.Continuation(txCtx, record)
		if err != nil {
			return err
		}
		if prior != nil {
			if prior.Validated {
				return timerecord.ErrAlreadyValidated
			}
			// The stored 23:59:59 is the split point; the shift really ends
			// where its continuation does.
			record.ClockOut = prior.ClockOut
		}

		if req.ClockIn != nil {
			record.ClockIn = req.ClockIn
		}
		if req.ClockOut != nil {
			record.ClockOut = req.ClockOut
		}
		if req.DayStatus != nil {
			record.DayStatus = timerecord.DayStatus(*req.DayStatus)
		}
		if record.ClockOut != nil && record.ClockIn == nil {
			return validator.ValidationErrors{{
				Field:   "clock_in",
				Message: "clock_in is required when clock_out is set",
			}}
		}

		if err := s.TimeRecordRepository.Update(txCtx, record); err != nil {
			return err
		}
		result, err = s.reconciler.ReconcileCorrection(txCtx, record, prior)
		return err
	})
	if err != nil {
		return timerecord.CaptureResponse{}, err
	}

	slog.Info("time record corrected",
		"record_id", result.Record.ID,
		"employee_id", result.Record.EmployeeID,
		"split", result.Split,
	)
	if result.Split {
		metrics.RecordSplit(metrics.SourceWrite)
	}

	return newCaptureResponse(result), nil
}

// correctContinuation edits the next-day half of a split shift. Only its
// clock-out may move, and it stays after midnight so the pair holds.
func (s *TimeRecordServiceImpl) correctContinuation(ctx context.Context, record timerecord.TimeRecord, req timerecord.UpdateTimeRecordRequest, result *shift.ReconcileResult) error {
	if req.ClockIn != nil || req.DayStatus != nil {
		return validator.ValidationErrors{{
			Field:   "clock_in",
			Message: "the continuation of an overnight shift only accepts a clock_out correction; correct the previous day's record instead",
		}}
	}
	if req.ClockOut != nil {
		out, err := clock.ParseTimeOfDay(*req.ClockOut)
		if err != nil || out == 0 {
			return validator.ValidationErrors{{
				Field:   "clock_out",
				Message: "clock_out of an overnight continuation must be after 00:00",
			}}
		}
		record.ClockOut = req.ClockOut
	}

	if err := s.TimeRecordRepository.Update(ctx, record); err != nil {
		return err
	}
	*result = shift.ReconcileResult{Record: record}
	return nil
}

// Validate implements timerecord.TimeRecordService. The record is stamped with
// the overtime of the day it is attributed to.
func (s *TimeRecordServiceImpl) Validate(ctx context.Context, id string) (timerecord.TimeRecordResponse, error) {
	if !validator.IsValidUUID(id) {
		return timerecord.TimeRecordResponse{}, validator.ValidationErrors{{
			Field:   "id",
			Message: "id must be a valid UUID",
		}}
	}

	companyID, err := jwt.CompanyID(ctx)
	if err != nil {
		return timerecord.TimeRecordResponse{}, err
	}

	record, err := s.TimeRecordRepository.GetByID(ctx, id, companyID)
	if err != nil {
		return timerecord.TimeRecordResponse{}, err
	}
	if record.Validated {
		return timerecord.TimeRecordResponse{}, timerecord.ErrAlreadyValidated
	}
	if record.DayStatus.IsPresence() && !record.HasClockTimes() {
		return timerecord.TimeRecordResponse{}, timerecord.ErrIncompleteValidation
	}

	overtime, err := s.dayOvertime(ctx, record)
	if err != nil {
		return timerecord.TimeRecordResponse{}, err
	}

	record.Validated = true
	record.OvertimeHours = overtime
	if err := s.TimeRecordRepository.Update(ctx, record); err != nil {
		return timerecord.TimeRecordResponse{}, err
	}

	return timerecord.NewTimeRecordResponse(record), nil
}

// dayOvertime runs the engine over the single day of record. Permanent staff
// only fill OvertimeHours and temporary staff only the premium buckets, so the
// sum is the day's overtime under either regime.
func (s *TimeRecordServiceImpl) dayOvertime(ctx context.Context, record timerecord.TimeRecord) (decimal.Decimal, error) {
	emp, err := s.employees.GetByID(ctx, record.EmployeeID, record.CompanyID)
	if err != nil {
		return decimal.Zero, err
	}

	holidays, err := s.holidays.ListActiveInRange(ctx, record.CompanyID, record.Date, record.Date)
	if err != nil {
		return decimal.Zero, err
	}
	period := worktime.NewPeriod(record.Date, record.Date, holidays)

	from, to := period.FetchRange()
	records, err := s.TimeRecordRepository.ListByEmployeeAndRange(ctx, emp.ID, from, to, record.CompanyID)
	if err != nil {
		return decimal.Zero, err
	}

	leaves, err := s.leaves.ListApprovedOverlapping(ctx, record.CompanyID, record.Date, record.Date)
	if err != nil {
		return decimal.Zero, err
	}

	totals, ok := s.aggregator.Employee(period, emp, records, leaves)
	if !ok {
		return decimal.Zero, nil
	}
	return totals.OvertimeHours.Add(totals.Premium25Hours).Add(totals.Premium50Hours), nil
}

// DeleteBulk implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) DeleteBulk(ctx context.Context, req timerecord.BulkDeleteRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	companyID, err := jwt.CompanyID(ctx)
	if err != nil {
		return 0, err
	}

	var deleted int64
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		ids, err := s.withSplitPartners(txCtx, req.IDs, companyID)
		if err != nil {
			return err
		}
		deleted, err = s.TimeRecordRepository.DeleteBulk(txCtx, ids, companyID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete time records: %w", err)
	}
	if deleted == 0 {
		return 0, timerecord.ErrNoRecordsDeleted
	}

	slog.Info("time records deleted", "company_id", companyID, "requested", len(req.IDs), "deleted", deleted)
	return deleted, nil
}

// withSplitPartners adds the other half of every split shift in ids so a pair
// is always deleted together. Unknown IDs are passed through.
func (s *TimeRecordServiceImpl) withSplitPartners(ctx context.Context, ids []string, companyID string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, id := range ids {
		add(id)

		record, err := s.TimeRecordRepository.GetByID(ctx, id, companyID)
		if errors.Is(err, timerecord.ErrTimeRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		partner, err := s.reconciler.Continuation(ctx, record)
		if err != nil {
			return nil, err
		}
		if partner == nil {
			if partner, err = s.reconciler.Head(ctx, record); err != nil {
				return nil, err
			}
		}
		if partner != nil {
			add(partner.ID)
		}
	}
	return out, nil
}

func newCaptureResponse(r shift.ReconcileResult) timerecord.CaptureResponse {
	resp := timerecord.CaptureResponse{
		Record: timerecord.NewTimeRecordResponse(r.Record),
		Split:  r.Split,
	}
	if r.Continuation != nil {
		c := timerecord.NewTimeRecordResponse(*r.Continuation)
		resp.Continuation = &c
	}
	return resp
}
