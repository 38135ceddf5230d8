package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/service/shift"
)

const defaultSweepBatch = 200

// SweepResult counts what one overnight sweep did.
type SweepResult struct {
	Scanned int
	Split   int
	Failed  int
}

// ReconcileJobs splits overnight rows that were stored without going through
// the write path, e.g. rows imported before splitting existed.
type ReconcileJobs struct {
	records    timerecord.TimeRecordRepository
	reconciler *shift.Reconciler
	batchSize  int
}

func NewReconcileJobs(records timerecord.TimeRecordRepository, tx timerecord.Transactor, batchSize int) *ReconcileJobs {
	if batchSize <= 0 {
		batchSize = defaultSweepBatch
	}
	return &ReconcileJobs{
		records:    records,
		reconciler: shift.NewReconciler(records, tx),
		batchSize:  batchSize,
	}
}

func (j *ReconcileJobs) RegisterJobs(scheduler *Scheduler, spec string) error {
	return scheduler.AddJob("reconcile_overnight_records", spec, func(ctx context.Context) error {
		_, err := j.SweepOvernight(ctx)
		return err
	})
}

// SweepOvernight reconciles batches until none is left. It stops early when a
// whole batch fails, since the same rows would come back on the next read.
func (j *ReconcileJobs) SweepOvernight(ctx context.Context) (SweepResult, error) {
	slog.Info("Cron: Starting overnight reconcile sweep")

	var result SweepResult
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		batch, err := j.records.ListUnsplitOvernight(ctx, j.batchSize)
		if err != nil {
			return result, fmt.Errorf("failed to list unsplit overnight records: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		progressed := false
		for _, rec := range batch {
			result.Scanned++
			res, err := j.reconciler.ReconcileOnWrite(ctx, rec)
			if err != nil {
				result.Failed++
				slog.Error("Cron: Failed to reconcile overnight record",
					"record_id", rec.ID,
					"employee_id", rec.EmployeeID,
					"date", calendar.Key(rec.Date),
					"error", err,
				)
				continue
			}
			if res.Split {
				metrics.RecordSplit(metrics.SourceSweep)
				result.Split++
				progressed = true
			}
		}

		if !progressed {
			break
		}
	}

	metrics.RecordSweep(result.Split, result.Failed)
	slog.Info("Cron: Overnight reconcile sweep finished",
		"scanned", result.Scanned,
		"split", result.Split,
		"failed", result.Failed,
	)
	return result, nil
}
