// Package app wires repositories and services for the API server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/config"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/repository/postgresql"
	leaveService "github.com/cmlabs-hris/hris-timesheet-go/internal/service/leave"
	reportService "github.com/cmlabs-hris/hris-timesheet-go/internal/service/report"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/service/shift"
	timeRecordService "github.com/cmlabs-hris/hris-timesheet-go/internal/service/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/service/worktime"
)

type App struct {
	Config *config.Config
	DB     *database.DB

	TimeRecords timerecord.TimeRecordService
	Leaves      leave.LeaveService
	Reports     report.ReportService
	Reconcile   *cron.ReconcileJobs
}

// InitLogger installs the default JSON logger at the configured level.
func InitLogger(cfg *config.Config) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", cfg.App.Name)))
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	cutoffs, err := shift.ParseCutoffs(cfg.Engine.MergeEndAfter, cfg.Engine.MergeStartBefore)
	if err != nil {
		return nil, err
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	timeRecordRepo := postgresql.NewTimeRecordRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	transactor := postgresql.NewTransactor(db)

	policies := cfg.Policies()
	aggregator := worktime.NewPeriodAggregator(policies, cutoffs)
	accrual := leaveService.NewAccrualCalculator(policies, nil)

	return &App{
		Config:      cfg,
		DB:          db,
		TimeRecords: timeRecordService.NewTimeRecordService(timeRecordRepo, employeeRepo, holidayRepo, leaveRequestRepo, transactor, aggregator),
		Leaves:      leaveService.NewLeaveService(leaveRequestRepo, employeeRepo, accrual),
		Reports:     reportService.NewReportService(timeRecordRepo, employeeRepo, holidayRepo, leaveRequestRepo, aggregator, accrual, nil),
		Reconcile:   cron.NewReconcileJobs(timeRecordRepo, transactor, cfg.Cron.SweepBatch),
	}, nil
}

func (a *App) Close() {
	a.DB.Close()
}
