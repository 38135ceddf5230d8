package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/app"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-timesheet-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	app.InitLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	timeRecordHandler := appHTTP.NewTimeRecordHandler(application.TimeRecords)
	leaveHandler := appHTTP.NewLeaveHandler(application.Leaves)
	reportHandler := appHTTP.NewReportHandler(application.Reports)

	router := appHTTP.NewRouter(cfg.App, JWTService, timeRecordHandler, leaveHandler, reportHandler)

	scheduler := cron.NewScheduler()
	if cfg.Cron.Enabled {
		if err := application.Reconcile.RegisterJobs(scheduler, cfg.Cron.ReconcileSpec); err != nil {
			slog.Error("failed to schedule reconcile job", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	if cfg.Cron.Enabled {
		scheduler.Stop()
	}
}
