package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/app"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	open := func(ctx context.Context, batch int) (*backend, func(), error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		if batch > 0 {
			cfg.Cron.SweepBatch = batch
		}
		app.InitLogger(cfg)

		application, err := app.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return &backend{
			Reports: application.Reports,
			Sweeper: application.Reconcile,
		}, application.Close, nil
	}

	if err := newRootCmd(open).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
