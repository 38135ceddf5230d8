package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/export"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

const appVersion = "1.0.0"

type sweeper interface {
	SweepOvernight(ctx context.Context) (cron.SweepResult, error)
}

type backend struct {
	Reports report.ReportService
	Sweeper sweeper
}

// opener connects to the backend. batch overrides the sweep batch size when
// positive. The returned func releases the connection.
type opener func(ctx context.Context, batch int) (*backend, func(), error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "timesheet",
		Short:         "Timesheet reports and maintenance",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newPeriodCmd(open), newLeaveBalanceCmd(open), newReconcileCmd(open))
	return root
}

func newPeriodCmd(open opener) *cobra.Command {
	var (
		companyID string
		format    string
		outPath   string
		req       report.PeriodReportRequest
	)

	cmd := &cobra.Command{
		Use:   "period",
		Short: "Print the period report of a company as JSON, or export it as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return err
			}

			var exportFormat export.Format
			if format != "json" {
				f, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				if f == export.FormatXLSX && outPath == "" {
					return fmt.Errorf("--out is required for xlsx output")
				}
				exportFormat = f
			}

			ctx, err := jwt.WithCompany(cmd.Context(), companyID, user.RoleService)
			if err != nil {
				return err
			}

			b, closeFn, err := open(ctx, 0)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := b.Reports.GeneratePeriodReport(ctx, req)
			if err != nil {
				return err
			}
			if exportFormat == "" {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			data, err := export.PeriodReport(exportFormat, result)
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company ID")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, csv or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the export to this file instead of stdout")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "First day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "Last day of the period (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&req.IncludeDays, "include-days", false, "Include the per-day breakdown")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newLeaveBalanceCmd(open opener) *cobra.Command {
	var (
		companyID string
		req       report.LeaveBalanceReportRequest
	)

	cmd := &cobra.Command{
		Use:   "leave-balance",
		Short: "Print the paid-leave balance of every active employee as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return err
			}

			ctx, err := jwt.WithCompany(cmd.Context(), companyID, user.RoleService)
			if err != nil {
				return err
			}

			b, closeFn, err := open(ctx, 0)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := b.Reports.GenerateLeaveBalanceReport(ctx, req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company ID")
	cmd.Flags().IntVar(&req.Year, "year", 0, "Reference year")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newReconcileCmd(open opener) *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Split stored overnight records that were never reconciled",
		RunE: func(cmd *cobra.Command, args []string) error {
			if batch < 0 {
				return fmt.Errorf("--batch must not be negative")
			}

			b, closeFn, err := open(cmd.Context(), batch)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := b.Sweeper.SweepOvernight(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d split=%d failed=%d\n", result.Scanned, result.Split, result.Failed)
			return err
		},
	}

	cmd.Flags().IntVar(&batch, "batch", 0, "Records per batch (0 keeps the configured size)")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
