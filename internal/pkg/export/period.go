// Package export renders period reports as spreadsheet downloads.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported export format (use csv or xlsx)")

func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename names the download after the period bounds.
func (f Format) Filename(r report.PeriodReport) string {
	return fmt.Sprintf("timesheet_%s_%s.%s", r.PeriodStart, r.PeriodEnd, f)
}

var employeeHeader = []string{
	"employee_id", "employee_code", "employee_name", "regime",
	"days_worked", "days_absent", "recuperation_days", "leave_days", "sick_days", "presence_only_days",
	"hours_worked", "normal_hours", "overtime_hours", "premium_25_hours", "premium_50_hours", "night_hours",
}

var departmentHeader = []string{
	"department_id", "employees", "days_worked", "days_absent",
	"hours_worked", "normal_hours", "overtime_hours", "premium_25_hours", "premium_50_hours",
}

func PeriodReport(f Format, r report.PeriodReport) ([]byte, error) {
	switch f {
	case FormatCSV:
		return periodCSV(r)
	case FormatXLSX:
		return periodXLSX(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

func periodCSV(r report.PeriodReport) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(employeeHeader)
	for _, e := range r.Employees {
		_ = w.Write([]string{
			e.EmployeeID, e.EmployeeCode, e.EmployeeName, e.Regime,
			strconv.Itoa(e.DaysWorked), strconv.Itoa(e.DaysAbsent), strconv.Itoa(e.RecuperationDays),
			strconv.Itoa(e.LeaveDays), strconv.Itoa(e.SickDays), strconv.Itoa(e.PresenceOnlyDays),
			e.HoursWorked, e.NormalHours, e.OvertimeHours, e.Premium25Hours, e.Premium50Hours, e.NightHours,
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func periodXLSX(r report.PeriodReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for i, row := range [][]interface{}{
		{"period_start", r.PeriodStart},
		{"period_end", r.PeriodEnd},
		{"generated_at", r.GeneratedAt},
		{"presence_rate", hours(r.PresenceRate)},
	} {
		if err := setRow(f, summary, i+1, row); err != nil {
			return nil, err
		}
	}

	employees := make([][]interface{}, 0, len(r.Employees))
	for _, e := range r.Employees {
		employees = append(employees, []interface{}{
			e.EmployeeID, e.EmployeeCode, e.EmployeeName, e.Regime,
			e.DaysWorked, e.DaysAbsent, e.RecuperationDays, e.LeaveDays, e.SickDays, e.PresenceOnlyDays,
			hours(e.HoursWorked), hours(e.NormalHours), hours(e.OvertimeHours),
			hours(e.Premium25Hours), hours(e.Premium50Hours), hours(e.NightHours),
		})
	}
	if err := addTable(f, "Employees", employeeHeader, employees); err != nil {
		return nil, err
	}

	departments := make([][]interface{}, 0, len(r.Departments))
	for _, d := range r.Departments {
		departments = append(departments, []interface{}{
			d.DepartmentID, d.Employees, d.DaysWorked, d.DaysAbsent,
			hours(d.HoursWorked), hours(d.NormalHours), hours(d.OvertimeHours),
			hours(d.Premium25Hours), hours(d.Premium50Hours),
		})
	}
	if err := addTable(f, "Departments", departmentHeader, departments); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func addTable(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := setRow(f, sheet, 1, head); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// hours turns a fixed-point string into a number cell, keeping the text when
// it does not parse.
func hours(s string) interface{} {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.InexactFloat64()
}
