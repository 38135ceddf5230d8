package worktime

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/policy"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/worktime"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

// StandardDay is the number of hours paid at the normal rate in one day.
var StandardDay = decimal.NewFromInt(8)

// DayInput is everything the classifier needs to know about one employee day.
type DayInput struct {
	Date         time.Time
	DayType      calendar.DayType
	Regime       worktime.Regime
	Policy       policy.RolePolicy
	Hours        worktime.DailyHours
	DepartmentID *string

	// DeclaredPresent is set when a record of the day carries a present or
	// late status, with or without hours.
	DeclaredPresent bool

	Leave worktime.LeaveKind
}

// OvertimeClassifier splits a day's hours into pay buckets per regime.
type OvertimeClassifier struct{}

func NewOvertimeClassifier() *OvertimeClassifier {
	return &OvertimeClassifier{}
}

func (c *OvertimeClassifier) Classify(in DayInput) worktime.DailyComputation {
	day := worktime.DailyComputation{
		Date:           in.Date,
		DayType:        in.DayType,
		DepartmentID:   in.DepartmentID,
		HoursWorked:    decimal.Zero,
		NormalHours:    decimal.Zero,
		OvertimeHours:  decimal.Zero,
		Premium25Hours: decimal.Zero,
		Premium50Hours: decimal.Zero,
		NightHours:     decimal.Zero,
	}

	if in.Leave != worktime.LeaveKindNone {
		day.IsLeaveDay = true
		day.LeaveKind = in.Leave
		return day
	}

	hours := in.Hours.Hours
	worked := hours.IsPositive()
	day.Present = worked || in.DeclaredPresent

	if !day.Present {
		day.Absent = absentWithoutPresence(in.DayType, in.Policy)
		return day
	}

	day.HoursWorked = hours

	if in.Regime == worktime.RegimeTemporary {
		classifyTemporary(&day, in, worked)
	} else {
		classifyPermanent(&day, in, worked)
	}

	return day
}

// absentWithoutPresence decides whether a day without presence is an absence.
// Sundays and holidays are blank; Saturdays depend on the role policy.
func absentWithoutPresence(t calendar.DayType, p policy.RolePolicy) bool {
	switch t {
	case calendar.DayTypeWeekday:
		return true
	case calendar.DayTypeSaturday:
		return p.SaturdayCountsAsAbsence
	}
	return false
}

func classifyPermanent(day *worktime.DailyComputation, in DayInput, worked bool) {
	hours := in.Hours.Hours
	day.NightHours = in.Hours.PermanentNightHours

	if !worked {
		return
	}

	switch in.DayType {
	case calendar.DayTypeHoliday:
		day.Recuperation = 1
		day.OvertimeHours = decimal.Max(decimal.Zero, hours.Sub(StandardDay))
	case calendar.DayTypeSunday:
		day.Recuperation = 1
	default:
		// No overtime once the night window alone covers a full day.
		if hours.GreaterThan(StandardDay) && in.Hours.PermanentNightHours.LessThan(StandardDay) {
			day.OvertimeHours = hours.Sub(StandardDay)
		}
	}

	day.NormalHours = hours.Sub(day.OvertimeHours)
}

func classifyTemporary(day *worktime.DailyComputation, in DayInput, worked bool) {
	hours := in.Hours.Hours
	day.NightHours = in.Hours.TemporaryNightHours

	if !worked {
		day.PresenceOnly = true
		return
	}

	if in.DayType.IsRestDay() {
		day.Premium50Hours = hours
		return
	}

	day.NormalHours = decimal.Min(hours, StandardDay)
	day.Premium25Hours = hours.Sub(day.NormalHours)
}
