package worktime

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/worktime"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
)

const (
	// BreakThreshold is the raw daily total above which the unpaid break applies.
	BreakThreshold = 8 * time.Hour
	UnpaidBreak    = time.Hour

	// MaxShift bounds a night composite. Anything longer is bad data.
	MaxShift = 24 * time.Hour
)

var (
	// EarlyMorningWindow waives the unpaid break for continuous night work.
	EarlyMorningWindow = clock.NewWindow("00:00", "06:00")

	// PermanentNightWindow is the 8h-based night window used for the permanent
	// overtime decision.
	PermanentNightWindow = clock.NewWindow("22:00", "06:00")

	// TemporaryNightWindow is the 9h-based night window reported for
	// temporary staff.
	TemporaryNightWindow = clock.NewWindow("21:00", "06:00")
)

var ErrShiftTooLong = errors.New("night composite exceeds 24 hours")

// DailyHoursCalculator turns one day's segments into worked hours.
type DailyHoursCalculator struct{}

func NewDailyHoursCalculator() *DailyHoursCalculator {
	return &DailyHoursCalculator{}
}

// Interval returns the segment as offsets from midnight of its own date.
// A composite ends on the following day.
func (c *DailyHoursCalculator) Interval(s worktime.Segment) (from, to time.Duration, err error) {
	in, err := clock.ParseTimeOfDay(s.ClockIn)
	if err != nil {
		return 0, 0, err
	}
	out, err := clock.ParseTimeOfDay(s.ClockOut)
	if err != nil {
		return 0, 0, err
	}

	if s.NightComposite {
		to = out + clock.Day
		if to-in > MaxShift {
			return 0, 0, fmt.Errorf("%w: %s to %s", ErrShiftTooLong, s.ClockIn, s.ClockOut)
		}
		return in, to, nil
	}

	if out < in {
		out += clock.Day
	}
	return in, out, nil
}

// Compute sums the segments of one date. Segments that cannot be computed
// contribute nothing and are logged.
func (c *DailyHoursCalculator) Compute(segs []worktime.Segment) worktime.DailyHours {
	var total, permanentNight, temporaryNight time.Duration
	nightQualifying := false

	for _, s := range segs {
		from, to, err := c.Interval(s)
		if err != nil {
			slog.Warn("segment ignored in daily hours",
				"employee_id", s.EmployeeID,
				"date", calendar.Key(s.Date),
				"record_ids", s.RecordIDs,
				"error", err,
			)
			continue
		}

		total += to - from
		if EarlyMorningWindow.Overlaps(from, to) {
			nightQualifying = true
		}
		permanentNight += PermanentNightWindow.Overlap(from, to)
		temporaryNight += TemporaryNightWindow.Overlap(from, to)
	}

	net := total
	breakDeducted := false
	if !nightQualifying && total > BreakThreshold {
		net -= UnpaidBreak
		breakDeducted = true
	}
	if net < 0 {
		net = 0
	}

	return worktime.DailyHours{
		Hours:               Hours(net),
		RawHours:            Hours(total),
		BreakDeducted:       breakDeducted,
		NightQualifying:     nightQualifying,
		PermanentNightHours: Hours(permanentNight),
		TemporaryNightHours: Hours(temporaryNight),
	}
}

// Hours converts a duration to hours rounded to the hundredth.
func Hours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).DivRound(decimal.NewFromInt(3600), 2)
}
