package shift

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/worktime"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/clock"
)

const (
	DefaultEndAfter    = "23:50"
	DefaultStartBefore = "10:00"
)

// Cutoffs decide which segment pairs form a night composite: a head ending at
// or after EndAfter joins a next-day tail starting before StartBefore.
type Cutoffs struct {
	EndAfter    time.Duration
	StartBefore time.Duration
}

func DefaultCutoffs() Cutoffs {
	return Cutoffs{
		EndAfter:    clock.MustParseTimeOfDay(DefaultEndAfter),
		StartBefore: clock.MustParseTimeOfDay(DefaultStartBefore),
	}
}

func ParseCutoffs(endAfter, startBefore string) (Cutoffs, error) {
	end, err := clock.ParseTimeOfDay(endAfter)
	if err != nil {
		return Cutoffs{}, fmt.Errorf("failed to parse merge end-after cutoff: %w", err)
	}
	start, err := clock.ParseTimeOfDay(startBefore)
	if err != nil {
		return Cutoffs{}, fmt.Errorf("failed to parse merge start-before cutoff: %w", err)
	}
	return Cutoffs{EndAfter: end, StartBefore: start}, nil
}

// Segments turns stored records into computation segments. Only present and
// late records with both clock times carry hours; absent rows and unmarked
// drafts are left out even when they hold clock times.
func Segments(records []timerecord.TimeRecord) []worktime.Segment {
	segs := make([]worktime.Segment, 0, len(records))
	for _, r := range records {
		if !r.HasClockTimes() || !r.DayStatus.IsPresence() {
			continue
		}
		segs = append(segs, worktime.Segment{
			EmployeeID:   r.EmployeeID,
			Date:         calendar.Civil(r.Date),
			ClockIn:      *r.ClockIn,
			ClockOut:     *r.ClockOut,
			DayStatus:    r.DayStatus,
			DepartmentID: r.DepartmentID,
			RecordIDs:    []string{r.ID},
		})
	}
	return segs
}

// MergeForComputation rejoins overnight shifts that were split at midnight on
// write so the pair is computed as one shift. Records must belong to a single
// employee.
func MergeForComputation(records []timerecord.TimeRecord, cutoffs Cutoffs) []worktime.Segment {
	return MergeSegments(Segments(records), cutoffs)
}

// MergeSegments is idempotent: composites are never merged again and each
// segment joins at most one composite.
func MergeSegments(segs []worktime.Segment, cutoffs Cutoffs) []worktime.Segment {
	sorted := make([]worktime.Segment, len(segs))
	copy(sorted, segs)
	sortSegments(sorted)

	byDate := make(map[string][]int)
	var dates []string
	for i, s := range sorted {
		key := calendar.Key(s.Date)
		if _, ok := byDate[key]; !ok {
			dates = append(dates, key)
		}
		byDate[key] = append(byDate[key], i)
	}
	sort.Strings(dates)

	consumed := make([]bool, len(sorted))
	merged := make([]worktime.Segment, 0, len(sorted))

	for _, key := range dates {
		for _, i := range byDate[key] {
			if consumed[i] {
				continue
			}
			consumed[i] = true
			head := sorted[i]

			if isHead(head, cutoffs) {
				nextKey := calendar.Key(calendar.AddDays(head.Date, 1))
				for _, j := range byDate[nextKey] {
					if consumed[j] || !isTail(sorted[j], cutoffs) {
						continue
					}
					consumed[j] = true
					head = composite(head, sorted[j])
					break
				}
			}

			merged = append(merged, head)
		}
	}

	sortSegments(merged)
	return merged
}

func isHead(s worktime.Segment, c Cutoffs) bool {
	if s.NightComposite {
		return false
	}
	out, err := clock.ParseTimeOfDay(s.ClockOut)
	if err != nil {
		return false
	}
	if _, err := clock.ParseTimeOfDay(s.ClockIn); err != nil {
		return false
	}
	return out >= c.EndAfter
}

func isTail(s worktime.Segment, c Cutoffs) bool {
	if s.NightComposite {
		return false
	}
	in, err := clock.ParseTimeOfDay(s.ClockIn)
	if err != nil {
		return false
	}
	if _, err := clock.ParseTimeOfDay(s.ClockOut); err != nil {
		return false
	}
	return in < c.StartBefore
}

func composite(head, tail worktime.Segment) worktime.Segment {
	ids := make([]string, 0, len(head.RecordIDs)+len(tail.RecordIDs))
	ids = append(ids, head.RecordIDs...)
	ids = append(ids, tail.RecordIDs...)

	slog.Debug("merged overnight segments",
		"employee_id", head.EmployeeID,
		"date", calendar.Key(head.Date),
		"record_ids", ids,
	)

	return worktime.Segment{
		EmployeeID:     head.EmployeeID,
		Date:           head.Date,
		ClockIn:        head.ClockIn,
		ClockOut:       tail.ClockOut,
		DayStatus:      head.DayStatus,
		DepartmentID:   head.DepartmentID,
		NightComposite: true,
		RecordIDs:      ids,
	}
}

func sortSegments(segs []worktime.Segment) {
	sort.SliceStable(segs, func(i, j int) bool {
		a, b := segs[i], segs[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		ai, bi := offsetOrMinus(a.ClockIn), offsetOrMinus(b.ClockIn)
		if ai != bi {
			return ai < bi
		}
		ao, bo := endOffset(a), endOffset(b)
		if ao != bo {
			return ao < bo
		}
		return firstID(a) < firstID(b)
	})
}

func offsetOrMinus(s string) time.Duration {
	d, err := clock.ParseTimeOfDay(s)
	if err != nil {
		return -1
	}
	return d
}

// endOffset places a composite's clock-out on the following day.
func endOffset(s worktime.Segment) time.Duration {
	d := offsetOrMinus(s.ClockOut)
	if s.NightComposite && d >= 0 {
		d += clock.Day
	}
	return d
}

func firstID(s worktime.Segment) string {
	if len(s.RecordIDs) == 0 {
		return ""
	}
	return s.RecordIDs[0]
}
