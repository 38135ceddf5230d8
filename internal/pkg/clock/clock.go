package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	StartOfDay = "00:00:00"
	EndOfDay   = "23:59:59"

	Day = 24 * time.Hour
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" into an offset from midnight.
func ParseTimeOfDay(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	limits := []int{23, 59, 59}
	units := []time.Duration{time.Hour, time.Minute, time.Second}

	var offset time.Duration
	for i, part := range parts {
		if len(part) == 0 || len(part) > 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
			}
		}
		v, err := strconv.Atoi(part)
		if err != nil || v > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
		}
		offset += time.Duration(v) * units[i]
	}

	return offset, nil
}

// MustParseTimeOfDay is ParseTimeOfDay for constants.
func MustParseTimeOfDay(s string) time.Duration {
	d, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FormatTimeOfDay renders an offset from midnight as HH:MM:SS.
func FormatTimeOfDay(d time.Duration) string {
	d = d % Day
	if d < 0 {
		d += Day
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	sec := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// IsValid reports whether s parses as a time of day.
func IsValid(s string) bool {
	_, err := ParseTimeOfDay(s)
	return err == nil
}

// Window is a daily recurring time range. End <= Start means the window wraps midnight.
type Window struct {
	Start time.Duration
	End   time.Duration
}

// NewWindow builds a Window from two time-of-day strings and panics on bad input.
func NewWindow(start, end string) Window {
	return Window{Start: MustParseTimeOfDay(start), End: MustParseTimeOfDay(end)}
}

// Length returns the window span.
func (w Window) Length() time.Duration {
	if w.End > w.Start {
		return w.End - w.Start
	}
	return w.End + Day - w.Start
}

// Overlap returns how much of [from, to) falls inside the window. from and to
// are offsets from midnight of the segment's own day; to may exceed 24h.
func (w Window) Overlap(from, to time.Duration) time.Duration {
	if to <= from {
		return 0
	}

	var total time.Duration
	for day := -1; day <= 2; day++ {
		start := time.Duration(day)*Day + w.Start
		end := start + w.Length()
		lo := max(from, start)
		hi := min(to, end)
		if hi > lo {
			total += hi - lo
		}
	}
	return total
}

// Overlaps reports whether [from, to) touches the window at all.
func (w Window) Overlaps(from, to time.Duration) bool {
	return w.Overlap(from, to) > 0
}
