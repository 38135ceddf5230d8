package calendar

import (
	"time"

	cal "github.com/rickar/cal/v2"
)

const DateLayout = "2006-01-02"

type DayType string

const (
	DayTypeWeekday  DayType = "weekday"
	DayTypeSaturday DayType = "saturday"
	DayTypeSunday   DayType = "sunday"
	DayTypeHoliday  DayType = "holiday"
)

// IsRestDay reports whether the day type is Sunday or a public holiday.
func (t DayType) IsRestDay() bool {
	return t == DayTypeSunday || t == DayTypeHoliday
}

// Calendar classifies civil days against a company's holiday list.
// Holidays are one-off dates; a recurring holiday appears once per year.
type Calendar struct {
	bc *cal.BusinessCalendar
}

func New() *Calendar {
	return &Calendar{bc: cal.NewBusinessCalendar()}
}

// AddHoliday registers date as a public holiday for its year only.
func (c *Calendar) AddHoliday(date time.Time, name string) {
	y, m, d := date.Date()
	c.bc.AddHoliday(&cal.Holiday{
		Name:      name,
		Type:      cal.ObservancePublic,
		Month:     m,
		Day:       d,
		StartYear: y,
		EndYear:   y,
		Func:      cal.CalcDayOfMonth,
	})
}

// Holiday returns the holiday name for date, if any.
func (c *Calendar) Holiday(date time.Time) (string, bool) {
	actual, _, h := c.bc.IsHoliday(date)
	if !actual || h == nil {
		return "", false
	}
	return h.Name, true
}

// DayType resolves the day type. A holiday wins over Saturday and Sunday.
func (c *Calendar) DayType(date time.Time) DayType {
	if _, ok := c.Holiday(date); ok {
		return DayTypeHoliday
	}
	switch date.Weekday() {
	case time.Sunday:
		return DayTypeSunday
	case time.Saturday:
		return DayTypeSaturday
	}
	return DayTypeWeekday
}

// Civil truncates t to midnight UTC of its calendar day.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func AddDays(t time.Time, n int) time.Time {
	return Civil(t).AddDate(0, 0, n)
}

// DaysInclusive counts the days from start to end, both included.
// It returns 0 when end is before start.
func DaysInclusive(start, end time.Time) int {
	s, e := Civil(start), Civil(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// Each calls fn for every day from start to end inclusive.
func Each(start, end time.Time, fn func(day time.Time)) {
	for d := Civil(start); !d.After(Civil(end)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

func Key(t time.Time) string {
	return t.Format(DateLayout)
}
