package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"08:00", 8 * time.Hour},
		{"08:00:30", 8*time.Hour + 30*time.Second},
		{"23:59:59", 23*time.Hour + 59*time.Minute + 59*time.Second},
		{"00:00", 0},
		{"7:05", 7*time.Hour + 5*time.Minute},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, got, c.input)
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	invalid := []string{"", "24:00", "12:60", "12:00:60", "12", "12:00:00:00", "ab:cd", "-1:00", "+1:00", "123:00", "12:"}
	for _, s := range invalid {
		_, err := ParseTimeOfDay(s)
		assert.ErrorIs(t, err, ErrInvalidTimeOfDay, s)
		assert.False(t, IsValid(s), s)
	}
}

func TestFormatTimeOfDay(t *testing.T) {
	assert.Equal(t, "06:00:00", FormatTimeOfDay(6*time.Hour))
	assert.Equal(t, "23:59:59", FormatTimeOfDay(MustParseTimeOfDay(EndOfDay)))
	assert.Equal(t, "02:00:00", FormatTimeOfDay(26*time.Hour))
}

func TestWindow_Overlap(t *testing.T) {
	night := NewWindow("22:00", "06:00")
	assert.Equal(t, 8*time.Hour, night.Length())

	// 22:00 -> 06:00 next day, fully inside
	assert.Equal(t, 8*time.Hour, night.Overlap(22*time.Hour, 30*time.Hour))
	// 20:00 -> 07:00 next day
	assert.Equal(t, 8*time.Hour, night.Overlap(20*time.Hour, 31*time.Hour))
	// early morning of the same day
	assert.Equal(t, 6*time.Hour, night.Overlap(0, 6*time.Hour))
	// ordinary day shift
	assert.Equal(t, time.Duration(0), night.Overlap(8*time.Hour, 17*time.Hour))
	assert.False(t, night.Overlaps(8*time.Hour, 17*time.Hour))

	early := NewWindow("00:00", "06:00")
	assert.True(t, early.Overlaps(22*time.Hour, 30*time.Hour))
	assert.True(t, early.Overlaps(5*time.Hour, 14*time.Hour))
	assert.False(t, early.Overlaps(6*time.Hour, 15*time.Hour))
}
