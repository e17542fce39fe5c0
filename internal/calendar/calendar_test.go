package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrict(t *testing.T) {
	d, err := Parse("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, New(2024, time.June, 1), d)

	for _, bad := range []string{"2024-13-01", "2024-02-30", "06-01-2024", "2024-6-1", ""} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestWeekBounds(t *testing.T) {
	cases := []struct {
		day        Date
		start, end Date
		key        string
	}{
		// Monday
		{day: New(2024, time.January, 1), start: New(2024, time.January, 1), end: New(2024, time.January, 7), key: "1.1.2024 - 7.1.2024"},
		// Wednesday
		{day: New(2024, time.June, 5), start: New(2024, time.June, 3), end: New(2024, time.June, 9), key: "3.6.2024 - 9.6.2024"},
		// Sunday belongs to the week that started six days earlier
		{day: New(2024, time.June, 9), start: New(2024, time.June, 3), end: New(2024, time.June, 9), key: "3.6.2024 - 9.6.2024"},
		// week crossing a year boundary
		{day: New(2025, time.January, 1), start: New(2024, time.December, 30), end: New(2025, time.January, 5), key: "30.12.2024 - 5.1.2025"},
	}
	for _, tc := range cases {
		t.Run(tc.day.String(), func(t *testing.T) {
			start, end := WeekBounds(tc.day)
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
			assert.Equal(t, time.Monday, start.Weekday())
			assert.True(t, tc.day.Within(start, end))
			assert.Equal(t, tc.key, WeekKey(tc.day))
		})
	}
}

func TestTodayUsesLocation(t *testing.T) {
	tashkent := time.FixedZone("UZT", 5*60*60)
	now := time.Date(2024, time.May, 31, 20, 30, 0, 0, time.UTC)
	assert.Equal(t, New(2024, time.June, 1), Today(now, tashkent))
	assert.Equal(t, New(2024, time.May, 31), Today(now, nil))
}

func TestScanValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-06-01"))
	assert.Equal(t, New(2024, time.June, 1), d)
	require.NoError(t, d.Scan([]byte("2024-06-02T00:00:00Z")))
	assert.Equal(t, New(2024, time.June, 2), d)
	require.NoError(t, d.Scan(time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, New(2024, time.June, 3), d)
	assert.Error(t, d.Scan(42))

	v, err := New(2024, time.March, 9).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", v)
}

func TestOrderingAndDisplay(t *testing.T) {
	a, b := New(2024, time.June, 1), New(2024, time.June, 2)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.Equal(t, New(2024, time.March, 1), New(2024, time.February, 28).AddDays(2))
	assert.Equal(t, "2 января 2024", FormatDisplay(New(2024, time.January, 2)))
	assert.Equal(t, "31 декабря 2025", FormatDisplay(New(2025, time.December, 31)))
}
