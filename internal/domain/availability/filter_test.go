package availability

import (
	"testing"
	"time"

	"github.com/example/icecheck/internal/internaltypes"
	"github.com/stretchr/testify/require"
)

func TestTargetDatesWeekdaysFromSaturday(t *testing.T) {
	start := time.Date(2025, 1, 4, 15, 30, 0, 0, time.UTC) // Saturday
	require.Equal(t, time.Saturday, start.Weekday())

	dates := TargetDates(start, 16, Weekdays)
	require.Equal(t, []string{
		"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10",
		"2025-01-13", "2025-01-14", "2025-01-15", "2025-01-16", "2025-01-17",
	}, dates)
}

func TestTargetDatesFilters(t *testing.T) {
	start := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		filter   DayFilter
		days     int
		expected []string
	}{
		{filter: Weekends, days: 9, expected: []string{"2025-01-04", "2025-01-05", "2025-01-11", "2025-01-12"}},
		{filter: AnyDay, days: 3, expected: []string{"2025-01-04", "2025-01-05", "2025-01-06"}},
		{filter: Weekdays, days: 2, expected: nil},
		{filter: AnyDay, days: 0, expected: nil},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, TargetDates(start, tc.days, tc.filter), "filter=%s days=%d", tc.filter, tc.days)
	}
}

func TestParseDayFilter(t *testing.T) {
	for in, want := range map[string]DayFilter{
		"Weekdays": Weekdays,
		"weekend":  Weekends,
		"Any Day":  AnyDay,
		"any":      AnyDay,
	} {
		got, err := ParseDayFilter(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseDayFilter("fortnightly")
	require.Error(t, err)
}

func TestFiltersValidate(t *testing.T) {
	f := Filters{
		StartDate: time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC),
		Days:      2,
		Start:     "17:00",
		End:       "21:00",
		DayFilter: Weekdays,
	}
	require.ErrorIs(t, f.Validate(), internaltypes.ErrNoFacilities)

	f.FacilityIDs = []int64{12, 34}
	require.ErrorIs(t, f.Validate(), internaltypes.ErrNoDates)

	f.Days = 5
	require.NoError(t, f.Validate())

	windows := f.Windows()
	require.Len(t, windows, 3)
	for _, w := range windows {
		require.Equal(t, "17:00", w.Start)
		require.Equal(t, "21:00", w.End)
		require.Equal(t, []int64{12, 34}, w.FacilityIDs)
	}

	// windows own their id slices
	windows[0].FacilityIDs[0] = 99
	require.Equal(t, int64(12), f.FacilityIDs[0])
}
