package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/icecheck/internal/internaltypes"
)

type DayFilter string

const (
	Weekdays DayFilter = "Weekdays"
	Weekends DayFilter = "Weekends"
	AnyDay   DayFilter = "Any Day"
)

var DayFilters = []DayFilter{Weekdays, Weekends, AnyDay}

func ParseDayFilter(s string) (DayFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekdays", "weekday":
		return Weekdays, nil
	case "weekends", "weekend":
		return Weekends, nil
	case "any day", "any", "":
		return AnyDay, nil
	}
	return "", fmt.Errorf("unknown day filter %q (want Weekdays, Weekends or Any Day)", s)
}

func (f DayFilter) Match(d time.Time) bool {
	wd := d.Weekday()
	weekend := wd == time.Saturday || wd == time.Sunday
	switch f {
	case Weekdays:
		return !weekend
	case Weekends:
		return weekend
	default:
		return true
	}
}

// TargetDates enumerates days consecutive dates from start and keeps those
// matching f, in calendar order.
func TargetDates(start time.Time, days int, f DayFilter) []string {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	var out []string
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		if f.Match(d) {
			out = append(out, d.Format(DateLayout))
		}
	}
	return out
}

// Filters is the full set of user choices for one run. It is a value: each
// run builds its own and nothing mutates it afterwards.
type Filters struct {
	Label       string
	StartDate   time.Time
	Days        int
	Start       string
	End         string
	DayFilter   DayFilter
	FacilityIDs []int64
}

func (f Filters) Dates() []string {
	return TargetDates(f.StartDate, f.Days, f.DayFilter)
}

func (f Filters) Validate() error {
	if len(f.FacilityIDs) == 0 {
		return internaltypes.ErrNoFacilities
	}
	if len(f.Dates()) == 0 {
		return internaltypes.ErrNoDates
	}
	return nil
}

// Windows builds one query window per target date.
func (f Filters) Windows() []Window {
	dates := f.Dates()
	out := make([]Window, 0, len(dates))
	for _, d := range dates {
		ids := make([]int64, len(f.FacilityIDs))
		copy(ids, f.FacilityIDs)
		out = append(out, Window{Date: d, Start: f.Start, End: f.End, FacilityIDs: ids})
	}
	return out
}
