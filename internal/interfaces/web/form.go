package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/icecheck/internal/domain/availability"
	"github.com/example/icecheck/internal/domain/facility"
)

const (
	maxDays     = 15
	defaultDays = 15
)

// formState is what the sidebar shows. It is rebuilt from the request (or
// the filters cookie) on every hit and turned into an availability.Filters
// value for the run.
type formState struct {
	StartDate  string  `json:"start_date"`
	Days       int     `json:"days"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	DayFilter  string  `json:"day_filter"`
	Facilities []int64 `json:"facilities"`
}

func defaultForm(today time.Time) formState {
	return formState{
		StartDate: today.Format(availability.DateLayout),
		Days:      defaultDays,
		Start:     "08:00",
		End:       "21:00",
		DayFilter: string(availability.Weekdays),
	}
}

// readForm overlays the posted fields on base.
func readForm(r *http.Request, base formState) formState {
	f := base
	if v := strings.TrimSpace(r.FormValue("start_date")); v != "" {
		f.StartDate = v
	}
	if v, err := strconv.Atoi(r.FormValue("days")); err == nil {
		f.Days = v
	}
	if v := strings.TrimSpace(r.FormValue("start_time")); v != "" {
		f.Start = v
	}
	if v := strings.TrimSpace(r.FormValue("end_time")); v != "" {
		f.End = v
	}
	if v := strings.TrimSpace(r.FormValue("day_filter")); v != "" {
		f.DayFilter = v
	}
	if _, posted := r.PostForm["start_date"]; posted || len(r.PostForm["facility"]) > 0 {
		f.Facilities = parseIDs(r.PostForm["facility"])
	}
	f.Days = clampDays(f.Days)
	return f
}

func clampDays(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxDays {
		return maxDays
	}
	return n
}

func parseIDs(vals []string) []int64 {
	out := make([]int64, 0, len(vals))
	for _, v := range vals {
		if id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func (f formState) withPreset(p availability.Preset, defaults []int64) formState {
	f.Start = p.Start
	f.End = p.End
	f.DayFilter = string(p.Days)
	f.Facilities = append([]int64(nil), defaults...)
	return f
}

func (f formState) filters(loc *time.Location, catalog *facility.Catalog) (availability.Filters, error) {
	start, err := time.ParseInLocation(availability.DateLayout, f.StartDate, loc)
	if err != nil {
		return availability.Filters{}, fmt.Errorf("invalid start date %q", f.StartDate)
	}
	days, err := availability.ParseDayFilter(f.DayFilter)
	if err != nil {
		return availability.Filters{}, err
	}
	return availability.Filters{
		Label:       "Dashboard",
		StartDate:   start,
		Days:        clampDays(f.Days),
		Start:       f.Start,
		End:         f.End,
		DayFilter:   days,
		FacilityIDs: catalog.Known(f.Facilities),
	}, nil
}

type facilityOption struct {
	ID          int64
	Description string
	Selected    bool
}

func (f formState) options(catalog *facility.Catalog) []facilityOption {
	selected := make(map[int64]bool, len(f.Facilities))
	for _, id := range f.Facilities {
		selected[id] = true
	}
	all := catalog.All()
	out := make([]facilityOption, 0, len(all))
	for _, fc := range all {
		out = append(out, facilityOption{ID: fc.ExtID, Description: fc.Description, Selected: selected[fc.ExtID]})
	}
	return out
}
