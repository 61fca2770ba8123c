package availability

import (
	"fmt"
	"sort"
	"strings"
)

// Report holds the available results of a run, sorted by date.
type Report struct {
	Label   string
	Results []Result
}

func NewReport(label string, results []Result) Report {
	r := Report{Label: label}
	for _, res := range results {
		if res.Available {
			r.Results = append(r.Results, res)
		}
	}
	SortByDate(r.Results)
	return r
}

func (r Report) Empty() bool { return len(r.Results) == 0 }

func (r Report) Subject() string {
	return fmt.Sprintf("🏒 Ice Available - %s", r.Label)
}

// Body is the plain-text notification: one "date: link" line per result.
func (r Report) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ice available for %s:\n\n", r.Label)
	for _, res := range r.Results {
		fmt.Fprintf(&b, "%s: %s\n", res.Date, res.Link)
	}
	return b.String()
}

func SortByDate(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Date < rs[j].Date })
}

// Summary classifies a full result set for display.
type Summary struct {
	Available   []Result
	Unavailable int
}

func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Available {
			s.Available = append(s.Available, r)
		} else {
			s.Unavailable++
		}
	}
	SortByDate(s.Available)
	return s
}

func (s Summary) NoneAvailable() bool { return len(s.Available) == 0 }

// Partial reports some dates available and others not.
func (s Summary) Partial() bool { return len(s.Available) > 0 && s.Unavailable > 0 }
