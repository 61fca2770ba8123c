package availability

import (
	"context"
	"time"
)

const DateLayout = "2006-01-02"

// Window is the unit of a single availability check.
type Window struct {
	Date        string // YYYY-MM-DD
	Start       string // HH:MM
	End         string // HH:MM
	FacilityIDs []int64
}

// Result is one probe outcome. Link reproduces the search on the booking site.
type Result struct {
	Date      string
	Available bool
	Link      string
	Duration  time.Duration
}

// Prober checks a single window. Implementations never fail: transport and
// parse errors are logged and reported as Available=false.
type Prober interface {
	Name() string
	Probe(ctx context.Context, w Window) Result
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, w Window) Result

func (f ProberFunc) Name() string { return "func" }
func (f ProberFunc) Probe(ctx context.Context, w Window) Result { return f(ctx, w) }
