package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/icecheck/internal/application/scheduler"
	"github.com/example/icecheck/internal/domain/availability"
	"github.com/example/icecheck/internal/domain/facility"
	"github.com/example/icecheck/internal/internaltypes"
	"go.uber.org/zap"
)

// Notifier delivers a non-empty report.
type Notifier interface {
	Notify(ctx context.Context, r availability.Report) error
}

type CheckService struct {
	Directory   facility.Directory
	Runner      scheduler.Runner
	Notifier    Notifier
	Location    *time.Location
	HorizonDays int
	Now         func() time.Time
	Log         *zap.Logger
}

func (s CheckService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Today is the current date in the service's timezone.
func (s CheckService) Today() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	t := now().In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// PresetFilters applies p to the default facility set over days from start.
func (s CheckService) PresetFilters(ctx context.Context, p availability.Preset, start time.Time, days int) (availability.Filters, error) {
	_, ids, err := facility.Load(ctx, s.Directory)
	if err != nil {
		return availability.Filters{}, fmt.Errorf("facility directory: %w", err)
	}
	return availability.Filters{
		Label:       p.Name,
		StartDate:   start,
		Days:        days,
		Start:       p.Start,
		End:         p.End,
		DayFilter:   p.Days,
		FacilityIDs: ids,
	}, nil
}

// Run probes every date selected by f. An empty facility selection or date
// range is returned as an error for the caller to present.
func (s CheckService) Run(ctx context.Context, f availability.Filters) ([]availability.Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.Runner.Run(ctx, f.Windows()), nil
}

// RunPreset is the unattended path: look up defaults, check the horizon,
// notify when anything is available. Nothing to check is not an error.
func (s CheckService) RunPreset(ctx context.Context, p availability.Preset) (availability.Report, error) {
	log := s.logger().With(zap.String("preset", p.Name))
	report := availability.Report{Label: p.Name}

	days := s.HorizonDays
	if days <= 0 {
		days = 16
	}
	f, err := s.PresetFilters(ctx, p, s.Today(), days)
	if err != nil {
		return report, err
	}

	results, err := s.Run(ctx, f)
	if errors.Is(err, internaltypes.ErrNoFacilities) || errors.Is(err, internaltypes.ErrNoDates) {
		log.Info("nothing to check", zap.Error(err))
		return report, nil
	}
	if err != nil {
		return report, err
	}

	report = availability.NewReport(p.Name, results)
	log.Info("check finished", zap.Int("dates", len(results)), zap.Int("available", len(report.Results)))
	if report.Empty() || s.Notifier == nil {
		return report, nil
	}
	if err := s.Notifier.Notify(ctx, report); err != nil {
		return report, fmt.Errorf("notify %q: %w", p.Name, err)
	}
	return report, nil
}

// RunPresets runs each preset in turn. A failing preset does not stop the
// others; the errors are joined.
func (s CheckService) RunPresets(ctx context.Context, presets []availability.Preset) ([]availability.Report, error) {
	var (
		reports []availability.Report
		errs    []error
	)
	for _, p := range presets {
		s.logger().Info("running check", zap.String("preset", p.Name))
		r, err := s.RunPreset(ctx, p)
		if err != nil {
			s.logger().Error("check failed", zap.String("preset", p.Name), zap.Error(err))
			errs = append(errs, err)
		}
		reports = append(reports, r)
	}
	return reports, errors.Join(errs...)
}
