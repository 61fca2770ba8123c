package availability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReportKeepsOnlyAvailable(t *testing.T) {
	results := []Result{
		{Date: "2025-01-09", Available: false, Link: "l4"},
		{Date: "2025-01-08", Available: true, Link: "l3"},
		{Date: "2025-01-07", Available: false, Link: "l2"},
		{Date: "2025-01-06", Available: true, Link: "l1"},
		{Date: "2025-01-10", Available: false, Link: "l5"},
	}
	r := NewReport("Weekday Evening", results)
	require.Equal(t, []Result{
		{Date: "2025-01-06", Available: true, Link: "l1"},
		{Date: "2025-01-08", Available: true, Link: "l3"},
	}, r.Results)

	require.Equal(t, "Ice available for Weekday Evening:\n\n2025-01-06: l1\n2025-01-08: l3\n", r.Body())
	require.Equal(t, "🏒 Ice Available - Weekday Evening", r.Subject())
	require.True(t, NewReport("x", results[:1]).Empty())
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Result{{Date: "b", Available: true}, {Date: "a"}, {Date: "c"}})
	require.True(t, s.Partial())
	require.False(t, s.NoneAvailable())
	require.Equal(t, 2, s.Unavailable)

	s = Summarize([]Result{{Date: "a"}})
	require.True(t, s.NoneAvailable())
	require.False(t, s.Partial())
}

func TestLoadPresets(t *testing.T) {
	presets, err := LoadPresets("")
	require.NoError(t, err)
	require.Equal(t, BuiltinPresets(), presets)

	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
presets:
  - name: weekend
    start: "07:00"
    end: "12:00"
    days: Weekends
  - name: Late Night
    start: "21:00"
    end: "23:30"
    days: any
`), 0o600))

	presets, err = LoadPresets(path)
	require.NoError(t, err)
	require.Len(t, presets, 3)

	p, ok := FindPreset(presets, "Weekend")
	require.True(t, ok)
	require.Equal(t, "07:00", p.Start)

	p, ok = FindPreset(presets, "late night")
	require.True(t, ok)
	require.Equal(t, AnyDay, p.Days)

	require.NoError(t, os.WriteFile(path, []byte("presets:\n  - name: bad\n    days: monthly\n"), 0o600))
	_, err = LoadPresets(path)
	require.Error(t, err)
}
