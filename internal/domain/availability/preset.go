package availability

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset pre-fills the time window and day filter. Presets always select the
// default facility set.
type Preset struct {
	Name  string    `yaml:"name"`
	Start string    `yaml:"start"`
	End   string    `yaml:"end"`
	Days  DayFilter `yaml:"days"`
}

var (
	WeekdayEvening = Preset{Name: "Weekday Evening", Start: "17:00", End: "21:00", Days: Weekdays}
	Weekend        = Preset{Name: "Weekend", Start: "08:00", End: "21:00", Days: Weekends}
)

func BuiltinPresets() []Preset {
	return []Preset{WeekdayEvening, Weekend}
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadPresets returns the built-ins overlaid with the presets in path.
// A preset in the file replaces a built-in of the same name; new names are
// appended. An empty path returns the built-ins.
func LoadPresets(path string) ([]Preset, error) {
	out := BuiltinPresets()
	if path == "" {
		return out, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	var pf presetFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, fmt.Errorf("parse presets %s: %w", path, err)
	}
	for _, p := range pf.Presets {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("preset without name in %s", path)
		}
		days, err := ParseDayFilter(string(p.Days))
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		p.Days = days
		replaced := false
		for i := range out {
			if strings.EqualFold(out[i].Name, p.Name) {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out, nil
}

func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
