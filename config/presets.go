package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dayplanner/internal/scheduling"
)

// LoadPresets reads day-window preset overrides from a YAML file mapping
// preset names to hour ranges, for example:
//
//	workday:
//	  start_hour: 10
//	  end_hour: 19
//
// An empty path returns nil, meaning the built-in presets apply unchanged.
func LoadPresets(path string) (map[string]scheduling.DayWindow, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}

	presets := make(map[string]scheduling.DayWindow)
	if err := yaml.Unmarshal(raw, &presets); err != nil {
		return nil, fmt.Errorf("parse presets file: %w", err)
	}
	for name, w := range presets {
		if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
			return nil, fmt.Errorf("preset %q: invalid hour range %d-%d", name, w.StartHour, w.EndHour)
		}
	}
	return presets, nil
}
