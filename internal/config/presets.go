package config

import (
	"fmt"
	"sort"
)

var Presets = map[string]*Config{
	"classic": {
		PoleLength: 300, Speed: 5, TimeIncrement: 1,
		Positions: []int{30, 80, 110, 160, 250},
	},
	"pair": {
		PoleLength: 10, Speed: 1, TimeIncrement: 1,
		Positions: []int{3, 7}, Directions: "+-",
	},
	"crowd": {
		PoleLength: 300, Speed: 5, TimeIncrement: 1,
		Positions: []int{20, 50, 90, 120, 150, 180, 210, 240, 270},
	},
	"coarse": {
		PoleLength: 300, Speed: 5, TimeIncrement: 2,
		Positions: []int{30, 80, 110, 160, 250},
	},
	"single": {
		PoleLength: 100, Speed: 1, TimeIncrement: 1,
		Positions: []int{40}, Directions: "+",
	},
}

// GetPreset returns a copy of the named preset with view defaults filled in.
func GetPreset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	cfg := p.Clone()
	if cfg.View == (ViewConfig{}) {
		cfg.View = DefaultConfig().View
	}
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
