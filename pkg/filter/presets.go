package filter

import (
	"fmt"
	"strings"
)

// Preset is a named set of default bounds for a kind of trip.
type Preset struct {
	Name      string  `json:"name"`
	HeightMin float64 `json:"height_min"`
	HeightMax float64 `json:"height_max"`
	TimeFrom  string  `json:"time_from"`
	TimeTo    string  `json:"time_to"`
}

// DefaultPreset is used by the index page when nothing else was asked for.
const DefaultPreset = "Padrão"

var presets = []Preset{{
	Name:      DefaultPreset,
	HeightMin: -2.0,
	HeightMax: 0.7,
	TimeFrom:  "07:00",
	TimeTo:    "14:00",
}, {
	Name:      "Ilha",
	HeightMin: -2.0,
	HeightMax: 0.4,
	TimeFrom:  "06:00",
	TimeTo:    "16:00",
}, {
	Name:      "Extremo",
	HeightMin: -2.0,
	HeightMax: 0.1,
	TimeFrom:  "05:00",
	TimeTo:    "17:00",
}}

// Presets returns every known preset.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by name, ignoring case.
func LookupPreset(name string) (Preset, error) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("no preset named %q", name)
}

// Criteria returns the bounds of the preset.
func (p Preset) Criteria() Criteria {
	lo, hi := p.HeightMin, p.HeightMax
	return Criteria{
		HeightMin: &lo,
		HeightMax: &hi,
		TimeFrom:  p.TimeFrom,
		TimeTo:    p.TimeTo,
	}
}
