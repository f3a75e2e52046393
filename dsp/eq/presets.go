package eq

import (
	"fmt"
	"sort"
	"strings"
)

// Preset is a named set of band gains for the default five-band layout.
type Preset struct {
	Name  string
	Gains []float64
}

var (
	// PresetFlat leaves every band at unity.
	PresetFlat = Preset{Name: "flat", Gains: []float64{1, 1, 1, 1, 1}}
	// PresetVShape lifts lows and highs and dips the mids. In the standard
	// range the 3x boosts are clamped to 2x when read.
	PresetVShape = Preset{Name: "v-shape", Gains: []float64{3, 1, 0.5, 1, 3}}
	// PresetVocal favours the speech range.
	PresetVocal = Preset{Name: "vocal", Gains: []float64{0.5, 0.8, 1.4, 1.6, 0.9}}
	// PresetBassBoost lifts the two lowest bands.
	PresetBassBoost = Preset{Name: "bass-boost", Gains: []float64{2, 1.6, 1, 1, 1}}
)

var presets = map[string]Preset{
	PresetFlat.Name:      PresetFlat,
	PresetVShape.Name:    PresetVShape,
	PresetVocal.Name:     PresetVocal,
	PresetBassBoost.Name: PresetBassBoost,
}

// LookupPreset returns the preset with the given case-insensitive name.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("%w: unknown preset %q (known: %s)",
			ErrConfiguration, name, strings.Join(PresetNames(), ", "))
	}

	return p, nil
}

// PresetNames returns the known preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
