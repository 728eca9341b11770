package presets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"github.com/wheelibin/phuey/internal/hue"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Presets are named light states, read from a TOML file such as
//
//	[preset.reading]
//	on = true
//	bri = 254
//	ct = 346
type Presets map[string]hue.AttributeSet

type file struct {
	Preset map[string]map[string]any `toml:"preset"`
}

func Load(path string) (Presets, error) {
	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("error reading presets from %s: %w", path, err)
	}
	return fromFile(f), nil
}

func Parse(data string) (Presets, error) {
	var f file
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing presets: %w", err)
	}
	return fromFile(f), nil
}

func fromFile(f file) Presets {
	out := make(Presets, len(f.Preset))
	for name, values := range f.Preset {
		out[name] = hue.AttributeSet(lo.MapValues(values, func(v any, _ string) any { return normalize(v) }))
	}
	return out
}

// normalize maps TOML integers to int and number arrays to []float64,
// the types the bridge attributes are written with.
func normalize(v any) any {
	switch val := v.(type) {
	case int64:
		return int(val)
	case []any:
		floats := make([]float64, 0, len(val))
		for _, item := range val {
			switch n := item.(type) {
			case float64:
				floats = append(floats, n)
			case int64:
				floats = append(floats, float64(n))
			default:
				return val
			}
		}
		return floats
	}
	return v
}

func (p Presets) Get(name string) (hue.AttributeSet, error) {
	preset, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q, have %v", ErrUnknownPreset, name, p.Names())
	}
	return hue.AttributeSet(lo.Assign(map[string]any(preset))), nil
}

func (p Presets) Names() []string {
	names := lo.Keys(p)
	sort.Strings(names)
	return names
}
