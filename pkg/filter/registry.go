package filter

import (
	"sort"
	"strings"
	"sync"

	"github.com/tauraamui/xerror"
)

// Params holds the numeric options of a filter built by name.
type Params map[string]float64

func (p Params) Float(key string, def float64) float64 {
	if v, ok := p[strings.ToLower(key)]; ok {
		return v
	}
	return def
}

func (p Params) Int(key string, def int) int {
	if v, ok := p[strings.ToLower(key)]; ok {
		return int(v)
	}
	return def
}

// Spec describes a filter to build by name, typically from configuration.
type Spec struct {
	Name   string
	Params Params
	Text   string
}

type Constructor func(Spec) (Filter, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register makes a constructor available to Build under name. Registering
// the same name twice replaces the earlier constructor.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[normalizeName(name)] = ctor
}

func Registered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[normalizeName(name)]
	return ok
}

func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs and validates the filter named by spec.
func Build(spec Spec) (Filter, error) {
	registryMu.RLock()
	ctor, ok := registry[normalizeName(spec.Name)]
	registryMu.RUnlock()
	if !ok {
		return nil, xerror.Errorf("unknown filter %q, expected one of: %s", spec.Name, strings.Join(Names(), ", "))
	}

	lowered := Params{}
	for k, v := range spec.Params {
		lowered[strings.ToLower(k)] = v
	}
	spec.Params = lowered

	f, err := ctor(spec)
	if err != nil {
		return nil, xerror.Errorf("unable to build filter %q: %w", spec.Name, err)
	}
	if v, ok := f.(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, xerror.Errorf("invalid options for filter %q: %w", spec.Name, err)
		}
	}
	return f, nil
}

// BuildChain builds every spec in order into a new chain.
func BuildChain(specs ...Spec) (*Chain, error) {
	chain := NewChain()
	for _, spec := range specs {
		f, err := Build(spec)
		if err != nil {
			return nil, err
		}
		chain.Append(f)
	}
	return chain, nil
}

func normalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

func init() {
	colorLevel := func(s Spec) (Filter, error) {
		return NewColorLevel(s.Params.Float("red", 1), s.Params.Float("green", 1), s.Params.Float("blue", 1)), nil
	}
	Register("colour_level", colorLevel)
	Register("color_level", colorLevel)

	Register("brightness_contrast", func(s Spec) (Filter, error) {
		return NewBrightnessContrast(s.Params.Float("brightness", 0), s.Params.Float("contrast", 1)), nil
	})
	Register("invert", func(Spec) (Filter, error) { return NewInvert(), nil })

	posterise := func(s Spec) (Filter, error) {
		return NewPosterise(s.Params.Int("levels", 4)), nil
	}
	Register("posterise", posterise)
	Register("posterize", posterise)

	greyscale := func(Spec) (Filter, error) { return NewGreyscale(), nil }
	Register("greyscale", greyscale)
	Register("grayscale", greyscale)

	Register("gaussian_blur", func(s Spec) (Filter, error) {
		return NewGaussianBlur(s.Params.Int("radius", 1), s.Params.Float("sigma", DefaultSigma)), nil
	})
	Register("emboss", func(Spec) (Filter, error) { return NewEmboss(), nil })
	Register("smooth", func(s Spec) (Filter, error) { return NewSmooth(s.Params.Float("weight", 1)), nil })
	Register("edge_detect", func(Spec) (Filter, error) { return NewEdgeDetect(), nil })
	Register("hsv_round_trip", func(Spec) (Filter, error) { return NewHSVRoundTrip(), nil })

	Register("caption", func(s Spec) (Filter, error) {
		c := NewCaption(s.Text)
		c.Timestamp = s.Params.Float("timestamp", 0) != 0
		c.X = s.Params.Int("x", c.X)
		c.Y = s.Params.Int("y", c.Y)
		c.Size = s.Params.Float("size", c.Size)
		return c, nil
	})
}
