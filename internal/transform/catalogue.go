package transform

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/xtxerr/oscana/internal/errors"
)

// Constructor builds a transform from configuration parameters.
type Constructor func(params map[string]any) (Transform, error)

// Catalogue maps transform names to constructors.
type Catalogue struct {
	ctors map[string]Constructor
}

// NewCatalogue returns a catalogue holding the built-in transforms.
func NewCatalogue() *Catalogue {
	c := &Catalogue{ctors: make(map[string]Constructor)}
	c.Register("range_cut", newRangeCut)
	c.Register("valid_plane", newValidPlaneCut)
	c.Register("normalise", newNormalise)
	return c
}

// Register adds or replaces a constructor.
func (c *Catalogue) Register(name string, ctor Constructor) {
	c.ctors[name] = ctor
}

// Names returns the known transform names, sorted.
func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.ctors))
	for n := range c.ctors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build constructs the named transform.
func (c *Catalogue) Build(name string, params map[string]any) (Transform, error) {
	ctor, ok := c.ctors[name]
	if !ok {
		return nil, fmt.Errorf("'%s' (known: %v): %w", name, c.Names(), errors.ErrUnknownTransform)
	}
	t, err := ctor(params)
	if err != nil {
		return nil, fmt.Errorf("transform '%s': %w", name, err)
	}
	return t, nil
}

func newRangeCut(p map[string]any) (Transform, error) {
	col, err := stringParam(p, "column", "")
	if err != nil {
		return nil, err
	}
	if col == "" {
		return nil, errors.NewMissingField("column")
	}
	lo, err := floatParam(p, "min")
	if err != nil {
		return nil, err
	}
	hi, err := floatParam(p, "max")
	if err != nil {
		return nil, err
	}
	return RangeCut{Column: col, Min: lo, Max: hi}, nil
}

func newValidPlaneCut(p map[string]any) (Transform, error) {
	col, err := stringParam(p, "column", "")
	if err != nil {
		return nil, err
	}
	return ValidPlaneCut{Column: col}, nil
}

func newNormalise(p map[string]any) (Transform, error) {
	col, err := stringParam(p, "column", "")
	if err != nil {
		return nil, err
	}
	if col == "" {
		return nil, errors.NewMissingField("column")
	}
	return Normalise{Column: col}, nil
}

func stringParam(p map[string]any, key, def string) (string, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewInvalidValue(key, v, "expected a string")
	}
	return s, nil
}

func floatParam(p map[string]any, key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, errors.NewMissingField(key)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, errors.NewInvalidValue(key, v, "expected a number")
		}
		return f, nil
	}
	return 0, errors.NewInvalidValue(key, v, "expected a number")
}
