package transformer

import (
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/lineage/pkg/dimension"
	lerrors "github.com/matzehuels/lineage/pkg/errors"
)

// Kind is the type of a visual parameter.
type Kind string

const (
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindSelect  Kind = "select"
	KindColor   Kind = "color"
	KindString  Kind = "string"
)

// ParamSpec describes one visual parameter.
type ParamSpec struct {
	Name  string
	Label string
	Kind  Kind

	// Default must already be of the bound type: float64 for numbers, bool
	// for booleans, string otherwise.
	Default any

	// Min and Max bound numeric parameters when set.
	Min, Max *float64

	// Integer restricts a numeric parameter to whole numbers.
	Integer bool

	// Options lists the allowed values of a select parameter.
	Options []string
}

// Number declares a numeric parameter bounded to [lo, hi].
func Number(name, label string, def, lo, hi float64) ParamSpec {
	return ParamSpec{Name: name, Label: label, Kind: KindNumber, Default: def, Min: &lo, Max: &hi}
}

// Integer declares a whole-number parameter bounded to [lo, hi].
func Integer(name, label string, def, lo, hi int) ParamSpec {
	p := Number(name, label, float64(def), float64(lo), float64(hi))
	p.Integer = true
	return p
}

// Boolean declares a boolean parameter.
func Boolean(name, label string, def bool) ParamSpec {
	return ParamSpec{Name: name, Label: label, Kind: KindBoolean, Default: def}
}

// Select declares a parameter restricted to options.
func Select(name, label, def string, options ...string) ParamSpec {
	return ParamSpec{Name: name, Label: label, Kind: KindSelect, Default: def, Options: options}
}

// Color declares a hex color parameter.
func Color(name, label, def string) ParamSpec {
	return ParamSpec{Name: name, Label: label, Kind: KindColor, Default: def}
}

// String declares a free-form string parameter.
func String(name, label, def string) ParamSpec {
	return ParamSpec{Name: name, Label: label, Kind: KindString, Default: def}
}

// Params is an immutable set of bound parameter values.
type Params struct {
	Dimensions Dimensions
	values     map[string]any
}

// Number returns a numeric parameter.
func (p Params) Number(name string) float64 {
	v, _ := p.values[name].(float64)
	return v
}

// Int returns an [Integer] parameter.
func (p Params) Int(name string) int {
	return int(p.Number(name))
}

// Bool returns a boolean parameter.
func (p Params) Bool(name string) bool {
	v, _ := p.values[name].(bool)
	return v
}

// String returns a select, color or string parameter.
func (p Params) String(name string) string {
	v, _ := p.values[name].(string)
	return v
}

// Values returns a copy of every bound value.
func (p Params) Values() map[string]any {
	return maps.Clone(p.values)
}

// Bind validates values against the schema and fills defaults. Unknown
// names, kind mismatches, out-of-range numbers, unknown select options and
// unknown dimension IDs are reported together as one CONFIG_ERROR.
func (c *Config) Bind(dims Dimensions, values map[string]any) (Params, error) {
	var errs lerrors.ConfigErrors

	bound := make(map[string]any, len(c.Params))
	for _, spec := range c.Params {
		bound[spec.Name] = spec.Default
	}

	for _, name := range slices.Sorted(maps.Keys(values)) {
		spec, ok := c.Param(name)
		if !ok {
			errs = append(errs, lerrors.Config("%s: unknown parameter %q", c.ID, name))
			continue
		}
		v, err := spec.convert(values[name])
		if err != nil {
			errs = append(errs, lerrors.Config("%s: parameter %q: %s", c.ID, name, lerrors.UserMessage(err)))
			continue
		}
		bound[name] = v
	}

	dims = c.resolveDimensions(dims)
	for _, id := range []string{dims.Primary, dims.Secondary} {
		if id == "" {
			continue
		}
		if err := c.checkDimension(id); err != nil {
			errs = append(errs, lerrors.Config("%s: %s", c.ID, lerrors.UserMessage(err)))
		}
	}

	if err := errs.Err(); err != nil {
		return Params{}, err
	}
	return Params{Dimensions: dims, values: bound}, nil
}

func (c *Config) resolveDimensions(dims Dimensions) Dimensions {
	if dims.Primary == "" {
		return c.DefaultDimensions
	}
	return dims
}

func (c *Config) checkDimension(id string) error {
	if c.EdgeDimensions {
		_, err := dimension.LookupEdge(id)
		return err
	}
	_, err := dimension.Lookup(id)
	return err
}

func (s ParamSpec) convert(v any) (any, error) {
	switch s.Kind {
	case KindNumber:
		f, ok := toFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, lerrors.Config("expected a number, got %T", v)
		}
		if s.Integer && f != math.Trunc(f) {
			return nil, lerrors.Config("expected a whole number, got %v", f)
		}
		if s.Min != nil && f < *s.Min {
			return nil, lerrors.Config("%v is below the minimum %v", f, *s.Min)
		}
		if s.Max != nil && f > *s.Max {
			return nil, lerrors.Config("%v is above the maximum %v", f, *s.Max)
		}
		return f, nil
	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, lerrors.Config("expected a boolean, got %T", v)
		}
		return b, nil
	case KindSelect:
		str, ok := v.(string)
		if !ok {
			return nil, lerrors.Config("expected a string, got %T", v)
		}
		if !slices.Contains(s.Options, str) {
			return nil, lerrors.Config("%q is not one of %v", str, s.Options)
		}
		return str, nil
	case KindColor:
		str, ok := v.(string)
		if !ok {
			return nil, lerrors.Config("expected a color string, got %T", v)
		}
		if err := lerrors.ValidateColor(str); err != nil {
			return nil, err
		}
		return str, nil
	case KindString:
		str, ok := v.(string)
		if !ok {
			return nil, lerrors.Config("expected a string, got %T", v)
		}
		return str, nil
	}
	return nil, lerrors.Config("unsupported parameter kind %q", s.Kind)
}

// toFloat accepts the numeric types produced by the JSON, TOML and YAML
// decoders.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint:
		return float64(n), true
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
