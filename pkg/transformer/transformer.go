// Package transformer defines pipeline stages: their static configuration,
// bound parameters and runtime instances.
//
// Each transformer package (fanchart, walker, curve, style...) exports a
// [Config] value describing its parameter schema and default dimensions and
// pointing at a stateless [Func]. A pipeline binds a Config to concrete
// parameter values with [Config.NewInstance] and runs the [Instance]:
//
//	inst, err := fanchart.Transformer.NewInstance("fan", transformer.Dimensions{}, map[string]any{
//	    "maxGenerations": 4,
//	    "spreadDegrees":  270,
//	})
//	update, err := inst.Run(ctx, tc)
//
// Same context and same parameters always produce the same update. Any
// randomness comes from [Context.Rand], seeded from the pipeline seed.
package transformer

import (
	"context"

	"github.com/matzehuels/lineage/pkg/visual"
)

// Category groups transformers for listing.
type Category string

const (
	CategoryLayout   Category = "layout"
	CategoryGeometry Category = "geometry"
	CategoryStyle    Category = "style"
	CategoryVariance Category = "variance"
)

// Func computes a partial visual update. Implementations must not modify
// the context's graph or visual snapshot.
type Func func(ctx context.Context, tc *Context, p Params) (visual.Update, error)

// Dimensions selects the primary and optional secondary dimension by ID.
type Dimensions struct {
	Primary   string `json:"primary,omitempty" toml:"primary" yaml:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty" toml:"secondary" yaml:"secondary,omitempty"`
}

// IsZero reports whether no dimension is selected.
func (d Dimensions) IsZero() bool { return d.Primary == "" && d.Secondary == "" }

// Config is the static description of a transformer. It is never modified
// after registration.
type Config struct {
	// ID is the registry key, e.g. "fan-chart".
	ID string

	// Name is the human-readable name used in diagnostics.
	Name string

	Description string
	Category    Category

	// Params is the visual parameter schema. Bind fills missing values from
	// each spec's Default.
	Params []ParamSpec

	// DefaultDimensions applies when a pipeline selects none. A zero value
	// means the transformer does not read dimensions.
	DefaultDimensions Dimensions

	// EdgeDimensions selects edge dimensions instead of individual ones.
	EdgeDimensions bool

	// MultiInstance allows the transformer to appear more than once in a
	// pipeline.
	MultiInstance bool

	Transform Func
}

// Param returns the spec for the named parameter.
func (c *Config) Param(name string) (ParamSpec, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// NewInstance binds the config to concrete parameters.
func (c *Config) NewInstance(instanceID string, dims Dimensions, values map[string]any) (*Instance, error) {
	p, err := c.Bind(dims, values)
	if err != nil {
		return nil, err
	}
	return &Instance{Config: c, InstanceID: instanceID, Params: p}, nil
}

// Instance is a transformer bound to one set of parameters.
type Instance struct {
	Config     *Config
	InstanceID string
	Params     Params
}

// Run executes the transformer with the instance's parameters.
func (i *Instance) Run(ctx context.Context, tc *Context) (visual.Update, error) {
	return i.Config.Transform(ctx, tc, i.Params)
}
