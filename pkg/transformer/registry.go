package transformer

import (
	"fmt"
	"slices"
	"strings"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
)

// Registry is a read-only map from transformer ID to configuration.
type Registry struct {
	byID  map[string]*Config
	order []*Config
}

// NewRegistry indexes configs in the given order. It panics on an empty or
// duplicate ID, a missing Transform, or defaults that do not bind: all of
// these are programming errors caught at startup.
func NewRegistry(configs ...*Config) *Registry {
	r := &Registry{byID: make(map[string]*Config, len(configs))}
	for _, c := range configs {
		if c.ID == "" {
			panic("transformer: config with empty ID")
		}
		if _, dup := r.byID[c.ID]; dup {
			panic(fmt.Sprintf("transformer: duplicate ID %q", c.ID))
		}
		if c.Transform == nil {
			panic(fmt.Sprintf("transformer: %q has no Transform", c.ID))
		}
		defaults := make(map[string]any, len(c.Params))
		for _, p := range c.Params {
			defaults[p.Name] = p.Default
		}
		if _, err := c.Bind(Dimensions{}, defaults); err != nil {
			panic(fmt.Sprintf("transformer: %q defaults do not bind: %v", c.ID, err))
		}
		r.byID[c.ID] = c
		r.order = append(r.order, c)
	}
	return r
}

// Lookup returns the config for id or a CONFIG_ERROR naming the known IDs.
func (r *Registry) Lookup(id string) (*Config, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, lerrors.Config("unknown transformer %q (available: %s)", id, strings.Join(r.IDs(), ", "))
}

// List returns every config in registration order.
func (r *Registry) List() []*Config {
	return slices.Clone(r.order)
}

// IDs returns every transformer ID in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	for i, c := range r.order {
		ids[i] = c.ID
	}
	return ids
}
