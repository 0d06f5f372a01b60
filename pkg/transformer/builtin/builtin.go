// Package builtin provides the complete list of built-in transformers.
//
// This package exists to break import cycles: the transformer packages
// (fanchart, walker, curve, style...) import pkg/transformer, so
// pkg/transformer cannot import them back. Consumers that need the full
// registry import this package.
//
// Usage:
//
//	import "github.com/matzehuels/lineage/pkg/transformer/builtin"
//
//	for _, cfg := range builtin.Registry().List() {
//	    fmt.Println(cfg.ID)
//	}
package builtin

import (
	"sync"

	"github.com/matzehuels/lineage/pkg/curve"
	"github.com/matzehuels/lineage/pkg/layout/fanchart"
	"github.com/matzehuels/lineage/pkg/layout/simple"
	"github.com/matzehuels/lineage/pkg/layout/walker"
	"github.com/matzehuels/lineage/pkg/style"
	"github.com/matzehuels/lineage/pkg/transformer"
)

// All is the canonical list of built-in transformers in registration order:
// layouts first, then geometry, then styles.
var All = append([]*transformer.Config{
	fanchart.Transformer,
	walker.Transformer,
	simple.Transformer,
	curve.Transformer,
}, style.Transformers...)

// Registry returns the process-wide registry of All. It is built on first
// use and read-only afterwards.
var Registry = sync.OnceValue(func() *transformer.Registry {
	return transformer.NewRegistry(All...)
})

// Find returns the transformer with the given ID, or nil if not found.
func Find(id string) *transformer.Config {
	cfg, err := Registry().Lookup(id)
	if err != nil {
		return nil
	}
	return cfg
}
