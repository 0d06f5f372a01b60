// Package pkg provides the core libraries for lineage genealogy visuals.
//
// # Overview
//
// Lineage turns a family graph into visual metadata: positions, sizes,
// colors and edge geometry that a renderer can draw directly. Work is split
// into small transformers chained by a pipeline. The pkg directory is
// organized into four areas:
//
//  1. Model: [genealogy] (graph, traversal, anonymization), [visual]
//     (metadata and merging) and [dimension] (normalized properties)
//  2. Transformers: [layout] (fan chart, Walker tree, simple tree),
//     [curve] (edge geometry) and [style] (size, color, shape, variance)
//  3. Orchestration: [transformer] (schemas, parameter binding, registry)
//     and [pipeline] (validation, execution, diagnostics)
//  4. Support: [errors], [observability], [cache], [render] and [buildinfo]
//
// # Architecture
//
// The data flow through a run:
//
//	family.json + pipeline.toml
//	         ↓
//	    [pipeline] validates the definition against the registry
//	         ↓
//	    each [transformer] stage reads the graph and earlier metadata
//	         ↓
//	    [visual] merges each stage's update into the accumulator
//	         ↓
//	    JSON result, or a [render/nodelink] preview
//
// # Quick Start
//
//	g, _ := genealogy.ReadFile("family.json")
//	cfg, _ := pipeline.LoadConfigFile("pipeline.toml")
//
//	res, err := pipeline.NewRunner(nil, logger).Execute(ctx, g, cfg)
//	if err != nil {
//	    return err // CONFIG_ERROR
//	}
//	for _, d := range res.Diagnostics {
//	    fmt.Println(d.InstanceID, d.Success)
//	}
package pkg
