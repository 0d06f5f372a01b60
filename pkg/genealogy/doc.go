// Package genealogy provides the read-only family graph consumed by the
// visual transformer pipeline.
//
// # Overview
//
// A loader (GEDCOM parser, dataset import) produces a [Data] document of
// individuals, families and typed edges. [New] indexes it into a [Graph] that
// transformers query but never modify.
//
//	g, err := genealogy.New(genealogy.Data{
//	    Individuals: []genealogy.Individual{{ID: "ego"}, {ID: "dad", Sex: "M"}},
//	    Families:    []genealogy.Family{{ID: "F1", Husband: "dad", Children: []string{"ego"}}},
//	})
//
// # Traversal
//
// [Traversal] is the typed graph-access interface used by layouts. [Graph]
// implements it from each individual's own parent/child lists and falls back
// to family links when those lists are empty, so loaders that only emit
// families still produce usable pedigrees.
//
// # Edge Resolution
//
// Every edge endpoint must resolve to an individual. Edges that do not are
// kept out of [Graph.ResolvedEdges] and reported by [Graph.DanglingEdges];
// the pipeline hides them and records a warning instead of positioning them.
package genealogy
