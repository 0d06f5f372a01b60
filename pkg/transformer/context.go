package transformer

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/visual"
)

// Context is everything a transformer may read during one stage.
type Context struct {
	// Graph is the unmodified family graph.
	Graph *genealogy.Graph

	// Traversal overrides the parent/child relation of Graph when set.
	Traversal genealogy.Traversal

	// Anonymized is the companion graph with redacted names, or nil.
	Anonymized *genealogy.Graph

	// Visual is a snapshot of the metadata accumulated by earlier stages.
	Visual *visual.Complete

	Canvas              visual.Canvas
	Temperature         float64
	Seed                string
	PrimaryIndividualID string

	RunID      string
	InstanceID string
}

// Parents returns id's parents through Traversal, or Graph if unset.
func (c *Context) Parents(id string) []*genealogy.Individual {
	if c.Traversal != nil {
		return c.Traversal.Parents(id)
	}
	return c.Graph.Parents(id)
}

// Children returns id's children through Traversal, or Graph if unset.
func (c *Context) Children(id string) []*genealogy.Individual {
	if c.Traversal != nil {
		return c.Traversal.Children(id)
	}
	return c.Graph.Children(id)
}

// FatherMother returns id's two pedigree slots. A custom Traversal is slotted
// by sex; the graph's own family links are used otherwise.
func (c *Context) FatherMother(id string) (father, mother *genealogy.Individual) {
	if c.Traversal != nil {
		return genealogy.SlotParents(c.Traversal.Parents(id))
	}
	return c.Graph.FatherMother(id)
}

// Rand returns a generator seeded from the pipeline seed, the instance ID
// and salt. Two calls with the same inputs yield the same sequence.
func (c *Context) Rand(salt string) *rand.Rand {
	seed := xxhash.Sum64String(c.Seed + "\x00" + c.InstanceID + "\x00" + salt)
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Entity returns the accumulated metadata of an individual.
func (c *Context) Entity(id string) visual.Metadata {
	if c.Visual == nil {
		return visual.Metadata{}
	}
	return c.Visual.Individuals[id]
}
