package genealogy

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
)

var (
	// ErrInvalidID is returned by [New] when an individual, family or edge
	// has an empty or malformed identifier.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrDuplicateID is returned by [New] when two individuals, two families
	// or two edges share an identifier.
	ErrDuplicateID = errors.New("duplicate identifier")
)

// Relationship types carried by [Edge.RelationshipType].
const (
	RelParentChild = "parent-child"
	RelSpouse      = "spouse"
	RelSibling     = "sibling"
)

// Sex values for [Individual.Sex].
const (
	SexMale    = "M"
	SexFemale  = "F"
	SexUnknown = "U"
)

// Event is a dated life event (birth, death).
type Event struct {
	Year  *int   `json:"year,omitempty"`
	Date  string `json:"date,omitempty"`
	Place string `json:"place,omitempty"`
}

// Metadata holds values precomputed by the loader. Nil means unknown.
type Metadata struct {
	Generation *int     `json:"generation,omitempty"`
	Lifespan   *float64 `json:"lifespan,omitempty"`
	BirthOrder *int     `json:"birthOrder,omitempty"`
}

// Individual is a person in the family graph. Parents, Children and Spouses
// hold individual IDs.
type Individual struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Sex      string   `json:"sex,omitempty"`
	Birth    *Event   `json:"birth,omitempty"`
	Death    *Event   `json:"death,omitempty"`
	Parents  []string `json:"parents,omitempty"`
	Children []string `json:"children,omitempty"`
	Spouses  []string `json:"spouses,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// BirthYear returns the birth year if known.
func (i *Individual) BirthYear() (int, bool) {
	if i.Birth == nil || i.Birth.Year == nil {
		return 0, false
	}
	return *i.Birth.Year, true
}

// Family links a couple to their children.
type Family struct {
	ID       string   `json:"id"`
	Husband  string   `json:"husband,omitempty"`
	Wife     string   `json:"wife,omitempty"`
	Children []string `json:"children,omitempty"`
}

// Edge is a typed relationship between two individuals. For parent-child
// edges SourceID is the parent.
type Edge struct {
	ID               string `json:"id"`
	SourceID         string `json:"sourceId"`
	TargetID         string `json:"targetId"`
	RelationshipType string `json:"relationshipType"`
}

// Data is the loader's output document.
type Data struct {
	Individuals []Individual `json:"individuals"`
	Families    []Family     `json:"families,omitempty"`
	Edges       []Edge       `json:"edges,omitempty"`
}

// Traversal exposes the parent/child relation. Implementations return a
// possibly empty, deterministically ordered sequence.
type Traversal interface {
	Parents(id string) []*Individual
	Children(id string) []*Individual
}

// Graph is an indexed, read-only view over [Data].
//
// The zero value is not usable; use [New]. A Graph is safe for concurrent
// reads because nothing mutates it after construction.
type Graph struct {
	individuals []*Individual
	families    []*Family
	edges       []Edge

	byID        map[string]*Individual
	familyByID  map[string]*Family
	childOf     map[string][]*Family // individual -> families listing them as child
	parentIn    map[string][]*Family // individual -> families where they are husband or wife
	resolved    []Edge
	dangling    []Edge
}

// New indexes d. Individuals keep their input order. Edges whose endpoints
// do not resolve are kept aside in [Graph.DanglingEdges].
func New(d Data) (*Graph, error) {
	g := &Graph{
		byID:       make(map[string]*Individual, len(d.Individuals)),
		familyByID: make(map[string]*Family, len(d.Families)),
		childOf:    make(map[string][]*Family),
		parentIn:   make(map[string][]*Family),
	}

	for i := range d.Individuals {
		ind := d.Individuals[i]
		if err := lerrors.ValidateIdentifier("individual id", ind.ID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		if _, exists := g.byID[ind.ID]; exists {
			return nil, fmt.Errorf("%w: individual %q", ErrDuplicateID, ind.ID)
		}
		p := &ind
		g.individuals = append(g.individuals, p)
		g.byID[ind.ID] = p
	}

	for i := range d.Families {
		fam := d.Families[i]
		if err := lerrors.ValidateIdentifier("family id", fam.ID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		if _, exists := g.familyByID[fam.ID]; exists {
			return nil, fmt.Errorf("%w: family %q", ErrDuplicateID, fam.ID)
		}
		p := &fam
		g.families = append(g.families, p)
		g.familyByID[fam.ID] = p
		for _, c := range fam.Children {
			g.childOf[c] = append(g.childOf[c], p)
		}
		for _, spouse := range []string{fam.Husband, fam.Wife} {
			if spouse != "" {
				g.parentIn[spouse] = append(g.parentIn[spouse], p)
			}
		}
	}

	seenEdges := make(map[string]bool, len(d.Edges))
	for _, e := range d.Edges {
		if err := lerrors.ValidateIdentifier("edge id", e.ID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		if seenEdges[e.ID] {
			return nil, fmt.Errorf("%w: edge %q", ErrDuplicateID, e.ID)
		}
		seenEdges[e.ID] = true
		g.edges = append(g.edges, e)
		if g.byID[e.SourceID] != nil && g.byID[e.TargetID] != nil {
			g.resolved = append(g.resolved, e)
		} else {
			g.dangling = append(g.dangling, e)
		}
	}

	return g, nil
}

// MustNew is like [New] but panics on error. Intended for tests and fixtures.
func MustNew(d Data) *Graph {
	g, err := New(d)
	if err != nil {
		panic(err)
	}
	return g
}

// Individual returns the individual with the given ID.
func (g *Graph) Individual(id string) (*Individual, bool) {
	ind, ok := g.byID[id]
	return ind, ok
}

// Family returns the family with the given ID.
func (g *Graph) Family(id string) (*Family, bool) {
	f, ok := g.familyByID[id]
	return f, ok
}

// Individuals returns all individuals in input order.
func (g *Graph) Individuals() []*Individual { return g.individuals }

// Families returns all families in input order.
func (g *Graph) Families() []*Family { return g.families }

// Edges returns every edge, including dangling ones.
func (g *Graph) Edges() []Edge { return g.edges }

// ResolvedEdges returns edges whose endpoints both exist.
func (g *Graph) ResolvedEdges() []Edge { return g.resolved }

// DanglingEdges returns edges referencing at least one unknown individual.
func (g *Graph) DanglingEdges() []Edge { return g.dangling }

// IndividualCount returns the number of individuals.
func (g *Graph) IndividualCount() int { return len(g.individuals) }

// Parents returns the individual's parents. The individual's own parent list
// wins; when it is empty the families listing the individual as a child are
// consulted (husband before wife).
func (g *Graph) Parents(id string) []*Individual {
	ind, ok := g.byID[id]
	if !ok {
		return nil
	}
	if len(ind.Parents) > 0 {
		return g.resolve(ind.Parents)
	}
	var ids []string
	for _, f := range g.childOf[id] {
		ids = appendNonEmpty(ids, f.Husband, f.Wife)
	}
	return g.resolve(ids)
}

// Children returns the individual's children, ordered by birth order, birth
// year and then ID. Family links are the fallback when the individual carries
// no child list.
func (g *Graph) Children(id string) []*Individual {
	ind, ok := g.byID[id]
	if !ok {
		return nil
	}
	ids := ind.Children
	if len(ids) == 0 {
		for _, f := range g.parentIn[id] {
			ids = append(ids, f.Children...)
		}
	}
	kids := g.resolve(ids)
	slices.SortStableFunc(kids, CompareSiblings)
	return kids
}

// Spouses returns the individual's spouses, falling back to family links.
func (g *Graph) Spouses(id string) []*Individual {
	ind, ok := g.byID[id]
	if !ok {
		return nil
	}
	if len(ind.Spouses) > 0 {
		return g.resolve(ind.Spouses)
	}
	var ids []string
	for _, f := range g.parentIn[id] {
		if f.Husband == id {
			ids = appendNonEmpty(ids, f.Wife)
		} else {
			ids = appendNonEmpty(ids, f.Husband)
		}
	}
	return g.resolve(ids)
}

// FatherMother resolves the two pedigree slots of an individual. Family
// husband/wife are authoritative; otherwise parents are placed by sex, and
// parents of unknown sex fill the remaining slots in list order.
func (g *Graph) FatherMother(id string) (father, mother *Individual) {
	for _, f := range g.childOf[id] {
		if father == nil && f.Husband != "" {
			father = g.byID[f.Husband]
		}
		if mother == nil && f.Wife != "" {
			mother = g.byID[f.Wife]
		}
	}
	if father != nil || mother != nil {
		return father, mother
	}
	return SlotParents(g.Parents(id))
}

// SlotParents assigns up to two parents to father and mother slots by sex.
func SlotParents(parents []*Individual) (father, mother *Individual) {
	var unknown []*Individual
	for _, p := range parents {
		switch {
		case p.Sex == SexMale && father == nil:
			father = p
		case p.Sex == SexFemale && mother == nil:
			mother = p
		default:
			unknown = append(unknown, p)
		}
	}
	for _, p := range unknown {
		if father == nil {
			father = p
		} else if mother == nil {
			mother = p
		}
	}
	return father, mother
}

// CompareSiblings orders individuals by birth order, then birth year, then ID.
// Unknown values sort after known ones.
func CompareSiblings(a, b *Individual) int {
	if c := compareOptional(a.Metadata.BirthOrder, b.Metadata.BirthOrder); c != 0 {
		return c
	}
	ay, aok := a.BirthYear()
	by, bok := b.BirthYear()
	if c := compareKnown(ay, aok, by, bok); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func compareOptional(a, b *int) int {
	var av, bv int
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return compareKnown(av, a != nil, bv, b != nil)
}

func compareKnown(a int, aok bool, b int, bok bool) int {
	switch {
	case aok && bok:
		return cmp.Compare(a, b)
	case aok:
		return -1
	case bok:
		return 1
	}
	return 0
}

func (g *Graph) resolve(ids []string) []*Individual {
	seen := make(map[string]bool, len(ids))
	out := make([]*Individual, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if ind, ok := g.byID[id]; ok {
			out = append(out, ind)
		}
	}
	return out
}

func appendNonEmpty(dst []string, ids ...string) []string {
	for _, id := range ids {
		if id != "" {
			dst = append(dst, id)
		}
	}
	return dst
}

var _ Traversal = (*Graph)(nil)
