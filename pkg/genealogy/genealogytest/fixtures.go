// Package genealogytest provides small family graphs for tests.
package genealogytest

import (
	"fmt"

	"github.com/matzehuels/lineage/pkg/genealogy"
)

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Person builds an individual with a generation and birth year.
func Person(id, sex string, generation, birthYear int) genealogy.Individual {
	return genealogy.Individual{
		ID:       id,
		Name:     id,
		Sex:      sex,
		Birth:    &genealogy.Event{Year: Int(birthYear)},
		Metadata: genealogy.Metadata{Generation: Int(generation)},
	}
}

// ParentChild builds a parent-child edge with a derived ID.
func ParentChild(parent, child string) genealogy.Edge {
	return genealogy.Edge{
		ID:               fmt.Sprintf("%s->%s", parent, child),
		SourceID:         parent,
		TargetID:         child,
		RelationshipType: genealogy.RelParentChild,
	}
}

// Spouse builds a spouse edge with a derived ID.
func Spouse(a, b string) genealogy.Edge {
	return genealogy.Edge{
		ID:               fmt.Sprintf("%s=%s", a, b),
		SourceID:         a,
		TargetID:         b,
		RelationshipType: genealogy.RelSpouse,
	}
}

// NuclearFamily is ego plus father and mother, linked through one family.
//
// Generations follow the loader convention used by fan charts: ego is 0 and
// parents are 1.
func NuclearFamily() *genealogy.Graph {
	return genealogy.MustNew(genealogy.Data{
		Individuals: []genealogy.Individual{
			withLifespan(Person("ego", genealogy.SexFemale, 0, 1980), 40),
			withLifespan(Person("father", genealogy.SexMale, 1, 1950), 70),
			withLifespan(Person("mother", genealogy.SexFemale, 1, 1952), 65),
		},
		Families: []genealogy.Family{
			{ID: "F1", Husband: "father", Wife: "mother", Children: []string{"ego"}},
		},
		Edges: []genealogy.Edge{
			ParentChild("father", "ego"),
			ParentChild("mother", "ego"),
			Spouse("father", "mother"),
		},
	})
}

// Pedigree builds a complete ancestor tree of the given depth. Individual IDs
// are "p<generation>.<slot>", ego is "p0.0", and slot k's father and mother
// are slots 2k and 2k+1 of the next generation. Every parent-child link gets
// an edge, plus one long edge from ego to its first ancestor at the deepest
// generation ("skip") when depth >= 3.
func Pedigree(depth int) *genealogy.Graph {
	var d genealogy.Data
	id := func(g, k int) string { return fmt.Sprintf("p%d.%d", g, k) }

	for g := 0; g <= depth; g++ {
		for k := 0; k < 1<<g; k++ {
			sex := genealogy.SexMale
			if k%2 == 1 {
				sex = genealogy.SexFemale
			}
			d.Individuals = append(d.Individuals, Person(id(g, k), sex, g, 2000-25*g))
		}
	}
	for g := 0; g < depth; g++ {
		for k := 0; k < 1<<g; k++ {
			father, mother := id(g+1, 2*k), id(g+1, 2*k+1)
			d.Families = append(d.Families, genealogy.Family{
				ID:       fmt.Sprintf("F%d.%d", g, k),
				Husband:  father,
				Wife:     mother,
				Children: []string{id(g, k)},
			})
			d.Edges = append(d.Edges, ParentChild(father, id(g, k)), ParentChild(mother, id(g, k)))
		}
	}
	if depth >= 3 {
		d.Edges = append(d.Edges, genealogy.Edge{
			ID:               "skip",
			SourceID:         id(3, 0),
			TargetID:         id(0, 0),
			RelationshipType: genealogy.RelParentChild,
		})
	}
	return genealogy.MustNew(d)
}

// Descendants builds a root with the given number of children per level.
// IDs are "d" for the root and "d.<i>.<j>..." for descendants; generations
// count down from the root (root is 0, children 1).
func Descendants(branching []int) *genealogy.Graph {
	var d genealogy.Data
	var build func(id string, gen int)
	build = func(id string, gen int) {
		ind := Person(id, genealogy.SexUnknown, gen, 1900+25*gen)
		if gen < len(branching) {
			for i := 0; i < branching[gen]; i++ {
				child := fmt.Sprintf("%s.%d", id, i)
				ind.Children = append(ind.Children, child)
				d.Edges = append(d.Edges, ParentChild(id, child))
			}
		}
		d.Individuals = append(d.Individuals, ind)
		for _, c := range ind.Children {
			build(c, gen+1)
		}
	}
	build("d", 0)
	for i := range d.Individuals {
		ind := &d.Individuals[i]
		for j, c := range ind.Children {
			for k := range d.Individuals {
				if d.Individuals[k].ID == c {
					d.Individuals[k].Parents = []string{ind.ID}
					d.Individuals[k].Metadata.BirthOrder = Int(j)
				}
			}
		}
	}
	return genealogy.MustNew(d)
}

// CousinMarriage is a pedigree where ego's parents are first cousins, so the
// shared grandparents' parents appear twice among ego's great-grandparents.
// It also contains a cycle ("loop" is listed as its own grandparent) to check
// traversal guards.
func CousinMarriage() *genealogy.Graph {
	return genealogy.MustNew(genealogy.Data{
		Individuals: []genealogy.Individual{
			{ID: "ego", Parents: []string{"dad", "mom"}},
			{ID: "dad", Sex: genealogy.SexMale, Parents: []string{"gpa1", "gma1"}, Children: []string{"ego"}},
			{ID: "mom", Sex: genealogy.SexFemale, Parents: []string{"gpa2", "gma2"}, Children: []string{"ego"}},
			{ID: "gpa1", Sex: genealogy.SexMale, Parents: []string{"ggpa", "ggma"}, Children: []string{"dad"}},
			{ID: "gma1", Sex: genealogy.SexFemale, Children: []string{"dad"}},
			{ID: "gpa2", Sex: genealogy.SexMale, Children: []string{"mom"}},
			{ID: "gma2", Sex: genealogy.SexFemale, Parents: []string{"ggpa", "ggma"}, Children: []string{"mom"}},
			{ID: "ggpa", Sex: genealogy.SexMale, Parents: []string{"loop"}, Children: []string{"gpa1", "gma2"}},
			{ID: "ggma", Sex: genealogy.SexFemale, Children: []string{"gpa1", "gma2"}},
			{ID: "loop", Sex: genealogy.SexMale, Parents: []string{"gpa1"}, Children: []string{"ggpa"}},
		},
	})
}

// Dangling returns a graph with one edge referencing an unknown individual.
func Dangling() *genealogy.Graph {
	return genealogy.MustNew(genealogy.Data{
		Individuals: []genealogy.Individual{
			Person("a", genealogy.SexMale, 1, 1950),
			Person("b", genealogy.SexFemale, 0, 1980),
		},
		Edges: []genealogy.Edge{
			ParentChild("a", "b"),
			ParentChild("ghost", "b"),
		},
	})
}

func withLifespan(ind genealogy.Individual, years float64) genealogy.Individual {
	ind.Metadata.Lifespan = Float(years)
	return ind
}
