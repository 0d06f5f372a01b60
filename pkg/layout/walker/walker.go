// Package walker lays out descendant trees with Buchheim's linear-time
// version of Walker's tidy tree algorithm.
//
// Parents are centred over their children, siblings keep at least the
// sibling separation and neighbouring subtrees at least the subtree
// separation. With a primary individual the tree holds that person's
// descendants; otherwise every parentless individual roots a tree and the
// trees are laid out side by side under a virtual root. A person reachable
// through both parents is placed once, under the first parent visited.
package walker

import (
	"context"

	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/transformer"
	"github.com/matzehuels/lineage/pkg/visual"
)

// transformerID is the registry ID of Transformer.
const transformerID = "walker-tree"

// Transformer is the walker-tree layout.
var Transformer = &transformer.Config{
	ID:          transformerID,
	Name:        "Walker Tree",
	Description: "Tidy descendant tree with parents centred over their children",
	Category:    transformer.CategoryLayout,
	Params: []transformer.ParamSpec{
		transformer.Select("orientation", "Orientation", layout.TopDown, layout.TopDown, layout.LeftRight),
		transformer.Number("siblingSeparation", "Sibling separation", 40, 1, 1000),
		transformer.Number("subtreeSeparation", "Subtree separation", 60, 1, 1000),
		transformer.Number("levelSeparation", "Level separation", 80, 1, 1000),
		transformer.Number("padding", "Padding", 40, 0, 1000),
		transformer.Boolean("hideUnplaced", "Hide unplaced", true),
	},
	Transform: transform,
}

// Options is the typed form of the transformer's parameters.
type Options struct {
	Orientation       string
	SiblingSeparation float64
	SubtreeSeparation float64
	LevelSeparation   float64
	Padding           float64
	HideUnplaced      bool
}

// OptionsFrom reads Options from bound parameters.
func OptionsFrom(p transformer.Params) Options {
	return Options{
		Orientation:       p.String("orientation"),
		SiblingSeparation: p.Number("siblingSeparation"),
		SubtreeSeparation: p.Number("subtreeSeparation"),
		LevelSeparation:   p.Number("levelSeparation"),
		Padding:           p.Number("padding"),
		HideUnplaced:      p.Bool("hideUnplaced"),
	}
}

// Tree is a computed layout in unscaled top-down coordinates.
type Tree struct {
	Roots     []string
	Positions map[string]visual.Point
	Depths    map[string]int

	// Parent maps each non-root individual to the tree parent it was
	// placed under.
	Parent map[string]string

	// Children lists each individual's tree children in layout order.
	Children map[string][]string
}

func transform(ctx context.Context, tc *transformer.Context, p transformer.Params) (visual.Update, error) {
	opts := OptionsFrom(p)
	tree, err := Compute(tc, opts)
	if err != nil {
		return visual.Update{}, err
	}
	if err := ctx.Err(); err != nil {
		return visual.Update{}, err
	}

	points := make(map[string]visual.Point, len(tree.Positions))
	for id, pt := range tree.Positions {
		points[id] = layout.Orient(pt, opts.Orientation)
	}
	layout.Fit(points, tc.Canvas, opts.Padding)

	u := visual.NewUpdate()
	layout.Place(&u, points)
	for id, d := range tree.Depths {
		u.SetIndividual(id, visual.Metadata{Custom: map[string]any{"depth": d}})
	}
	if opts.HideUnplaced {
		layout.HideUnplaced(&u, tc.Graph, points)
	}
	layout.HideEdges(&u, tc.Graph, tree.Depths, -1)

	u.SetTree(visual.Metadata{Custom: map[string]any{
		"layout":      transformerID,
		"orientation": opts.Orientation,
		"roots":       append([]string(nil), tree.Roots...),
	}})
	return u, nil
}

// Compute lays out the descendant forest selected by tc.
func Compute(tc *transformer.Context, opts Options) (*Tree, error) {
	roots, err := roots(tc)
	if err != nil {
		return nil, err
	}

	virtual := newNode("", nil, 0, -1)
	virtual.virtual = true
	visited := make(map[string]bool)
	var queue []*node
	for _, r := range roots {
		n := newNode(r.ID, virtual, len(virtual.children)+1, 0)
		virtual.children = append(virtual.children, n)
		visited[r.ID] = true
		queue = append(queue, n)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, kid := range tc.Children(n.id) {
			if visited[kid.ID] {
				continue
			}
			visited[kid.ID] = true
			c := newNode(kid.ID, n, len(n.children)+1, n.depth+1)
			n.children = append(n.children, c)
			queue = append(queue, c)
		}
	}

	layoutTree(virtual, spacing{sibling: opts.SiblingSeparation, subtree: opts.SubtreeSeparation})

	tree := &Tree{
		Positions: make(map[string]visual.Point, len(visited)),
		Depths:    make(map[string]int, len(visited)),
		Parent:    make(map[string]string),
		Children:  make(map[string][]string),
	}
	var collect func(n *node)
	collect = func(n *node) {
		tree.Positions[n.id] = visual.Point{X: n.x, Y: float64(n.depth) * opts.LevelSeparation}
		tree.Depths[n.id] = n.depth
		for _, c := range n.children {
			tree.Parent[c.id] = n.id
			tree.Children[n.id] = append(tree.Children[n.id], c.id)
			collect(c)
		}
	}
	for _, r := range virtual.children {
		tree.Roots = append(tree.Roots, r.id)
		collect(r)
	}
	return tree, nil
}

// roots returns the ego when a primary individual is set, else every
// individual without parents. A graph where everyone has parents (a cycle)
// falls back to the default ego.
func roots(tc *transformer.Context) ([]*genealogy.Individual, error) {
	if tc.PrimaryIndividualID != "" {
		ego, err := layout.Ego(tc)
		if err != nil {
			return nil, err
		}
		return []*genealogy.Individual{ego}, nil
	}

	var out []*genealogy.Individual
	for _, ind := range tc.Graph.Individuals() {
		if len(tc.Parents(ind.ID)) == 0 {
			out = append(out, ind)
		}
	}
	if len(out) > 0 {
		return out, nil
	}
	ego, err := layout.Ego(tc)
	if err != nil {
		return nil, err
	}
	return []*genealogy.Individual{ego}, nil
}
