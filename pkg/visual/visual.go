// Package visual defines the per-entity visual metadata produced by the
// transformer pipeline and the merge engine that accumulates it.
//
// Every field of [Metadata] is optional. A nil pointer means "unset by any
// transformer so far", which is different from zero: a transformer that sets
// Opacity to 0 hides an entity, one that leaves it nil defers to
// [Complete.Global].
//
// [Complete] is created once per pipeline run with every individual, family
// and edge pre-registered. Transformers return an [Update]; the pipeline
// applies it with [Complete.Apply]. Entities are never removed, only hidden.
package visual

import (
	"math"

	"github.com/matzehuels/lineage/pkg/genealogy"
)

// Curve types understood by renderers.
const (
	CurveStraight  = "straight"
	CurveQuadratic = "quadratic"
	CurveBezier    = "bezier"
	CurveArc       = "arc"
	CurveCatenary  = "catenary"
	CurveStep      = "step"
	CurveSCurve    = "s-curve"
)

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Metadata is the bag of rendering attributes for one entity.
type Metadata struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Size     *float64 `json:"size,omitempty"`
	Scale    *float64 `json:"scale,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`

	Color        *string  `json:"color,omitempty"`
	Opacity      *float64 `json:"opacity,omitempty"`
	Shape        *string  `json:"shape,omitempty"`
	ShapeProfile *string  `json:"shapeProfile,omitempty"`

	StrokeColor   *string  `json:"strokeColor,omitempty"`
	StrokeWeight  *float64 `json:"strokeWeight,omitempty"`
	StrokeStyle   *string  `json:"strokeStyle,omitempty"`
	StrokeOpacity *float64 `json:"strokeOpacity,omitempty"`

	CurveType      *string  `json:"curveType,omitempty"`
	CurveIntensity *float64 `json:"curveIntensity,omitempty"`
	ControlPoints  []Point  `json:"controlPoints,omitempty"` // nil means unset
	ArcRadius      *float64 `json:"arcRadius,omitempty"`

	Group    *string `json:"group,omitempty"`
	Layer    *int    `json:"layer,omitempty"`
	Priority *int    `json:"priority,omitempty"`
	Hidden   *bool   `json:"hidden,omitempty"`

	Custom map[string]any `json:"custom,omitempty"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Hide returns an update that marks an entity invisible.
func Hide() Metadata {
	return Metadata{Hidden: Ptr(true), Opacity: Ptr(0.0)}
}

// IsHidden reports whether m is marked hidden or fully transparent.
func (m Metadata) IsHidden() bool {
	return (m.Hidden != nil && *m.Hidden) || (m.Opacity != nil && *m.Opacity == 0)
}

// Position returns the entity's coordinates if both are set.
func (m Metadata) Position() (Point, bool) {
	if m.X == nil || m.Y == nil {
		return Point{}, false
	}
	return Point{X: *m.X, Y: *m.Y}, true
}

// At returns metadata positioned at p.
func At(p Point) Metadata {
	return Metadata{X: Ptr(p.X), Y: Ptr(p.Y)}
}

// IsEmpty reports whether no field is set.
func (m Metadata) IsEmpty() bool {
	return m.X == nil && m.Y == nil && m.Size == nil && m.Scale == nil &&
		m.Width == nil && m.Height == nil && m.Rotation == nil &&
		m.Color == nil && m.Opacity == nil && m.Shape == nil && m.ShapeProfile == nil &&
		m.StrokeColor == nil && m.StrokeWeight == nil && m.StrokeStyle == nil && m.StrokeOpacity == nil &&
		m.CurveType == nil && m.CurveIntensity == nil && m.ControlPoints == nil && m.ArcRadius == nil &&
		m.Group == nil && m.Layer == nil && m.Priority == nil && m.Hidden == nil &&
		len(m.Custom) == 0
}

// Complete is the accumulated visual metadata for every entity of a graph.
type Complete struct {
	Individuals map[string]Metadata `json:"individuals"`
	Families    map[string]Metadata `json:"families"`
	Edges       map[string]Metadata `json:"edges"`
	Tree        Metadata            `json:"tree"`
	Global      Metadata            `json:"global"`
}

// Canvas is the drawing area in renderer units.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the middle of the canvas.
func (c Canvas) Center() Point {
	return Point{X: c.Width / 2, Y: c.Height / 2}
}

// Radius returns half of the shorter side.
func (c Canvas) Radius() float64 {
	return math.Min(c.Width, c.Height) / 2
}

// Global renderer defaults applied to entities that leave a field unset.
const (
	DefaultColor         = "#4a5568"
	DefaultSize          = 8.0
	DefaultShape         = "circle"
	DefaultStrokeColor   = "#a0aec0"
	DefaultStrokeWeight  = 1.0
	DefaultStrokeOpacity = 0.6
)

// NewComplete creates the accumulator for g with every individual, family
// and edge registered, dangling edges included.
func NewComplete(g *genealogy.Graph, canvas Canvas) *Complete {
	c := &Complete{
		Individuals: make(map[string]Metadata, g.IndividualCount()),
		Families:    make(map[string]Metadata, len(g.Families())),
		Edges:       make(map[string]Metadata, len(g.Edges())),
		Tree: Metadata{
			Width:  Ptr(canvas.Width),
			Height: Ptr(canvas.Height),
		},
		Global: Metadata{
			Color:         Ptr(DefaultColor),
			Size:          Ptr(DefaultSize),
			Shape:         Ptr(DefaultShape),
			Opacity:       Ptr(1.0),
			StrokeColor:   Ptr(DefaultStrokeColor),
			StrokeWeight:  Ptr(DefaultStrokeWeight),
			StrokeOpacity: Ptr(DefaultStrokeOpacity),
			StrokeStyle:   Ptr("solid"),
			CurveType:     Ptr(CurveStraight),
		},
	}
	for _, ind := range g.Individuals() {
		c.Individuals[ind.ID] = Metadata{}
	}
	for _, f := range g.Families() {
		c.Families[f.ID] = Metadata{}
	}
	for _, e := range g.Edges() {
		c.Edges[e.ID] = Metadata{}
	}
	return c
}

// Clone returns a deep copy that shares no memory with c.
func (c *Complete) Clone() *Complete {
	out := &Complete{
		Individuals: cloneEntities(c.Individuals),
		Families:    cloneEntities(c.Families),
		Edges:       cloneEntities(c.Edges),
		Tree:        c.Tree.Merge(Metadata{}),
		Global:      c.Global.Merge(Metadata{}),
	}
	return out
}

func cloneEntities(m map[string]Metadata) map[string]Metadata {
	out := make(map[string]Metadata, len(m))
	for id, md := range m {
		out[id] = md.Merge(Metadata{})
	}
	return out
}

// Update is a partial [Complete] returned by a transformer.
type Update struct {
	Individuals map[string]Metadata `json:"individuals,omitempty"`
	Families    map[string]Metadata `json:"families,omitempty"`
	Edges       map[string]Metadata `json:"edges,omitempty"`
	Tree        *Metadata           `json:"tree,omitempty"`
	Global      *Metadata           `json:"global,omitempty"`
}

// NewUpdate returns an update with allocated entity maps.
func NewUpdate() Update {
	return Update{
		Individuals: make(map[string]Metadata),
		Families:    make(map[string]Metadata),
		Edges:       make(map[string]Metadata),
	}
}

// SetIndividual merges m into the update's entry for id.
func (u *Update) SetIndividual(id string, m Metadata) {
	u.Individuals = setEntity(u.Individuals, id, m)
}

// SetFamily merges m into the update's entry for id.
func (u *Update) SetFamily(id string, m Metadata) {
	u.Families = setEntity(u.Families, id, m)
}

// SetEdge merges m into the update's entry for id.
func (u *Update) SetEdge(id string, m Metadata) {
	u.Edges = setEntity(u.Edges, id, m)
}

// SetTree shallow-merges m into the update's tree metadata.
func (u *Update) SetTree(m Metadata) {
	u.Tree = setShallow(u.Tree, m)
}

// SetGlobal shallow-merges m into the update's global metadata.
func (u *Update) SetGlobal(m Metadata) {
	u.Global = setShallow(u.Global, m)
}

// IsEmpty reports whether the update carries nothing.
func (u Update) IsEmpty() bool {
	return len(u.Individuals) == 0 && len(u.Families) == 0 && len(u.Edges) == 0 &&
		u.Tree == nil && u.Global == nil
}

func setEntity(dst map[string]Metadata, id string, m Metadata) map[string]Metadata {
	if dst == nil {
		dst = make(map[string]Metadata)
	}
	dst[id] = dst[id].Merge(m)
	return dst
}

func setShallow(dst *Metadata, m Metadata) *Metadata {
	var base Metadata
	if dst != nil {
		base = *dst
	}
	merged := base.MergeShallow(m)
	return &merged
}
