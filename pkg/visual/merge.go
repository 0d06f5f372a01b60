package visual

import (
	"maps"
	"slices"
)

// Merge returns m with every field set in u overriding m's value. Fields
// absent in u are preserved. Custom maps merge recursively: nested
// map[string]any values merge key by key, any other value is replaced.
//
// The result shares no memory with m or u.
func (m Metadata) Merge(u Metadata) Metadata {
	out := m.mergeFields(u)
	if len(u.Custom) == 0 {
		out.Custom = cloneMap(m.Custom)
	} else {
		out.Custom = deepMerge(cloneMap(m.Custom), u.Custom)
	}
	return out
}

// MergeShallow is like [Metadata.Merge] but replaces top-level custom keys
// instead of merging nested maps. Tree and global metadata merge this way.
func (m Metadata) MergeShallow(u Metadata) Metadata {
	out := m.mergeFields(u)
	out.Custom = cloneMap(m.Custom)
	if len(u.Custom) > 0 {
		if out.Custom == nil {
			out.Custom = make(map[string]any, len(u.Custom))
		}
		for k, v := range u.Custom {
			out.Custom[k] = cloneValue(v)
		}
	}
	return out
}

func (m Metadata) mergeFields(u Metadata) Metadata {
	out := Metadata{
		X:        pick(m.X, u.X),
		Y:        pick(m.Y, u.Y),
		Size:     pick(m.Size, u.Size),
		Scale:    pick(m.Scale, u.Scale),
		Width:    pick(m.Width, u.Width),
		Height:   pick(m.Height, u.Height),
		Rotation: pick(m.Rotation, u.Rotation),

		Color:        pick(m.Color, u.Color),
		Opacity:      pick(m.Opacity, u.Opacity),
		Shape:        pick(m.Shape, u.Shape),
		ShapeProfile: pick(m.ShapeProfile, u.ShapeProfile),

		StrokeColor:   pick(m.StrokeColor, u.StrokeColor),
		StrokeWeight:  pick(m.StrokeWeight, u.StrokeWeight),
		StrokeStyle:   pick(m.StrokeStyle, u.StrokeStyle),
		StrokeOpacity: pick(m.StrokeOpacity, u.StrokeOpacity),

		CurveType:      pick(m.CurveType, u.CurveType),
		CurveIntensity: pick(m.CurveIntensity, u.CurveIntensity),
		ArcRadius:      pick(m.ArcRadius, u.ArcRadius),

		Group:    pick(m.Group, u.Group),
		Layer:    pick(m.Layer, u.Layer),
		Priority: pick(m.Priority, u.Priority),
		Hidden:   pick(m.Hidden, u.Hidden),
	}
	if u.ControlPoints != nil {
		out.ControlPoints = slices.Clone(u.ControlPoints)
	} else {
		out.ControlPoints = slices.Clone(m.ControlPoints)
	}
	return out
}

// pick returns a fresh copy of the update value if set, else of the base.
func pick[T any](base, update *T) *T {
	switch {
	case update != nil:
		v := *update
		return &v
	case base != nil:
		v := *base
		return &v
	}
	return nil
}

// Apply merges u into c in place. Entity entries merge field by field and
// entities missing from c are added; tree and global merge shallowly.
func (c *Complete) Apply(u Update) {
	c.Individuals = applyEntities(c.Individuals, u.Individuals)
	c.Families = applyEntities(c.Families, u.Families)
	c.Edges = applyEntities(c.Edges, u.Edges)
	if u.Tree != nil {
		c.Tree = c.Tree.MergeShallow(*u.Tree)
	}
	if u.Global != nil {
		c.Global = c.Global.MergeShallow(*u.Global)
	}
}

func applyEntities(dst, src map[string]Metadata) map[string]Metadata {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]Metadata, len(src))
	}
	for id, m := range src {
		dst[id] = dst[id].Merge(m)
	}
	return dst
}

// Merge returns base with u applied, leaving base untouched.
func Merge(base *Complete, u Update) *Complete {
	out := base.Clone()
	out.Apply(u)
	return out
}

// Compose returns the single update equivalent to applying a then b. This
// holds unless a Custom key changes between a map and a scalar across a and b.
func Compose(a, b Update) Update {
	out := Update{
		Individuals: composeEntities(a.Individuals, b.Individuals),
		Families:    composeEntities(a.Families, b.Families),
		Edges:       composeEntities(a.Edges, b.Edges),
		Tree:        composeShallow(a.Tree, b.Tree),
		Global:      composeShallow(a.Global, b.Global),
	}
	return out
}

func composeEntities(a, b map[string]Metadata) map[string]Metadata {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]Metadata, len(a)+len(b))
	for id, m := range a {
		out[id] = m.Merge(Metadata{})
	}
	for id, m := range b {
		out[id] = out[id].Merge(m)
	}
	return out
}

func composeShallow(a, b *Metadata) *Metadata {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		m := Metadata{}.MergeShallow(*b)
		return &m
	case b == nil:
		m := a.MergeShallow(Metadata{})
		return &m
	}
	m := a.MergeShallow(*b)
	return &m
}

// deepMerge merges src into dst recursively and returns dst.
func deepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		sub, srcIsMap := v.(map[string]any)
		existing, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[k] = deepMerge(existing, sub)
			continue
		}
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []float64:
		return slices.Clone(t)
	case []string:
		return slices.Clone(t)
	case []int:
		return slices.Clone(t)
	case map[string]float64:
		return maps.Clone(t)
	case map[string]string:
		return maps.Clone(t)
	}
	return v
}
