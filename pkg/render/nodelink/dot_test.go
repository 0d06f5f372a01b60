package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lineage/pkg/genealogy/genealogytest"
	"github.com/matzehuels/lineage/pkg/visual"
)

func TestToDOTWithoutMetadata(t *testing.T) {
	dot := ToDOT(genealogytest.NuclearFamily(), nil, Options{})

	assert.Contains(t, dot, "rankdir=TB")
	assert.NotContains(t, dot, "neato")
	assert.Contains(t, dot, `"father" -> "ego"`)
	assert.Contains(t, dot, `"father" -> "mother" [`)
	assert.Contains(t, dot, "dir=none")
	assert.Contains(t, dot, `fillcolor="`+visual.DefaultColor+`"`)
}

func TestToDOTPinsPositions(t *testing.T) {
	g := genealogytest.NuclearFamily()
	vis := visual.NewComplete(g, visual.Canvas{Width: 200, Height: 100})
	vis.Apply(visual.Update{Individuals: map[string]visual.Metadata{
		"ego":    {X: visual.Ptr(100.0), Y: visual.Ptr(80.0), Color: visual.Ptr("#ff0000"), Shape: visual.Ptr("square")},
		"father": {X: visual.Ptr(50.0), Y: visual.Ptr(20.0)},
		"mother": visual.Hide(),
	}})

	dot := ToDOT(g, vis, Options{})

	assert.Contains(t, dot, "layout=neato")
	assert.Contains(t, dot, `pos="100,20!"`)
	assert.Contains(t, dot, `pos="50,80!"`)
	assert.Contains(t, dot, `fillcolor="#ff0000"`)
	assert.Contains(t, dot, "shape=box")
	assert.NotContains(t, dot, `"mother"`, "hidden individuals and their edges are omitted")
}

func TestToDOTSkipsHiddenAndDanglingEdges(t *testing.T) {
	g := genealogytest.Dangling()
	vis := visual.NewComplete(g, visual.Canvas{Width: 100, Height: 100})
	dot := ToDOT(g, vis, Options{})
	assert.Contains(t, dot, `"a" -> "b"`)
	assert.NotContains(t, dot, "ghost")

	vis.Apply(visual.Update{Edges: map[string]visual.Metadata{"a->b": visual.Hide()}})
	assert.NotContains(t, ToDOT(g, vis, Options{}), "->")
}

func TestToDOTLabels(t *testing.T) {
	g := genealogytest.NuclearFamily()

	detailed := ToDOT(g, nil, Options{Detailed: true})
	assert.Contains(t, detailed, `label="father\n1950\nfather"`)

	anon := ToDOT(g, nil, Options{Anonymize: true})
	assert.Contains(t, anon, `label="Person 1"`)
}

func TestEdgeStyle(t *testing.T) {
	g := genealogytest.NuclearFamily()
	vis := visual.NewComplete(g, visual.Canvas{Width: 100, Height: 100})
	vis.Apply(visual.Update{Edges: map[string]visual.Metadata{
		"father->ego": {StrokeColor: visual.Ptr("#000000"), StrokeOpacity: visual.Ptr(0.5), StrokeWeight: visual.Ptr(2.5), StrokeStyle: visual.Ptr("dashed")},
	}})

	dot := ToDOT(g, vis, Options{})
	line := ""
	for _, l := range strings.Split(dot, "\n") {
		if strings.Contains(l, `"father" -> "ego"`) {
			line = l
		}
	}
	require.NotEmpty(t, line)
	assert.Contains(t, line, `color="#00000080"`)
	assert.Contains(t, line, "penwidth=2.5")
	assert.Contains(t, line, "style=dashed")
	assert.NotContains(t, line, "dir=none")
}

func TestWithAlpha(t *testing.T) {
	tests := []struct {
		color   string
		opacity float64
		want    string
	}{
		{"#112233", 1, "#112233"},
		{"#112233", 0, "#11223300"},
		{"#112233", 0.6, "#11223399"},
		{"#123", 0.5, "#123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withAlpha(tt.color, tt.opacity), "%s@%v", tt.color, tt.opacity)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(genealogytest.NuclearFamily(), nil, Options{}))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(svg), "<svg"))
}
