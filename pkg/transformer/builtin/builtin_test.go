package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	want := []string{
		"fan-chart", "walker-tree", "simple-tree", "edge-curve",
		"node-size", "node-color", "node-shape", "edge-stroke", "variance",
	}
	require.NotPanics(t, func() { Registry() })
	assert.Equal(t, want, Registry().IDs())
	assert.Same(t, Registry(), Registry())
}

func TestFind(t *testing.T) {
	for _, cfg := range All {
		assert.Same(t, cfg, Find(cfg.ID))
	}
	assert.Nil(t, Find("unknown"))
}
