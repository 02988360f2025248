package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"collidex/internal/core"
	"collidex/internal/spatial"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, spatial.KindTree, c.Kind())
	assert.Equal(t, 64.0, c.Broadphase.CellSize)
	assert.Equal(t, 10, c.Broadphase.MaxObjects)
	assert.Equal(t, 8, c.Broadphase.MaxDepth)
	assert.False(t, c.Debug.Validate)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	src := `
log_level: debug
broadphase:
  kind: quadtree
  bounds:
    min: [-100, -100]
    max: [100, 100]
  max_objects: 4
debug:
  validate: true
`
	c, err := LoadYAML(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, spatial.KindQuadtree, c.Kind())
	assert.Equal(t, 4, c.Broadphase.MaxObjects)
	assert.Equal(t, 8, c.Broadphase.MaxDepth)
	assert.True(t, c.Debug.Validate)

	opts := c.Options2D()
	assert.Equal(t, core.Vector2D{X: -100, Y: -100}, opts.Bounds.Min)
	assert.Equal(t, core.Vector2D{X: 100, Y: 100}, opts.Bounds.Max)

	opts3 := c.Options3D()
	assert.Equal(t, -100.0, opts3.Bounds.Min.Z)
	assert.Equal(t, 100.0, opts3.Bounds.Max.Z)
}

func TestLoadYAMLEmpty(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]string{
		"kind":      "broadphase:\n  kind: bvh\n",
		"cell size": "broadphase:\n  cell_size: 0\n",
		"level":     "log_level: chatty\n",
		"bounds":    "broadphase:\n  bounds:\n    min: [0, 0]\n    max: [1]\n",
		"inverted":  "broadphase:\n  bounds:\n    min: [5, 0]\n    max: [1, 1]\n",
		"depth":     "broadphase:\n  max_depth: -1\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(src))
			assert.ErrorIs(t, err, core.ErrInvalidConfig)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collidex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("broadphase:\n  kind: hashgrid\n  cell_size: 16\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, spatial.KindHashGrid, c.Kind())
	assert.Equal(t, 16.0, c.Broadphase.CellSize)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
