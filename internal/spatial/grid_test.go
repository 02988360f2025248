package spatial

import (
	"math"
	"testing"

	"collidex/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridCellsAndClamp(t *testing.T) {
	g, err := NewGrid[core.EntityID](box(0, 0, 100, 100), 25)
	require.NoError(t, err)
	assert.Equal(t, 16, g.CellCount())

	require.NoError(t, g.Insert(1, box(20, 20, 10, 10)))
	occupied := 0
	g.CellBounds(func(lower [3]float64, size float64, occupancy int) {
		assert.Equal(t, 25.0, size)
		if occupancy > 0 {
			occupied++
		}
	})
	assert.Equal(t, 4, occupied)

	// far outside lands in the corner cell
	require.NoError(t, g.Insert(2, box(500, 500, 1, 1)))
	assert.Contains(t, g.Retrieve(box(90, 90, 1, 1)), core.EntityID(2))
}

func TestGrid3D(t *testing.T) {
	world := core.AABB3D{Max: core.Vector3D{X: 10, Y: 10, Z: 10}}
	g, err := NewGrid[core.EntityID](world, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, g.CellCount())

	low := core.AABB3D{Min: core.Vector3D{X: 1, Y: 1, Z: 1}, Max: core.Vector3D{X: 2, Y: 2, Z: 2}}
	high := core.AABB3D{Min: core.Vector3D{X: 1, Y: 1, Z: 8}, Max: core.Vector3D{X: 2, Y: 2, Z: 9}}
	require.NoError(t, g.Insert(1, low))
	require.NoError(t, g.Insert(2, high))

	assert.Equal(t, []core.EntityID{1}, g.Retrieve(low))
	assert.Equal(t, []core.EntityID{2}, g.Retrieve(high))
}

func TestHashGridUnbounded(t *testing.T) {
	h, err := NewHashGrid[core.EntityID, core.AABB](10)
	require.NoError(t, err)

	require.NoError(t, h.Insert(1, box(-1005, 3000, 2, 2)))
	require.NoError(t, h.Insert(2, box(5, 5, 2, 2)))
	assert.Equal(t, 2, h.CellCount())

	assert.Equal(t, []core.EntityID{1}, h.Retrieve(box(-1004, 3001, 1, 1)))

	h.Remove(1)
	assert.Equal(t, 1, h.CellCount())
	assert.Empty(t, h.Retrieve(box(-1004, 3001, 1, 1)))
}

func TestHashGridOversizedEntity(t *testing.T) {
	h, err := NewHashGrid[core.EntityID, core.AABB](1)
	require.NoError(t, err)

	require.NoError(t, h.Insert(1, box(0, 0, 1000, 1000)))
	assert.Equal(t, 0, h.CellCount())
	assert.Equal(t, []core.EntityID{1}, h.Retrieve(box(500, 500, 1, 1)))
	assert.Empty(t, h.Retrieve(box(2000, 2000, 1, 1)))

	h.Remove(1)
	assert.Equal(t, 0, h.Len())
}

func TestHashGridExtremeCoordinates(t *testing.T) {
	h, err := NewHashGrid[core.EntityID, core.AABB](1)
	require.NoError(t, err)

	inf := math.Inf(1)
	require.NoError(t, h.Insert(1, box(1e300, 0, 1, 1)))
	require.NoError(t, h.Insert(2, box(-1e300, -1e300, 1, 1)))
	require.NoError(t, h.Insert(3, core.AABB{
		Min: core.Vector2D{X: -inf, Y: -inf},
		Max: core.Vector2D{X: inf, Y: inf},
	}))
	require.NoError(t, h.Insert(4, box(0, 0, 1, 1)))

	assert.ElementsMatch(t, []core.EntityID{1, 3}, h.Retrieve(box(1e300, 0, 1, 1)))
	assert.ElementsMatch(t, []core.EntityID{2, 3}, h.Retrieve(box(-1e300, -1e300, 1, 1)))
	assert.ElementsMatch(t, []core.EntityID{3, 4}, h.Retrieve(box(0.5, 0.5, 0, 0)))
	assert.ElementsMatch(t, []core.EntityID{1, 2, 3, 4}, h.Retrieve(core.AABB{
		Min: core.Vector2D{X: -inf, Y: -inf},
		Max: core.Vector2D{X: inf, Y: inf},
	}))

	h.Remove(3)
	h.Remove(1)
	assert.Equal(t, 2, h.Len())
	assert.ElementsMatch(t, []core.EntityID{2}, h.Retrieve(box(-1e300, -1e300, 1, 1)))
}
