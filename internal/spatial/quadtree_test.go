package spatial

import (
	"testing"

	"collidex/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuadtreeBasicOperations(t *testing.T) {
	qt, err := NewQuadtree[core.EntityID](box(-50, -50, 100, 100))
	if err != nil {
		t.Fatalf("Failed to create quadtree: %v", err)
	}

	if err := qt.Insert(1, box(9, 9, 2, 2)); err != nil {
		t.Fatalf("Failed to insert entity: %v", err)
	}

	results := qt.Retrieve(box(5, 5, 10, 10))
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0] != 1 {
		t.Fatalf("Expected entity ID 1, got %d", results[0])
	}

	qt.Remove(1)
	if results := qt.Retrieve(box(5, 5, 10, 10)); len(results) != 0 {
		t.Fatalf("Expected 0 results after removal, got %d", len(results))
	}
}

func TestQuadtreeSplits(t *testing.T) {
	qt, err := NewQuadtree[core.EntityID](box(0, 0, 64, 64), WithMaxObjects(2), WithMaxDepth(3))
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		require.NoError(t, qt.Insert(core.EntityID(i), box(float64(i*5), float64(i*5), 1, 1)))
	}
	assert.Greater(t, qt.NodeCount(), 1)
	assert.LessOrEqual(t, qt.Depth(), 3)

	total := 0
	qt.Walk(func(_ core.AABB, _ int, count int) { total += count })
	assert.Equal(t, 12, total)
}

func TestQuadtreeStraddlingQuery(t *testing.T) {
	qt, err := NewQuadtree[core.EntityID](box(0, 0, 64, 64), WithMaxObjects(1))
	require.NoError(t, err)

	// one entity per quadrant forces a split
	require.NoError(t, qt.Insert(1, box(10, 40, 2, 2)))
	require.NoError(t, qt.Insert(2, box(40, 40, 2, 2)))
	require.NoError(t, qt.Insert(3, box(10, 10, 2, 2)))
	require.NoError(t, qt.Insert(4, box(40, 10, 2, 2)))
	// straddles the centre so stays at the root
	require.NoError(t, qt.Insert(5, box(31, 31, 2, 2)))

	got := qt.Retrieve(box(8, 8, 40, 40))
	assert.ElementsMatch(t, []core.EntityID{1, 2, 3, 4, 5}, got)
}

func TestOctree(t *testing.T) {
	world := core.AABB3D{Max: core.Vector3D{X: 16, Y: 16, Z: 16}}
	qt, err := NewQuadtree[core.EntityID](world, WithMaxObjects(1))
	require.NoError(t, err)

	cube := func(x, y, z float64) core.AABB3D {
		return core.AABB3D{
			Min: core.Vector3D{X: x, Y: y, Z: z},
			Max: core.Vector3D{X: x + 1, Y: y + 1, Z: z + 1},
		}
	}
	require.NoError(t, qt.Insert(1, cube(1, 1, 1)))
	require.NoError(t, qt.Insert(2, cube(1, 1, 12)))
	require.NoError(t, qt.Insert(3, cube(12, 12, 12)))

	assert.Equal(t, 9, qt.NodeCount())
	assert.Equal(t, []core.EntityID{2}, qt.Retrieve(cube(1, 1, 12)))
}
