package spatial

import (
	"math/rand"
	"slices"
	"testing"

	"collidex/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var world = box(0, 0, 100, 100)

func newIndexes(t *testing.T) map[Kind]Index[core.EntityID, core.AABB] {
	t.Helper()
	out := make(map[Kind]Index[core.EntityID, core.AABB])
	for _, kind := range Kinds {
		idx, err := New[core.EntityID](kind, Options[core.AABB]{
			Bounds:     world,
			CellSize:   10,
			MaxObjects: 4,
			MaxDepth:   5,
		})
		require.NoError(t, err, kind)
		out[kind] = idx
	}
	return out
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Tree ")
	require.NoError(t, err)
	assert.Equal(t, KindTree, k)

	_, err = ParseKind("bvh")
	assert.ErrorIs(t, err, core.ErrUnknownBroadphase)
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New[core.EntityID](Kind("bvh"), Options[core.AABB]{})
	assert.ErrorIs(t, err, core.ErrUnknownBroadphase)

	_, err = New[core.EntityID](KindGrid, Options[core.AABB]{Bounds: world})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = New[core.EntityID](KindHashGrid, Options[core.AABB]{CellSize: -1})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = New[core.EntityID](KindQuadtree, Options[core.AABB]{Bounds: box(0, 0, -1, 1)})
	assert.ErrorIs(t, err, core.ErrInvalidBounds)
}

func TestIndexesAgreeWithBruteForce(t *testing.T) {
	for kind, idx := range newIndexes(t) {
		t.Run(string(kind), func(t *testing.T) {
			rng := rand.New(rand.NewSource(11))
			live := make(map[core.EntityID]core.AABB)

			for step := 0; step < 400; step++ {
				id := core.EntityID(rng.Intn(80))
				if rng.Intn(4) == 0 {
					idx.Remove(id)
					delete(live, id)
				} else {
					b := box(rng.Float64()*95, rng.Float64()*95, 0.5+rng.Float64()*4, 0.5+rng.Float64()*4)
					require.NoError(t, idx.Update(id, b))
					live[id] = b
				}

				query := box(rng.Float64()*90, rng.Float64()*90, rng.Float64()*10, rng.Float64()*10)
				got := idx.Retrieve(query)
				for id, b := range live {
					if b.Overlaps(query) && !slices.Contains(got, id) {
						t.Fatalf("step %d: overlapping id %d missing from %v", step, id, got)
					}
				}
				seen := make(map[core.EntityID]bool)
				for _, id := range got {
					if seen[id] {
						t.Fatalf("step %d: id %d returned twice", step, id)
					}
					seen[id] = true
					if _, ok := live[id]; !ok {
						t.Fatalf("step %d: removed id %d returned", step, id)
					}
				}
			}
			assert.Equal(t, len(live), idx.Len())
		})
	}
}

func TestIndexRetrieveIntoReusesBuffer(t *testing.T) {
	for kind, idx := range newIndexes(t) {
		t.Run(string(kind), func(t *testing.T) {
			require.NoError(t, idx.Insert(1, box(1, 1, 2, 2)))
			require.NoError(t, idx.Insert(2, box(50, 50, 2, 2)))

			buf := make([]core.EntityID, 0, 8)
			buf = idx.RetrieveInto(buf, box(0, 0, 5, 5))
			assert.Contains(t, buf, core.EntityID(1))
			assert.NotContains(t, buf, core.EntityID(2))

			buf = idx.RetrieveInto(buf, box(49, 49, 5, 5))
			assert.Contains(t, buf, core.EntityID(2))
			assert.NotContains(t, buf, core.EntityID(1))
			assert.Equal(t, 8, cap(buf))
		})
	}
}

func TestIndexClearAndRemoveUnknown(t *testing.T) {
	for kind, idx := range newIndexes(t) {
		t.Run(string(kind), func(t *testing.T) {
			idx.Remove(99)
			require.NoError(t, idx.Insert(1, box(1, 1, 2, 2)))
			assert.True(t, idx.Contains(1))

			idx.Clear()
			idx.Clear()
			assert.Equal(t, 0, idx.Len())
			assert.False(t, idx.Contains(1))
			assert.Empty(t, idx.Retrieve(world))
		})
	}
}

func TestIndexOutsideWorld(t *testing.T) {
	for kind, idx := range newIndexes(t) {
		t.Run(string(kind), func(t *testing.T) {
			require.NoError(t, idx.Insert(1, box(-20, -20, 5, 5)))
			require.NoError(t, idx.Insert(2, box(120, 50, 5, 5)))

			assert.Contains(t, idx.Retrieve(box(-18, -18, 1, 1)), core.EntityID(1))
			assert.Contains(t, idx.Retrieve(box(121, 51, 1, 1)), core.EntityID(2))
		})
	}
}
