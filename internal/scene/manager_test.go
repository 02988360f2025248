package scene

import (
	"testing"

	"collidex/internal/core"
	"collidex/internal/shape"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tagPlayer core.Tag = iota + 1
	tagEnemy
)

func square(id core.EntityID, tag core.Tag, x, y float64) *Entity2D {
	return NewEntity2D(id, tag, shape.Box(core.Vector2D{X: x, Y: y}, 1, 1))
}

func TestManagerBasicOperations(t *testing.T) {
	m := NewManager[*Entity2D]()

	if err := m.Add(square(1, tagPlayer, 0, 0)); err != nil {
		t.Fatalf("Failed to add entity: %v", err)
	}
	if err := m.Add(square(2, tagEnemy, 3, 0)); err != nil {
		t.Fatalf("Failed to add entity: %v", err)
	}

	if m.Len() != 2 {
		t.Fatalf("Expected 2 entities, got %d", m.Len())
	}

	e, ok := m.Get(2)
	require.True(t, ok)
	assert.Equal(t, tagEnemy, e.Tag())

	err := m.Add(square(1, tagEnemy, 0, 0))
	assert.ErrorIs(t, err, core.ErrDuplicateEntity)

	require.NoError(t, m.Remove(1))
	assert.ErrorIs(t, m.Remove(1), core.ErrEntityNotFound)
	assert.False(t, m.Contains(1))
	assert.Equal(t, 0, m.CountByTag(tagPlayer))
}

func TestManagerKeepsInsertionOrder(t *testing.T) {
	m := NewManager[*Entity2D]()
	for _, id := range []core.EntityID{5, 3, 9, 1} {
		require.NoError(t, m.Add(square(id, tagEnemy, 0, 0)))
	}
	require.NoError(t, m.Remove(9))
	require.NoError(t, m.Add(square(9, tagEnemy, 0, 0)))

	var ids []core.EntityID
	for _, e := range m.Entities() {
		ids = append(ids, e.ID())
	}
	assert.Equal(t, []core.EntityID{5, 3, 1, 9}, ids)

	ids = ids[:0]
	for _, e := range m.ByTag(tagEnemy) {
		ids = append(ids, e.ID())
	}
	assert.Equal(t, []core.EntityID{5, 3, 1, 9}, ids)
	assert.Empty(t, m.ByTag(tagPlayer))
}

func TestManagerEvents(t *testing.T) {
	m := NewManager[*Entity2D]()
	var got []string
	m.Subscribe(func(ev Event[*Entity2D]) {
		got = append(got, ev.Kind.String())
		// listeners may call back into the manager
		_ = m.Len()
	})

	require.NoError(t, m.Add(square(1, tagPlayer, 0, 0)))
	require.NoError(t, m.Add(square(2, tagPlayer, 0, 0)))
	_ = m.Add(square(2, tagPlayer, 0, 0))
	require.NoError(t, m.Remove(1))
	m.Clear()

	assert.Equal(t, []string{"added", "added", "removed", "removed"}, got)
	assert.Equal(t, 0, m.Len())
}

func TestEntityTransformsMarkMoved(t *testing.T) {
	e := square(1, tagPlayer, 0, 0)
	assert.False(t, e.Moved())

	e.Translate(core.Vector2D{X: 2})
	assert.True(t, e.Moved())
	assert.Equal(t, core.Vector2D{X: 2}, e.Position())
	assert.InDelta(t, 1.5, e.Bounds().Min.X, 1e-12)

	e.ClearMoved()
	e.Rotate(0.5)
	assert.True(t, e.Moved())

	e3 := NewEntity3D(2, tagEnemy, shape.Cuboid(core.Vector3D{}, 1, 1, 1))
	e3.SetPosition(core.Vector3D{Z: 4})
	assert.True(t, e3.Moved())
	assert.InDelta(t, 3.5, e3.Bounds().Min.Z, 1e-12)
}
