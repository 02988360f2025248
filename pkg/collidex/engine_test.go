package collidex

import (
	"strings"
	"testing"

	"collidex/internal/config"
	"collidex/internal/core"
	"collidex/internal/spatial"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	TagPlayer Tag = iota + 1
	TagEnemy
)

func newTestEngine(t *testing.T, kind spatial.Kind) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Broadphase.Kind = string(kind)
	cfg.Debug.Validate = true
	e, err := NewEngine(cfg, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	return e
}

func TestEngineBasicOperations(t *testing.T) {
	engine := newTestEngine(t, spatial.KindTree)
	assert.NotEqual(t, uuid.Nil, engine.ID())

	player := NewBoxEntity(1, TagPlayer, NewVector2D(10, 10), 2, 2)
	if err := engine.AddEntity(player); err != nil {
		t.Fatalf("Failed to add entity: %v", err)
	}
	if engine.GetEntityCount() != 1 {
		t.Fatalf("Expected 1 entity, got %d", engine.GetEntityCount())
	}

	got, err := engine.GetEntity(1)
	require.NoError(t, err)
	assert.Same(t, player, got)

	_, err = engine.GetEntity(99)
	assert.ErrorIs(t, err, core.ErrEntityNotFound)
	assert.ErrorIs(t, engine.AddEntity(player), core.ErrDuplicateEntity)

	require.NoError(t, engine.RemoveEntity(1))
	assert.ErrorIs(t, engine.RemoveEntity(1), core.ErrEntityNotFound)
}

func TestEngineCollisionScenarioEveryBroadphase(t *testing.T) {
	for _, kind := range spatial.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			engine := newTestEngine(t, kind)
			player := NewBoxEntity(1, TagPlayer, NewVector2D(100, 100), 10, 10)
			enemy := NewBoxEntity(2, TagEnemy, NewVector2D(105, 100), 10, 10)
			require.NoError(t, engine.BatchAddEntities([]*Entity{player, enemy}))

			hits := 0
			engine.Register(TagPlayer, TagEnemy, func(a, b *Entity, r Response2D) {
				hits++
				assert.Equal(t, EntityID(1), a.ID())
				assert.Equal(t, EntityID(2), b.ID())
				assert.InDelta(t, 5, r.Overlap, 1e-9)
			})

			for i := 0; i < 2; i++ {
				n, err := engine.Step()
				require.NoError(t, err)
				assert.Equal(t, 1, n)
			}

			enemy.SetPosition(NewVector2D(300, 300))
			n, err := engine.Step()
			require.NoError(t, err)
			assert.Equal(t, 0, n)
			assert.Equal(t, 2, hits)

			s := engine.Stats()
			assert.Equal(t, kind, s.Broadphase)
			assert.Equal(t, 2, s.Entities)
			assert.Equal(t, 2, s.Indexed)
			assert.Equal(t, 1, s.Pairs)
			assert.Equal(t, uint64(3), s.Ticks)
		})
	}
}

func TestEngineQuery(t *testing.T) {
	engine := newTestEngine(t, spatial.KindQuadtree)
	require.NoError(t, engine.AddEntity(NewBoxEntity(1, TagPlayer, NewVector2D(10, 10), 2, 2)))
	require.NoError(t, engine.AddEntity(NewBoxEntity(2, TagEnemy, NewVector2D(50, 50), 2, 2)))
	_, err := engine.Step()
	require.NoError(t, err)

	got := engine.Query(NewAABB(0, 0, 20, 20))
	require.Len(t, got, 1)
	assert.Equal(t, EntityID(1), got[0].ID())
	assert.Len(t, engine.GetEntitiesByTag(TagEnemy), 1)

	nearest := engine.GetNearestEntities(NewVector2D(45, 45), 1)
	require.Len(t, nearest, 1)
	assert.Equal(t, EntityID(2), nearest[0].ID())
}

func TestEngineRejectsBadConfig(t *testing.T) {
	_, err := config.LoadYAML(strings.NewReader("broadphase:\n  kind: bvh\n"))
	require.ErrorIs(t, err, core.ErrInvalidConfig)

	cfg := config.Default()
	cfg.Broadphase.CellSize = 0
	_, err = NewEngine(cfg)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
	_, err = NewEngine3D(cfg)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestEngine3D(t *testing.T) {
	cfg := config.Default()
	cfg.Broadphase.Kind = string(spatial.KindQuadtree)
	engine, err := NewEngine3D(cfg, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	building := NewCuboidEntity(1, TagEnemy, NewVector3D(50, 50, 50), 10, 10, 10)
	ball, err := NewSphereEntity(2, TagPlayer, NewVector3D(50, 56, 50), 2, 12, 6)
	require.NoError(t, err)
	require.NoError(t, engine.AddEntity(building))
	require.NoError(t, engine.AddEntity(ball))

	var normal Vector3D
	engine.Register(TagPlayer, TagEnemy, func(_, _ *Entity3D, r Response3D) { normal = r.Normal })
	n, err := engine.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Less(t, normal.Y, 0.0)

	ball.Translate(NewVector3D(0, 10, 0))
	n, err = engine.Step()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestUtils(t *testing.T) {
	assert.Equal(t, 5.0, Distance(NewVector2D(0, 0), NewVector2D(3, 4)))
	assert.Equal(t, NewVector2D(1, 2), Lerp(NewVector2D(0, 0), NewVector2D(2, 4), 0.5))

	r := RotateVector(NewVector2D(1, 0), 1.5707963267948966)
	assert.InDelta(t, 0, r.X, 1e-12)
	assert.InDelta(t, 1, r.Y, 1e-12)

	b := AABBFromCenterSize(NewVector2D(1, 1), 2, 4)
	assert.Equal(t, NewAABB(0, -1, 2, 3), b)
	assert.Equal(t, NewAABB(-1, -2, 3, 4), AABBExpand(b, 1))

	_, err := NewPolygonEntity(1, TagPlayer, NewVector2D(0, 0), NewVector2D(1, 1))
	assert.ErrorIs(t, err, core.ErrInvalidShape)
	_, err = NewRegularPolygonEntity(1, TagPlayer, NewVector2D(0, 0), 1, 2)
	assert.ErrorIs(t, err, core.ErrInvalidShape)
}
