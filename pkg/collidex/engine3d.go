package collidex

import (
	"fmt"

	"collidex/internal/collision"
	"collidex/internal/config"
	"collidex/internal/core"
	"collidex/internal/scene"
	"collidex/internal/shape"
	"collidex/internal/spatial"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Callback3D receives both participants of a confirmed 3D collision
type Callback3D func(a, b *Entity3D, r Response3D)

// Engine3D is the polyhedron collision engine
type Engine3D struct {
	id         uuid.UUID
	config     *config.Config
	logger     *zap.Logger
	scene      *scene.Manager[*Entity3D]
	dispatcher *collision.Dispatcher3D
}

// NewEngine3D creates a 3D engine. A nil config means config.Default().
func NewEngine3D(cfg *config.Config, opts ...Option) (*Engine3D, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := buildLogger(cfg, opts)
	if err != nil {
		return nil, err
	}

	index, err := spatial.New[core.EntityID](cfg.Kind(), cfg.Options3D())
	if err != nil {
		return nil, fmt.Errorf("failed to create broadphase: %w", err)
	}

	id := uuid.New()
	logger = logger.With(zap.String("engine", id.String()))
	sc := scene.NewManager[*Entity3D]()
	e := &Engine3D{
		id:     id,
		config: cfg,
		logger: logger,
		scene:  sc,
		dispatcher: collision.NewDispatcher3D(sc, index,
			collision.WithLogger(logger),
			collision.WithValidation(cfg.Debug.Validate),
		),
	}
	logger.Info("engine created", zap.String("broadphase", string(cfg.Kind())), zap.Int("dims", 3))
	return e, nil
}

// ID returns the engine instance id
func (e *Engine3D) ID() uuid.UUID { return e.id }

// AddEntity adds a new entity to the scene
func (e *Engine3D) AddEntity(entity *Entity3D) error {
	if entity == nil {
		return fmt.Errorf("entity cannot be nil")
	}
	if err := e.scene.Add(entity); err != nil {
		return fmt.Errorf("failed to add entity: %w", err)
	}
	return nil
}

// RemoveEntity removes an entity from the scene
func (e *Engine3D) RemoveEntity(id EntityID) error {
	if err := e.scene.Remove(id); err != nil {
		return fmt.Errorf("failed to remove entity: %w", err)
	}
	return nil
}

// GetEntity retrieves an entity by ID
func (e *Engine3D) GetEntity(id EntityID) (*Entity3D, error) {
	entity, ok := e.scene.Get(id)
	if !ok {
		return nil, fmt.Errorf("entity with ID %d: %w", id, core.ErrEntityNotFound)
	}
	return entity, nil
}

// GetEntitiesByTag returns the entities carrying tag in insertion order
func (e *Engine3D) GetEntitiesByTag(tag Tag) []*Entity3D {
	return e.scene.ByTag(tag)
}

// GetEntityCount returns the total number of entities in the scene
func (e *Engine3D) GetEntityCount() int {
	return e.scene.Len()
}

// LoadHulls adds one entity per primitive in a glTF file, numbering them
// from firstID. It returns the ids it assigned.
func (e *Engine3D) LoadHulls(path string, tag Tag, firstID EntityID) ([]EntityID, error) {
	hulls, err := shape.LoadGLTF(path)
	if err != nil {
		return nil, err
	}
	ids := make([]EntityID, 0, len(hulls))
	for i, h := range hulls {
		id := firstID + EntityID(i)
		if err := e.AddEntity(scene.NewEntity3D(id, tag, h.Shape)); err != nil {
			return ids, fmt.Errorf("hull %q: %w", h.Name, err)
		}
		ids = append(ids, id)
	}
	e.logger.Info("hulls loaded", zap.String("path", path), zap.Int("count", len(ids)))
	return ids, nil
}

// Register declares that entities tagged a collide with entities tagged b
func (e *Engine3D) Register(a, b Tag, cb Callback3D) {
	e.dispatcher.Register(a, b, collision.Callback[*Entity3D, Response3D](cb))
}

// Step runs one collision tick and returns the number of callbacks invoked
func (e *Engine3D) Step() (int, error) {
	return e.dispatcher.Update()
}

// Rebuild rebuilds the broadphase from the live scene
func (e *Engine3D) Rebuild() error {
	return e.dispatcher.Rebuild()
}

// Query returns the entities whose bounds overlap bounds, as of the last Step
func (e *Engine3D) Query(bounds AABB3D) []*Entity3D {
	return e.dispatcher.Query(bounds)
}

// GetNearestEntities returns up to k entities closest to point, as of the
// last Step
func (e *Engine3D) GetNearestEntities(point Vector3D, k int) []*Entity3D {
	return e.dispatcher.Nearest(AABB3D{Min: point, Max: point}, k)
}

// GetConfig returns the current engine configuration
func (e *Engine3D) GetConfig() *Config {
	return e.config
}

// Stats returns engine statistics
func (e *Engine3D) Stats() Stats {
	return newStats(e.id, e.config, e.scene.Len(), e.dispatcher.Stats())
}
