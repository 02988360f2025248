// Package collidex is the public entry point: an engine owns a scene, a
// broadphase built from config and a collision dispatcher.
package collidex

import (
	"fmt"

	"collidex/internal/collision"
	"collidex/internal/config"
	"collidex/internal/core"
	"collidex/internal/logging"
	"collidex/internal/scene"
	"collidex/internal/spatial"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type (
	EntityID = core.EntityID
	Tag      = core.Tag
	Vector2D = core.Vector2D
	Vector3D = core.Vector3D
	AABB     = core.AABB
	AABB3D   = core.AABB3D
	Config   = config.Config

	// Entity is a tagged polygon living in an Engine
	Entity = scene.Entity2D
	// Entity3D is a tagged polyhedron living in an Engine3D
	Entity3D = scene.Entity3D

	Response2D = collision.Response2D
	Response3D = collision.Response3D
)

// Callback receives both participants of a confirmed collision
type Callback func(a, b *Entity, r Response2D)

// Option configures an engine
type Option func(*engineOptions)

type engineOptions struct {
	logger *zap.Logger
}

// WithLogger sets the engine logger. Without it the engine builds one from
// the config log level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *engineOptions) { o.logger = logger }
}

func buildLogger(cfg *config.Config, opts []Option) (*zap.Logger, error) {
	o := engineOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		return o.logger, nil
	}
	return logging.New(cfg.LogLevel)
}

// Engine is the 2D collision engine
type Engine struct {
	id         uuid.UUID
	config     *config.Config
	logger     *zap.Logger
	scene      *scene.Manager[*Entity]
	dispatcher *collision.Dispatcher2D
}

// NewEngine creates an engine. A nil config means config.Default().
func NewEngine(cfg *config.Config, opts ...Option) (*Engine, error) {
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

	index, err := spatial.New[core.EntityID](cfg.Kind(), cfg.Options2D())
	if err != nil {
		return nil, fmt.Errorf("failed to create broadphase: %w", err)
	}

	id := uuid.New()
	logger = logger.With(zap.String("engine", id.String()))
	sc := scene.NewManager[*Entity]()
	e := &Engine{
		id:     id,
		config: cfg,
		logger: logger,
		scene:  sc,
		dispatcher: collision.NewDispatcher2D(sc, index,
			collision.WithLogger(logger),
			collision.WithValidation(cfg.Debug.Validate),
		),
	}
	logger.Info("engine created", zap.String("broadphase", string(cfg.Kind())), zap.Int("dims", 2))
	return e, nil
}

// ID returns the engine instance id
func (e *Engine) ID() uuid.UUID { return e.id }

// Entity Management

// AddEntity adds a new entity to the scene. It joins the broadphase on the
// next Step.
func (e *Engine) AddEntity(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("entity cannot be nil")
	}
	if err := e.scene.Add(entity); err != nil {
		return fmt.Errorf("failed to add entity: %w", err)
	}
	return nil
}

// BatchAddEntities adds multiple entities, stopping at the first failure
func (e *Engine) BatchAddEntities(entities []*Entity) error {
	for _, entity := range entities {
		if err := e.AddEntity(entity); err != nil {
			return fmt.Errorf("failed to add entity %d: %w", entity.ID(), err)
		}
	}
	return nil
}

// RemoveEntity removes an entity from the scene
func (e *Engine) RemoveEntity(id EntityID) error {
	if err := e.scene.Remove(id); err != nil {
		return fmt.Errorf("failed to remove entity: %w", err)
	}
	return nil
}

// GetEntity retrieves an entity by ID
func (e *Engine) GetEntity(id EntityID) (*Entity, error) {
	entity, ok := e.scene.Get(id)
	if !ok {
		return nil, fmt.Errorf("entity with ID %d: %w", id, core.ErrEntityNotFound)
	}
	return entity, nil
}

// GetEntitiesByTag returns the entities carrying tag in insertion order
func (e *Engine) GetEntitiesByTag(tag Tag) []*Entity {
	return e.scene.ByTag(tag)
}

// Entities returns every entity in insertion order
func (e *Engine) Entities() []*Entity {
	return e.scene.Entities()
}

// GetEntityCount returns the total number of entities in the scene
func (e *Engine) GetEntityCount() int {
	return e.scene.Len()
}

// ClearScene removes all entities from the scene
func (e *Engine) ClearScene() {
	e.scene.Clear()
}

// Collision Detection

// Register declares that entities tagged a collide with entities tagged b
func (e *Engine) Register(a, b Tag, cb Callback) {
	e.dispatcher.Register(a, b, collision.Callback[*Entity, Response2D](cb))
}

// Step runs one collision tick and returns the number of callbacks invoked
func (e *Engine) Step() (int, error) {
	return e.dispatcher.Update()
}

// Rebuild rebuilds the broadphase from the live scene
func (e *Engine) Rebuild() error {
	return e.dispatcher.Rebuild()
}

// Query returns the entities whose bounds overlap bounds, as of the last Step
func (e *Engine) Query(bounds AABB) []*Entity {
	return e.dispatcher.Query(bounds)
}

// GetNearestEntities returns up to k entities closest to point, as of the
// last Step
func (e *Engine) GetNearestEntities(point Vector2D, k int) []*Entity {
	return e.dispatcher.Nearest(AABB{Min: point, Max: point}, k)
}

// Broadphase exposes the spatial index, mainly for drawing it
func (e *Engine) Broadphase() spatial.Index[EntityID, AABB] {
	return e.dispatcher.Index()
}

// Performance and Debugging

// GetConfig returns the current engine configuration
func (e *Engine) GetConfig() *Config {
	return e.config
}

// Logger returns the engine logger
func (e *Engine) Logger() *zap.Logger {
	return e.logger
}

// Stats returns engine statistics
func (e *Engine) Stats() Stats {
	return newStats(e.id, e.config, e.scene.Len(), e.dispatcher.Stats())
}

// Stats represents engine statistics
type Stats struct {
	ID         uuid.UUID
	Broadphase spatial.Kind
	// Entities counts the scene, Indexed the broadphase; they differ until
	// the next Step applies queued adds and removes
	Entities   int
	Indexed    int
	Pairs      int
	Candidates int
	Contacts   int
	Ticks      uint64
}

func newStats(id uuid.UUID, cfg *config.Config, live int, s collision.Stats) Stats {
	return Stats{
		ID:         id,
		Broadphase: cfg.Kind(),
		Entities:   live,
		Indexed:    s.Entities,
		Pairs:      s.Pairs,
		Candidates: s.Candidates,
		Contacts:   s.Contacts,
		Ticks:      s.Ticks,
	}
}
