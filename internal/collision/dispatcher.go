package collision

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"collidex/internal/core"
	"collidex/internal/logging"
	"collidex/internal/scene"
	"collidex/internal/spatial"

	"go.uber.org/zap"
)

// Body is what the dispatcher needs from an entity
type Body[B core.Volume[B]] interface {
	scene.Entity
	Bounds() B
	Moved() bool
	ClearMoved()
}

// NarrowPhase confirms a broadphase candidate pair
type NarrowPhase[E any, R any] func(a, b E) (R, bool, error)

// Callback is invoked once per confirmed pair per tick
type Callback[E any, R any] func(a, b E, r R)

// Validator is implemented by broadphases that can check their own structure
type Validator interface {
	Validate() error
}

// Stats describes the dispatcher state after the last Update
type Stats struct {
	Entities   int
	Pairs      int
	Candidates int
	Contacts   int
	Ticks      uint64
}

// Option configures a Dispatcher
type Option func(*options)

type options struct {
	logger   *zap.Logger
	validate bool
}

// WithLogger sets the logger; the default discards everything
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithValidation runs the broadphase Validate after every tick
func WithValidation(enabled bool) Option {
	return func(o *options) { o.validate = enabled }
}

type pair[E any, R any] struct {
	a, b     core.Tag
	callback Callback[E, R]
}

// Dispatcher runs the per-tick collision loop: it keeps a broadphase in sync
// with a scene, then for every registered tag pair asks the broadphase for
// candidates and confirms them with the narrow phase.
type Dispatcher[E Body[B], B core.Volume[B], R any] struct {
	scene  *scene.Manager[E]
	index  spatial.Index[core.EntityID, B]
	narrow NarrowPhase[E, R]
	logger *zap.Logger
	debug  bool

	pairs []pair[E, R]

	mu      sync.Mutex
	pending []scene.Event[E]

	stats      Stats
	entities   []E
	candidates []core.EntityID
}

// Dispatcher2D confirms polygon entities with SAT
type Dispatcher2D = Dispatcher[*scene.Entity2D, core.AABB, Response2D]

// Dispatcher3D confirms polyhedron entities with SAT
type Dispatcher3D = Dispatcher[*scene.Entity3D, core.AABB3D, Response3D]

// NewDispatcher builds a dispatcher over sc. Entities already in the scene
// are queued for insertion on the first Update.
func NewDispatcher[E Body[B], B core.Volume[B], R any](
	sc *scene.Manager[E],
	index spatial.Index[core.EntityID, B],
	narrow NarrowPhase[E, R],
	opts ...Option,
) *Dispatcher[E, B, R] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	d := &Dispatcher[E, B, R]{
		scene:  sc,
		index:  index,
		narrow: narrow,
		logger: logging.OrNop(o.logger),
		debug:  o.validate,
	}
	sc.Subscribe(d.enqueue)
	for _, e := range sc.Entities() {
		d.enqueue(scene.Event[E]{Kind: scene.EntityAdded, Entity: e})
	}
	return d
}

// NewDispatcher2D builds a polygon dispatcher
func NewDispatcher2D(sc *scene.Manager[*scene.Entity2D], index spatial.Index[core.EntityID, core.AABB], opts ...Option) *Dispatcher2D {
	return NewDispatcher[*scene.Entity2D, core.AABB, Response2D](sc, index, func(a, b *scene.Entity2D) (Response2D, bool, error) {
		return IntersectPolygons(a.Shape(), b.Shape())
	}, opts...)
}

// NewDispatcher3D builds a polyhedron dispatcher
func NewDispatcher3D(sc *scene.Manager[*scene.Entity3D], index spatial.Index[core.EntityID, core.AABB3D], opts ...Option) *Dispatcher3D {
	return NewDispatcher[*scene.Entity3D, core.AABB3D, Response3D](sc, index, func(a, b *scene.Entity3D) (Response3D, bool, error) {
		return IntersectPolyhedra(a.Shape(), b.Shape())
	}, opts...)
}

// Register declares that entities tagged a are tested against entities
// tagged b. Callbacks fire in registration order.
func (d *Dispatcher[E, B, R]) Register(a, b core.Tag, cb Callback[E, R]) {
	d.pairs = append(d.pairs, pair[E, R]{a: a, b: b, callback: cb})
	d.logger.Debug("collision pair registered",
		zap.Uint32("tag_a", uint32(a)),
		zap.Uint32("tag_b", uint32(b)),
		zap.Int("pairs", len(d.pairs)),
	)
}

// Update runs one tick and returns how many callbacks were invoked.
// Broadphase and narrow phase errors do not stop the tick; they are joined
// and returned with the count. An entity whose bounds the broadphase rejects
// stays out of the index until it moves again.
func (d *Dispatcher[E, B, R]) Update() (int, error) {
	errs := d.applyPending(nil)
	errs = d.refreshMoved(errs)

	d.stats.Candidates = 0
	d.stats.Contacts = 0

	for _, p := range d.pairs {
		d.entities = d.scene.AppendByTag(d.entities, p.a)
		for _, a := range d.entities {
			if !d.scene.Contains(a.ID()) {
				continue
			}
			d.candidates = d.index.RetrieveInto(d.candidates, a.Bounds())
			for _, id := range d.candidates {
				if id == a.ID() {
					continue
				}
				b, ok := d.scene.Get(id)
				if !ok || b.Tag() != p.b {
					continue
				}
				// a same-tag pair is seen from both sides; report it once
				if p.a == p.b && id < a.ID() {
					continue
				}
				d.stats.Candidates++

				r, hit, err := d.narrow(a, b)
				if err != nil {
					errs = append(errs, fmt.Errorf("entities %d and %d: %w", a.ID(), id, err))
					continue
				}
				if !hit {
					continue
				}
				d.stats.Contacts++
				p.callback(a, b, r)
			}
		}
	}

	clear(d.entities)
	d.stats.Ticks++
	d.stats.Entities = d.index.Len()
	d.stats.Pairs = len(d.pairs)

	if ce := d.logger.Check(zap.DebugLevel, "collision tick"); ce != nil {
		ce.Write(
			zap.Uint64("tick", d.stats.Ticks),
			zap.Int("candidates", d.stats.Candidates),
			zap.Int("contacts", d.stats.Contacts),
		)
	}

	if d.debug {
		if err := d.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return d.stats.Contacts, errors.Join(errs...)
}

// Rebuild clears the broadphase and inserts every live entity again
func (d *Dispatcher[E, B, R]) Rebuild() error {
	d.mu.Lock()
	d.pending = d.pending[:0]
	d.mu.Unlock()

	d.index.Clear()
	var errs []error
	for _, e := range d.scene.Entities() {
		e.ClearMoved()
		if err := d.index.Insert(e.ID(), e.Bounds()); err != nil {
			errs = append(errs, d.rejected("add", e.ID(), err))
		}
	}
	d.logger.Debug("broadphase rebuilt", zap.Int("entities", d.index.Len()))
	return errors.Join(errs...)
}

// Validate checks the broadphase structure when it supports it
func (d *Dispatcher[E, B, R]) Validate() error {
	v, ok := d.index.(Validator)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		d.logger.Error("broadphase invariant violated", zap.Error(err))
		if !errors.Is(err, core.ErrInvariantViolation) {
			err = fmt.Errorf("%w: %w", core.ErrInvariantViolation, err)
		}
		return err
	}
	return nil
}

// Query returns the live entities whose broadphase bounds overlap bounds
func (d *Dispatcher[E, B, R]) Query(bounds B) []E {
	var out []E
	for _, id := range d.index.Retrieve(bounds) {
		if e, ok := d.scene.Get(id); ok && e.Bounds().Overlaps(bounds) {
			out = append(out, e)
		}
	}
	return out
}

// Nearest returns up to k live entities closest to query. Broadphases
// without a nearest query fall back to a scan of the scene.
func (d *Dispatcher[E, B, R]) Nearest(query B, k int) []E {
	if k <= 0 {
		return nil
	}
	if n, ok := d.index.(spatial.Nearester[core.EntityID, B]); ok {
		var out []E
		for _, id := range n.Nearest(query, k) {
			if e, ok := d.scene.Get(id); ok {
				out = append(out, e)
			}
		}
		return out
	}

	all := d.scene.Entities()
	slices.SortStableFunc(all, func(a, b E) int {
		return cmp.Compare(a.Bounds().DistanceSq(query), b.Bounds().DistanceSq(query))
	})
	return all[:min(k, len(all))]
}

// Index exposes the broadphase, mainly for drawing it
func (d *Dispatcher[E, B, R]) Index() spatial.Index[core.EntityID, B] {
	return d.index
}

// Stats returns counters from the last tick
func (d *Dispatcher[E, B, R]) Stats() Stats {
	s := d.stats
	s.Pairs = len(d.pairs)
	return s
}

func (d *Dispatcher[E, B, R]) enqueue(ev scene.Event[E]) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = append(d.pending, ev)
}

// applyPending replays queued scene events in order, so an add followed by
// a remove of the same entity leaves nothing behind. A rejected insert is
// recorded and the rest of the queue is still applied.
func (d *Dispatcher[E, B, R]) applyPending(errs []error) []error {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	for _, ev := range pending {
		id := ev.Entity.ID()
		switch ev.Kind {
		case scene.EntityAdded:
			ev.Entity.ClearMoved()
			if err := d.index.Insert(id, ev.Entity.Bounds()); err != nil {
				errs = append(errs, d.rejected("add", id, err))
				continue
			}
		case scene.EntityRemoved:
			d.index.Remove(id)
		}
		if ce := d.logger.Check(zap.DebugLevel, "entity "+ev.Kind.String()); ce != nil {
			ce.Write(zap.Uint64("id", uint64(id)), zap.Uint32("tag", uint32(ev.Entity.Tag())))
		}
	}
	return errs
}

func (d *Dispatcher[E, B, R]) refreshMoved(errs []error) []error {
	d.entities = d.scene.AppendAll(d.entities)
	for _, e := range d.entities {
		if !e.Moved() {
			continue
		}
		e.ClearMoved()
		d.index.Remove(e.ID())
		if err := d.index.Insert(e.ID(), e.Bounds()); err != nil {
			errs = append(errs, d.rejected("update", e.ID(), err))
		}
	}
	clear(d.entities)
	return errs
}

func (d *Dispatcher[E, B, R]) rejected(op string, id core.EntityID, err error) error {
	d.logger.Warn("entity left out of spatial index",
		zap.String("op", op),
		zap.Uint64("id", uint64(id)),
		zap.Error(err),
	)
	return fmt.Errorf("failed to %s entity %d in spatial index: %w", op, id, err)
}
