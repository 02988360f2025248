package scene

import (
	"fmt"
	"slices"
	"sync"

	"collidex/internal/core"
)

// EventKind says what happened to an entity
type EventKind int

const (
	EntityAdded EventKind = iota
	EntityRemoved
)

func (k EventKind) String() string {
	switch k {
	case EntityAdded:
		return "added"
	case EntityRemoved:
		return "removed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is delivered to listeners after the manager has changed
type Event[E Entity] struct {
	Kind   EventKind
	Entity E
}

// Listener observes adds and removes
type Listener[E Entity] func(Event[E])

// Manager is the live entity set. It keeps insertion order, a per-tag index
// and notifies listeners of every add and remove, so consumers can track
// membership without diffing the whole set.
type Manager[E Entity] struct {
	mu        sync.RWMutex
	entities  map[core.EntityID]E
	order     []core.EntityID
	byTag     map[core.Tag][]core.EntityID
	listeners []Listener[E]
}

// NewManager creates an empty scene
func NewManager[E Entity]() *Manager[E] {
	return &Manager[E]{
		entities: make(map[core.EntityID]E),
		byTag:    make(map[core.Tag][]core.EntityID),
	}
}

// Subscribe registers l for every later add and remove. Listeners run on the
// mutating goroutine after the manager lock is released.
func (m *Manager[E]) Subscribe(l Listener[E]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listeners = append(m.listeners, l)
}

// Add inserts entity
func (m *Manager[E]) Add(entity E) error {
	m.mu.Lock()
	id := entity.ID()
	if _, exists := m.entities[id]; exists {
		m.mu.Unlock()
		return fmt.Errorf("entity with ID %d: %w", id, core.ErrDuplicateEntity)
	}

	m.entities[id] = entity
	m.order = append(m.order, id)
	m.byTag[entity.Tag()] = append(m.byTag[entity.Tag()], id)
	listeners := m.listeners
	m.mu.Unlock()

	notify(listeners, Event[E]{Kind: EntityAdded, Entity: entity})
	return nil
}

// Remove drops the entity with id
func (m *Manager[E]) Remove(id core.EntityID) error {
	m.mu.Lock()
	entity, exists := m.entities[id]
	if !exists {
		m.mu.Unlock()
		return fmt.Errorf("entity with ID %d: %w", id, core.ErrEntityNotFound)
	}

	delete(m.entities, id)
	m.order = deleteID(m.order, id)
	tag := entity.Tag()
	if ids := deleteID(m.byTag[tag], id); len(ids) > 0 {
		m.byTag[tag] = ids
	} else {
		delete(m.byTag, tag)
	}
	listeners := m.listeners
	m.mu.Unlock()

	notify(listeners, Event[E]{Kind: EntityRemoved, Entity: entity})
	return nil
}

// Get retrieves an entity by ID
func (m *Manager[E]) Get(id core.EntityID) (E, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entities[id]
	return e, ok
}

// Contains reports whether id is live
func (m *Manager[E]) Contains(id core.EntityID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entities[id]
	return ok
}

// Len returns the total number of entities
func (m *Manager[E]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entities)
}

// Entities returns every entity in insertion order
func (m *Manager[E]) Entities() []E {
	return m.AppendAll(nil)
}

// AppendAll appends every entity in insertion order to dst[:0]
func (m *Manager[E]) AppendAll(dst []E) []E {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dst = dst[:0]
	for _, id := range m.order {
		dst = append(dst, m.entities[id])
	}
	return dst
}

// ByTag returns the entities carrying tag in insertion order
func (m *Manager[E]) ByTag(tag core.Tag) []E {
	return m.AppendByTag(nil, tag)
}

// AppendByTag appends the entities carrying tag to dst[:0]. The copy lets
// callers iterate while callbacks add or remove entities.
func (m *Manager[E]) AppendByTag(dst []E, tag core.Tag) []E {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dst = dst[:0]
	for _, id := range m.byTag[tag] {
		dst = append(dst, m.entities[id])
	}
	return dst
}

// CountByTag returns the number of entities carrying tag
func (m *Manager[E]) CountByTag(tag core.Tag) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.byTag[tag])
}

// Clear removes all entities from the scene, notifying listeners of each
// removal in insertion order
func (m *Manager[E]) Clear() {
	m.mu.Lock()
	removed := make([]E, 0, len(m.order))
	for _, id := range m.order {
		removed = append(removed, m.entities[id])
	}
	m.entities = make(map[core.EntityID]E)
	m.order = nil
	m.byTag = make(map[core.Tag][]core.EntityID)
	listeners := m.listeners
	m.mu.Unlock()

	for _, e := range removed {
		notify(listeners, Event[E]{Kind: EntityRemoved, Entity: e})
	}
}

func notify[E Entity](listeners []Listener[E], ev Event[E]) {
	for _, l := range listeners {
		l(ev)
	}
}

func deleteID(ids []core.EntityID, id core.EntityID) []core.EntityID {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
