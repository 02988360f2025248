package spatial

import (
	"fmt"
	"slices"

	"collidex/internal/core"
)

const (
	// MaxEntitiesPerNode defines when to split a quadtree node
	MaxEntitiesPerNode = 10
	// MaxDepth defines maximum depth of the quadtree
	MaxDepth = 8
)

// QuadtreeOption tunes NewQuadtree
type QuadtreeOption func(*quadtreeConfig)

type quadtreeConfig struct {
	maxObjects int
	maxDepth   int
}

// WithMaxObjects sets how many entities a node holds before it splits.
// Zero keeps the default.
func WithMaxObjects(n int) QuadtreeOption {
	return func(c *quadtreeConfig) {
		if n > 0 {
			c.maxObjects = n
		}
	}
}

// WithMaxDepth caps how deep nodes may split. Zero keeps the default.
func WithMaxDepth(n int) QuadtreeOption {
	return func(c *quadtreeConfig) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// Quadtree is a region tree over a fixed world box. With 2D bounds every
// split yields four quadrants; with 3D bounds it yields eight octants, so
// the same type serves as an octree. Entities that straddle a split line
// stay in the parent node. Entities outside the world box are kept at the
// root.
type Quadtree[K comparable, B core.Volume[B]] struct {
	bounds B
	cfg    quadtreeConfig
	items  map[K]B
	root   *quadNode[K, B]
}

// quadNode represents a node in the quadtree
type quadNode[K comparable, B core.Volume[B]] struct {
	bounds   B
	ids      []K
	children []*quadNode[K, B]
	depth    int
}

var _ Index[core.EntityID, core.AABB3D] = (*Quadtree[core.EntityID, core.AABB3D])(nil)

// NewQuadtree creates an empty tree covering bounds
func NewQuadtree[K comparable, B core.Volume[B]](bounds B, opts ...QuadtreeOption) (*Quadtree[K, B], error) {
	if err := checkBounds(bounds); err != nil {
		return nil, fmt.Errorf("quadtree world: %w", err)
	}
	cfg := quadtreeConfig{maxObjects: MaxEntitiesPerNode, maxDepth: MaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Quadtree[K, B]{
		bounds: bounds,
		cfg:    cfg,
		items:  make(map[K]B),
		root:   &quadNode[K, B]{bounds: bounds},
	}, nil
}

// Insert adds an entity to the quadtree, replacing any previous entry
func (qt *Quadtree[K, B]) Insert(id K, bounds B) error {
	if err := checkBounds(bounds); err != nil {
		return err
	}
	qt.Remove(id)
	qt.items[id] = bounds
	qt.root.insert(qt, id, bounds)
	return nil
}

// Remove drops id. Unknown ids are ignored.
func (qt *Quadtree[K, B]) Remove(id K) {
	bounds, exists := qt.items[id]
	if !exists {
		return
	}
	delete(qt.items, id)
	qt.root.remove(id, bounds)
}

// Update moves id to new bounds
func (qt *Quadtree[K, B]) Update(id K, bounds B) error {
	return qt.Insert(id, bounds)
}

// Retrieve returns the ids whose bounds overlap query
func (qt *Quadtree[K, B]) Retrieve(query B) []K {
	return qt.RetrieveInto(nil, query)
}

// RetrieveInto appends the matches to dst[:0]. Every child overlapping the
// query is visited, so a query that straddles a split line still finds
// entities on both sides.
func (qt *Quadtree[K, B]) RetrieveInto(dst []K, query B) []K {
	dst = dst[:0]
	if !query.Valid() {
		return dst
	}
	return qt.root.query(qt.items, query, dst)
}

// Contains reports whether id is in the tree
func (qt *Quadtree[K, B]) Contains(id K) bool {
	_, ok := qt.items[id]
	return ok
}

// Len returns the number of entities
func (qt *Quadtree[K, B]) Len() int {
	return len(qt.items)
}

// Clear removes all entities and collapses the tree to a single node
func (qt *Quadtree[K, B]) Clear() {
	qt.items = make(map[K]B)
	qt.root = &quadNode[K, B]{bounds: qt.bounds}
}

// Depth returns the depth of the deepest node
func (qt *Quadtree[K, B]) Depth() int {
	depth := 0
	qt.Walk(func(_ B, d int, _ int) {
		depth = max(depth, d)
	})
	return depth
}

// NodeCount returns the number of nodes, leaves included
func (qt *Quadtree[K, B]) NodeCount() int {
	n := 0
	qt.Walk(func(B, int, int) { n++ })
	return n
}

// Walk visits every node depth first with its region, depth and the number
// of entities stored directly in it
func (qt *Quadtree[K, B]) Walk(fn func(bounds B, depth int, count int)) {
	var visit func(n *quadNode[K, B])
	visit = func(n *quadNode[K, B]) {
		fn(n.bounds, n.depth, len(n.ids))
		for _, child := range n.children {
			visit(child)
		}
	}
	visit(qt.root)
}

// insert adds an entity to this node or its children
func (qn *quadNode[K, B]) insert(qt *Quadtree[K, B], id K, bounds B) {
	if i := qn.childIndex(bounds); i != -1 {
		qn.children[i].insert(qt, id, bounds)
		return
	}

	qn.ids = append(qn.ids, id)

	if qn.children == nil && len(qn.ids) > qt.cfg.maxObjects && qn.depth < qt.cfg.maxDepth {
		qn.split(qt)
	}
}

// remove follows the same descent insert took
func (qn *quadNode[K, B]) remove(id K, bounds B) bool {
	if i := qn.childIndex(bounds); i != -1 {
		if qn.children[i].remove(id, bounds) {
			return true
		}
	}
	if i := slices.Index(qn.ids, id); i >= 0 {
		qn.ids = slices.Delete(qn.ids, i, i+1)
		return true
	}
	return false
}

func (qn *quadNode[K, B]) query(items map[K]B, query B, dst []K) []K {
	for _, id := range qn.ids {
		if items[id].Overlaps(query) {
			dst = append(dst, id)
		}
	}
	for _, child := range qn.children {
		if child.bounds.Overlaps(query) {
			dst = child.query(items, query, dst)
		}
	}
	return dst
}

// split divides this node and pushes down every entity that fits a child
func (qn *quadNode[K, B]) split(qt *Quadtree[K, B]) {
	regions := qn.bounds.Split()
	qn.children = make([]*quadNode[K, B], len(regions))
	for i, r := range regions {
		qn.children[i] = &quadNode[K, B]{bounds: r, depth: qn.depth + 1}
	}

	kept := qn.ids[:0]
	for _, id := range qn.ids {
		bounds := qt.items[id]
		if i := qn.childIndex(bounds); i != -1 {
			qn.children[i].insert(qt, id, bounds)
			continue
		}
		kept = append(kept, id)
	}
	clear(qn.ids[len(kept):])
	qn.ids = kept
}

// childIndex returns which child fully contains bounds, or -1
func (qn *quadNode[K, B]) childIndex(bounds B) int {
	for i, child := range qn.children {
		if child.bounds.Contains(bounds) {
			return i
		}
	}
	return -1
}
