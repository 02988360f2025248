package spatial

import (
	"fmt"
	"strings"

	"collidex/internal/core"
)

// Index is a broadphase: a coarse spatial index that returns a superset of
// the ids whose bounds overlap a query. Implementations are not safe for
// concurrent use.
type Index[K comparable, B core.Volume[B]] interface {
	// Insert adds id with the given bounds, replacing any previous entry
	Insert(id K, bounds B) error
	// Remove drops id; unknown ids are ignored
	Remove(id K)
	// Update moves id to new bounds
	Update(id K, bounds B) error
	// Retrieve returns a fresh slice of candidate ids overlapping query
	Retrieve(query B) []K
	// RetrieveInto appends candidates to dst[:0] and returns it, so callers
	// can reuse one buffer across calls
	RetrieveInto(dst []K, query B) []K
	Contains(id K) bool
	Len() int
	Clear()
}

// Kind names a broadphase strategy
type Kind string

const (
	KindTree     Kind = "tree"
	KindGrid     Kind = "grid"
	KindQuadtree Kind = "quadtree"
	KindHashGrid Kind = "hashgrid"
)

// Kinds lists every supported strategy
var Kinds = []Kind{KindTree, KindGrid, KindQuadtree, KindHashGrid}

// ParseKind converts a config string to a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, core.ErrUnknownBroadphase)
}

// Options configures New. Bounds and CellSize are used by the bounded
// strategies; MaxObjects and MaxDepth by the quadtree.
type Options[B core.Volume[B]] struct {
	Bounds     B
	CellSize   float64
	MaxObjects int
	MaxDepth   int
}

// New builds the broadphase named by kind
func New[K comparable, B core.Volume[B]](kind Kind, opts Options[B]) (Index[K, B], error) {
	switch kind {
	case KindTree:
		return NewDynamicTree[K, B](), nil
	case KindGrid:
		g, err := NewGrid[K](opts.Bounds, opts.CellSize)
		if err != nil {
			return nil, err
		}
		return g, nil
	case KindQuadtree:
		q, err := NewQuadtree[K](opts.Bounds, WithMaxObjects(opts.MaxObjects), WithMaxDepth(opts.MaxDepth))
		if err != nil {
			return nil, err
		}
		return q, nil
	case KindHashGrid:
		h, err := NewHashGrid[K, B](opts.CellSize)
		if err != nil {
			return nil, err
		}
		return h, nil
	default:
		return nil, fmt.Errorf("%q: %w", kind, core.ErrUnknownBroadphase)
	}
}

func checkBounds[B core.Volume[B]](bounds B) error {
	if !bounds.Valid() {
		return fmt.Errorf("bounds %+v: %w", bounds, core.ErrInvalidBounds)
	}
	return nil
}
