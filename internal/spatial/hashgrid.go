package spatial

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"collidex/internal/core"

	"github.com/cespare/xxhash/v2"
)

// maxHashCellsPerEntity caps how many cells one entity may occupy; larger
// bounds are kept in an overflow list checked by every query.
const maxHashCellsPerEntity = 4096

// maxHashCoord bounds cell coordinates so huge or infinite bounds still map
// to a finite cell range whose size cannot overflow int64.
const maxHashCoord = 1 << 40

type cellKey [maxDims]int64

type hashCell[K comparable] struct {
	key     cellKey
	members []K
}

// HashGrid is an unbounded spatial hash: cell coordinates are hashed with
// xxhash into buckets, so the world needs no fixed extent. Hash collisions
// are chained within a bucket.
type HashGrid[K comparable, B core.Volume[B]] struct {
	cellSize float64
	buckets  map[uint64][]*hashCell[K]
	entries  map[K]hashEntry[B]
	overflow []K
	seen     map[K]struct{}
}

type hashEntry[B any] struct {
	bounds   B
	lo, hi   cellKey
	overflow bool
}

var _ Index[core.EntityID, core.AABB] = (*HashGrid[core.EntityID, core.AABB])(nil)

// NewHashGrid creates an empty spatial hash with the given cell size
func NewHashGrid[K comparable, B core.Volume[B]](cellSize float64) (*HashGrid[K, B], error) {
	if cellSize <= 0 || math.IsNaN(cellSize) {
		return nil, fmt.Errorf("hash grid cell size %v must be positive: %w", cellSize, core.ErrInvalidConfig)
	}
	return &HashGrid[K, B]{
		cellSize: cellSize,
		buckets:  make(map[uint64][]*hashCell[K]),
		entries:  make(map[K]hashEntry[B]),
		seen:     make(map[K]struct{}),
	}, nil
}

// Insert lists id in every cell its bounds overlap
func (h *HashGrid[K, B]) Insert(id K, bounds B) error {
	if err := checkBounds(bounds); err != nil {
		return err
	}
	h.Remove(id)

	e := hashEntry[B]{bounds: bounds}
	e.lo, e.hi = h.keyRange(bounds)
	if cellsIn(e.lo, e.hi) > maxHashCellsPerEntity {
		e.overflow = true
		h.overflow = append(h.overflow, id)
	} else {
		eachKey(e.lo, e.hi, func(k cellKey) {
			c := h.cell(k, true)
			c.members = append(c.members, id)
		})
	}
	h.entries[id] = e
	return nil
}

// Remove drops id. Unknown ids are ignored.
func (h *HashGrid[K, B]) Remove(id K) {
	e, exists := h.entries[id]
	if !exists {
		return
	}
	delete(h.entries, id)

	if e.overflow {
		if i := slices.Index(h.overflow, id); i >= 0 {
			h.overflow = slices.Delete(h.overflow, i, i+1)
		}
		return
	}
	eachKey(e.lo, e.hi, func(k cellKey) {
		c := h.cell(k, false)
		if c == nil {
			return
		}
		if i := slices.Index(c.members, id); i >= 0 {
			c.members = slices.Delete(c.members, i, i+1)
		}
		if len(c.members) == 0 {
			h.dropCell(k)
		}
	})
}

// Update moves id to new bounds
func (h *HashGrid[K, B]) Update(id K, bounds B) error {
	return h.Insert(id, bounds)
}

// Retrieve returns every id sharing a cell with query
func (h *HashGrid[K, B]) Retrieve(query B) []K {
	return h.RetrieveInto(nil, query)
}

// RetrieveInto appends the deduplicated candidates to dst[:0]
func (h *HashGrid[K, B]) RetrieveInto(dst []K, query B) []K {
	dst = dst[:0]
	if !query.Valid() {
		return dst
	}
	clear(h.seen)
	add := func(id K) {
		if _, dup := h.seen[id]; dup {
			return
		}
		h.seen[id] = struct{}{}
		dst = append(dst, id)
	}

	lo, hi := h.keyRange(query)
	if cellsIn(lo, hi) > maxHashCellsPerEntity {
		// a huge query is cheaper as a scan over the entries
		for id, e := range h.entries {
			if e.bounds.Overlaps(query) {
				add(id)
			}
		}
		return dst
	}

	eachKey(lo, hi, func(k cellKey) {
		if c := h.cell(k, false); c != nil {
			for _, id := range c.members {
				add(id)
			}
		}
	})
	for _, id := range h.overflow {
		if h.entries[id].bounds.Overlaps(query) {
			add(id)
		}
	}
	return dst
}

// Contains reports whether id is in the hash
func (h *HashGrid[K, B]) Contains(id K) bool {
	_, ok := h.entries[id]
	return ok
}

// Len returns the number of entities
func (h *HashGrid[K, B]) Len() int {
	return len(h.entries)
}

// Clear drops every cell and entity
func (h *HashGrid[K, B]) Clear() {
	h.buckets = make(map[uint64][]*hashCell[K])
	h.entries = make(map[K]hashEntry[B])
	h.overflow = nil
}

// CellCount returns the number of occupied cells
func (h *HashGrid[K, B]) CellCount() int {
	n := 0
	for _, bucket := range h.buckets {
		n += len(bucket)
	}
	return n
}

func (h *HashGrid[K, B]) keyRange(bounds B) (lo, hi cellKey) {
	for axis := 0; axis < bounds.Dims() && axis < maxDims; axis++ {
		lo[axis] = h.coord(bounds.Lower(axis))
		hi[axis] = h.coord(bounds.Upper(axis))
	}
	return lo, hi
}

func (h *HashGrid[K, B]) coord(v float64) int64 {
	c := math.Floor(v / h.cellSize)
	switch {
	case c <= -maxHashCoord:
		return -maxHashCoord
	case c >= maxHashCoord:
		return maxHashCoord
	}
	return int64(c)
}

func (h *HashGrid[K, B]) cell(k cellKey, create bool) *hashCell[K] {
	sum := hashKey(k)
	for _, c := range h.buckets[sum] {
		if c.key == k {
			return c
		}
	}
	if !create {
		return nil
	}
	c := &hashCell[K]{key: k}
	h.buckets[sum] = append(h.buckets[sum], c)
	return c
}

func (h *HashGrid[K, B]) dropCell(k cellKey) {
	sum := hashKey(k)
	bucket := h.buckets[sum]
	for i, c := range bucket {
		if c.key == k {
			bucket = slices.Delete(bucket, i, i+1)
			break
		}
	}
	if len(bucket) == 0 {
		delete(h.buckets, sum)
		return
	}
	h.buckets[sum] = bucket
}

func hashKey(k cellKey) uint64 {
	var buf [maxDims * 8]byte
	for i, c := range k {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(c))
	}
	return xxhash.Sum64(buf[:])
}

func cellsIn(lo, hi cellKey) int64 {
	n := int64(1)
	for axis := 0; axis < maxDims; axis++ {
		n *= hi[axis] - lo[axis] + 1
		if n > maxHashCellsPerEntity {
			return n
		}
	}
	return n
}

func eachKey(lo, hi cellKey, fn func(cellKey)) {
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				fn(cellKey{x, y, z})
			}
		}
	}
}
