package spatial

import (
	"fmt"
	"math"
	"slices"

	"collidex/internal/core"
)

// maxDims is the highest dimension the grids support
const maxDims = 3

// cellRange is an inclusive range of cell coordinates per axis
type cellRange struct {
	lo, hi [maxDims]int
}

// Grid is a uniform grid over a fixed extent. Every entity is listed in each
// cell its bounds touch; bounds outside the extent are clamped to the border
// cells. Suited to bounded maps with a modest number of entities.
type Grid[K comparable, B core.Volume[B]] struct {
	bounds   B
	cellSize float64
	dims     int
	counts   [maxDims]int
	strides  [maxDims]int
	cells    [][]K
	entries  map[K]cellRange
	seen     map[K]struct{}
}

var _ Index[core.EntityID, core.AABB] = (*Grid[core.EntityID, core.AABB])(nil)

// NewGrid creates a grid covering bounds with square (cubic) cells
func NewGrid[K comparable, B core.Volume[B]](bounds B, cellSize float64) (*Grid[K, B], error) {
	if err := checkBounds(bounds); err != nil {
		return nil, err
	}
	if cellSize <= 0 || math.IsNaN(cellSize) {
		return nil, fmt.Errorf("grid cell size %v must be positive: %w", cellSize, core.ErrInvalidConfig)
	}
	dims := bounds.Dims()
	if dims > maxDims {
		return nil, fmt.Errorf("grid supports up to %d dimensions, got %d: %w", maxDims, dims, core.ErrInvalidConfig)
	}

	g := &Grid[K, B]{
		bounds:   bounds,
		cellSize: cellSize,
		dims:     dims,
		entries:  make(map[K]cellRange),
		seen:     make(map[K]struct{}),
	}
	total := 1
	for axis := 0; axis < maxDims; axis++ {
		g.counts[axis] = 1
		if axis < dims {
			extent := bounds.Upper(axis) - bounds.Lower(axis)
			g.counts[axis] = max(1, int(math.Ceil(extent/cellSize)))
		}
		g.strides[axis] = total
		total *= g.counts[axis]
	}
	g.cells = make([][]K, total)
	return g, nil
}

// Insert lists id in every cell its bounds overlap
func (g *Grid[K, B]) Insert(id K, bounds B) error {
	if err := checkBounds(bounds); err != nil {
		return err
	}
	g.Remove(id)

	r := g.cellRange(bounds)
	g.entries[id] = r
	g.eachCell(r, func(idx int) {
		g.cells[idx] = append(g.cells[idx], id)
	})
	return nil
}

// Remove drops id from every cell it occupies. Unknown ids are ignored.
func (g *Grid[K, B]) Remove(id K) {
	r, exists := g.entries[id]
	if !exists {
		return
	}
	delete(g.entries, id)
	g.eachCell(r, func(idx int) {
		cell := g.cells[idx]
		if i := slices.Index(cell, id); i >= 0 {
			g.cells[idx] = slices.Delete(cell, i, i+1)
		}
	})
}

// Update moves id to new bounds
func (g *Grid[K, B]) Update(id K, bounds B) error {
	return g.Insert(id, bounds)
}

// Retrieve returns every id listed in a cell overlapped by query
func (g *Grid[K, B]) Retrieve(query B) []K {
	return g.RetrieveInto(nil, query)
}

// RetrieveInto appends the deduplicated candidates to dst[:0]
func (g *Grid[K, B]) RetrieveInto(dst []K, query B) []K {
	dst = dst[:0]
	if !query.Valid() {
		return dst
	}
	clear(g.seen)
	g.eachCell(g.cellRange(query), func(idx int) {
		for _, id := range g.cells[idx] {
			if _, dup := g.seen[id]; dup {
				continue
			}
			g.seen[id] = struct{}{}
			dst = append(dst, id)
		}
	})
	return dst
}

// Contains reports whether id is in the grid
func (g *Grid[K, B]) Contains(id K) bool {
	_, ok := g.entries[id]
	return ok
}

// Len returns the number of entities
func (g *Grid[K, B]) Len() int {
	return len(g.entries)
}

// Clear empties every cell
func (g *Grid[K, B]) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.entries = make(map[K]cellRange)
}

// CellCount returns the number of cells
func (g *Grid[K, B]) CellCount() int {
	return len(g.cells)
}

// CellBounds calls fn with the lower corner coordinates, the cell size and
// the occupancy of every non-empty cell
func (g *Grid[K, B]) CellBounds(fn func(lower [maxDims]float64, size float64, occupancy int)) {
	for idx, cell := range g.cells {
		if len(cell) == 0 {
			continue
		}
		var lower [maxDims]float64
		rem := idx
		for axis := maxDims - 1; axis >= 0; axis-- {
			c := rem / g.strides[axis]
			rem %= g.strides[axis]
			if axis < g.dims {
				lower[axis] = g.bounds.Lower(axis) + float64(c)*g.cellSize
			}
		}
		fn(lower, g.cellSize, len(cell))
	}
}

func (g *Grid[K, B]) cellRange(bounds B) cellRange {
	var r cellRange
	for axis := 0; axis < g.dims; axis++ {
		origin := g.bounds.Lower(axis)
		r.lo[axis] = g.clamp(axis, (bounds.Lower(axis)-origin)/g.cellSize)
		r.hi[axis] = g.clamp(axis, (bounds.Upper(axis)-origin)/g.cellSize)
	}
	return r
}

func (g *Grid[K, B]) clamp(axis int, v float64) int {
	c := math.Floor(v)
	if c < 0 {
		return 0
	}
	if last := g.counts[axis] - 1; c > float64(last) {
		return last
	}
	return int(c)
}

func (g *Grid[K, B]) eachCell(r cellRange, fn func(idx int)) {
	for z := r.lo[2]; z <= r.hi[2]; z++ {
		for y := r.lo[1]; y <= r.hi[1]; y++ {
			base := z*g.strides[2] + y*g.strides[1]
			for x := r.lo[0]; x <= r.hi[0]; x++ {
				fn(base + x*g.strides[0])
			}
		}
	}
}
