package spatial

import (
	"fmt"

	"collidex/internal/core"
)

// treeNode is a node of the dynamic tree. Leaves carry an id and the exact
// bounds they were inserted with; internal nodes always have two children
// and bounds equal to the union of those children.
type treeNode[K comparable, B core.Volume[B]] struct {
	bounds B
	parent *treeNode[K, B]
	left   *treeNode[K, B]
	right  *treeNode[K, B]
	id     K
	height int
}

func (n *treeNode[K, B]) isLeaf() bool {
	return n.left == nil
}

// DynamicTree is a binary bounding volume hierarchy with incremental insert
// and remove. Insertion picks a sibling with the perimeter cost heuristic and
// refits every ancestor; removal splices the sibling into the grandparent.
// Leaf bounds are not fattened, so moving entities are remove+insert.
type DynamicTree[K comparable, B core.Volume[B]] struct {
	root   *treeNode[K, B]
	leaves map[K]*treeNode[K, B]
	stack  []*treeNode[K, B]
}

var _ Index[core.EntityID, core.AABB] = (*DynamicTree[core.EntityID, core.AABB])(nil)

// NewDynamicTree creates an empty tree
func NewDynamicTree[K comparable, B core.Volume[B]]() *DynamicTree[K, B] {
	return &DynamicTree[K, B]{
		leaves: make(map[K]*treeNode[K, B]),
	}
}

// Insert adds id with bounds. An id already in the tree is moved.
func (t *DynamicTree[K, B]) Insert(id K, bounds B) error {
	if err := checkBounds(bounds); err != nil {
		return err
	}
	if old, exists := t.leaves[id]; exists {
		t.removeLeaf(old)
	}

	leaf := &treeNode[K, B]{bounds: bounds, id: id}
	t.leaves[id] = leaf
	t.insertLeaf(leaf)
	return nil
}

// Remove drops id from the tree. Unknown ids are ignored.
func (t *DynamicTree[K, B]) Remove(id K) {
	leaf, exists := t.leaves[id]
	if !exists {
		return
	}
	delete(t.leaves, id)
	t.removeLeaf(leaf)
}

// Update re-inserts id with new bounds
func (t *DynamicTree[K, B]) Update(id K, bounds B) error {
	return t.Insert(id, bounds)
}

// Retrieve returns the ids of every leaf overlapping query
func (t *DynamicTree[K, B]) Retrieve(query B) []K {
	return t.RetrieveInto(nil, query)
}

// RetrieveInto appends the ids of every leaf overlapping query to dst[:0]
func (t *DynamicTree[K, B]) RetrieveInto(dst []K, query B) []K {
	dst = dst[:0]
	if t.root == nil {
		return dst
	}

	stack := append(t.stack[:0], t.root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !n.bounds.Overlaps(query) {
			continue
		}
		if n.isLeaf() {
			dst = append(dst, n.id)
			continue
		}
		stack = append(stack, n.right, n.left)
	}
	t.stack = stack[:0]
	return dst
}

// Contains reports whether id is in the tree
func (t *DynamicTree[K, B]) Contains(id K) bool {
	_, ok := t.leaves[id]
	return ok
}

// Bounds returns the bounds id was inserted with
func (t *DynamicTree[K, B]) Bounds(id K) (B, bool) {
	leaf, ok := t.leaves[id]
	if !ok {
		var zero B
		return zero, false
	}
	return leaf.bounds, true
}

// Len returns the number of leaves
func (t *DynamicTree[K, B]) Len() int {
	return len(t.leaves)
}

// Clear drops every node and index entry
func (t *DynamicTree[K, B]) Clear() {
	t.root = nil
	t.leaves = make(map[K]*treeNode[K, B])
	t.stack = nil
}

// Height returns the height of the tree; 0 for a single leaf, -1 when empty
func (t *DynamicTree[K, B]) Height() int {
	if t.root == nil {
		return -1
	}
	return t.root.height
}

// RootBounds returns the bounds of everything in the tree
func (t *DynamicTree[K, B]) RootBounds() (B, bool) {
	if t.root == nil {
		var zero B
		return zero, false
	}
	return t.root.bounds, true
}

// Walk visits every node depth first, parents before children
func (t *DynamicTree[K, B]) Walk(fn func(bounds B, depth int, leaf bool)) {
	var walk func(n *treeNode[K, B], depth int)
	walk = func(n *treeNode[K, B], depth int) {
		if n == nil {
			return
		}
		fn(n.bounds, depth, n.isLeaf())
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(t.root, 0)
}

// insertLeaf finds the cheapest sibling for leaf, splices a new parent in
// its place and refits the path to the root
func (t *DynamicTree[K, B]) insertLeaf(leaf *treeNode[K, B]) {
	if t.root == nil {
		t.root = leaf
		leaf.parent = nil
		return
	}

	leafBounds := leaf.bounds
	index := t.root
	for !index.isLeaf() {
		area := index.bounds.Perimeter()
		combinedArea := index.bounds.Union(leafBounds).Perimeter()

		// Cost of creating a new parent for this node and the new leaf
		cost := 2 * combinedArea

		// Minimum cost of pushing the leaf further down the tree
		inheritanceCost := 2 * (combinedArea - area)

		cost1 := descendCost(index.left, leafBounds) + inheritanceCost
		cost2 := descendCost(index.right, leafBounds) + inheritanceCost

		if cost < cost1 && cost < cost2 {
			break
		}
		if cost1 < cost2 {
			index = index.left
		} else {
			index = index.right
		}
	}

	sibling := index
	oldParent := sibling.parent
	newParent := &treeNode[K, B]{
		bounds: sibling.bounds.Union(leafBounds),
		parent: oldParent,
		left:   sibling,
		right:  leaf,
		height: sibling.height + 1,
	}
	sibling.parent = newParent
	leaf.parent = newParent

	if oldParent == nil {
		t.root = newParent
	} else if oldParent.left == sibling {
		oldParent.left = newParent
	} else {
		oldParent.right = newParent
	}

	t.refit(newParent.parent)
}

// descendCost is the cost of placing leafBounds somewhere below child
func descendCost[K comparable, B core.Volume[B]](child *treeNode[K, B], leafBounds B) float64 {
	combined := child.bounds.Union(leafBounds).Perimeter()
	if child.isLeaf() {
		return combined
	}
	return combined - child.bounds.Perimeter()
}

// removeLeaf detaches leaf and its parent, promoting the sibling
func (t *DynamicTree[K, B]) removeLeaf(leaf *treeNode[K, B]) {
	if leaf == t.root {
		t.root = nil
		return
	}

	parent := leaf.parent
	grandParent := parent.parent
	sibling := parent.left
	if sibling == leaf {
		sibling = parent.right
	}

	if grandParent == nil {
		t.root = sibling
		sibling.parent = nil
	} else {
		if grandParent.left == parent {
			grandParent.left = sibling
		} else {
			grandParent.right = sibling
		}
		sibling.parent = grandParent
		t.refit(grandParent)
	}

	parent.parent, parent.left, parent.right = nil, nil, nil
	leaf.parent = nil
}

// refit recomputes bounds and heights from n up to the root
func (t *DynamicTree[K, B]) refit(n *treeNode[K, B]) {
	for n != nil {
		n.bounds = n.left.bounds.Union(n.right.bounds)
		n.height = 1 + max(n.left.height, n.right.height)
		n = n.parent
	}
}

// Validate checks the structural invariants: binary nodes, parent links,
// internal bounds equal to the union of their children, cached heights and
// a one-to-one match between leaves and the id index. It returns an error
// wrapping core.ErrInvariantViolation on the first problem found.
func (t *DynamicTree[K, B]) Validate() error {
	if t.root == nil {
		if len(t.leaves) != 0 {
			return fmt.Errorf("empty tree has %d indexed leaves: %w", len(t.leaves), core.ErrInvariantViolation)
		}
		return nil
	}
	if t.root.parent != nil {
		return fmt.Errorf("root has a parent: %w", core.ErrInvariantViolation)
	}

	leafCount := 0
	var check func(n *treeNode[K, B]) error
	check = func(n *treeNode[K, B]) error {
		if n.isLeaf() {
			if n.right != nil {
				return fmt.Errorf("node has only a right child: %w", core.ErrInvariantViolation)
			}
			if t.leaves[n.id] != n {
				return fmt.Errorf("leaf %v missing from index: %w", n.id, core.ErrInvariantViolation)
			}
			if n.height != 0 {
				return fmt.Errorf("leaf %v has height %d: %w", n.id, n.height, core.ErrInvariantViolation)
			}
			leafCount++
			return nil
		}
		if n.right == nil {
			return fmt.Errorf("node has only a left child: %w", core.ErrInvariantViolation)
		}
		if n.left.parent != n || n.right.parent != n {
			return fmt.Errorf("broken parent link: %w", core.ErrInvariantViolation)
		}
		union := n.left.bounds.Union(n.right.bounds)
		if !union.Contains(n.bounds) || !n.bounds.Contains(union) {
			return fmt.Errorf("node bounds %+v differ from child union %+v: %w", n.bounds, union, core.ErrInvariantViolation)
		}
		if want := 1 + max(n.left.height, n.right.height); n.height != want {
			return fmt.Errorf("node height %d, want %d: %w", n.height, want, core.ErrInvariantViolation)
		}
		if err := check(n.left); err != nil {
			return err
		}
		return check(n.right)
	}
	if err := check(t.root); err != nil {
		return err
	}
	if leafCount != len(t.leaves) {
		return fmt.Errorf("%d leaves in tree, %d in index: %w", leafCount, len(t.leaves), core.ErrInvariantViolation)
	}
	return nil
}
