package spatial

import (
	"container/heap"

	"collidex/internal/core"
)

// Nearester is implemented by indexes that answer k-nearest queries
type Nearester[K comparable, B core.Volume[B]] interface {
	Nearest(query B, k int) []K
}

var _ Nearester[core.EntityID, core.AABB] = (*DynamicTree[core.EntityID, core.AABB])(nil)

type queued[K comparable, B core.Volume[B]] struct {
	node   *treeNode[K, B]
	distSq float64
}

// nodeQueue implements a min-heap of tree nodes keyed by distance
type nodeQueue[K comparable, B core.Volume[B]] []queued[K, B]

func (pq nodeQueue[K, B]) Len() int { return len(pq) }

func (pq nodeQueue[K, B]) Less(i, j int) bool {
	return pq[i].distSq < pq[j].distSq
}

func (pq nodeQueue[K, B]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *nodeQueue[K, B]) Push(x any) {
	*pq = append(*pq, x.(queued[K, B]))
}

func (pq *nodeQueue[K, B]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = queued[K, B]{} // avoid memory leak
	*pq = old[:n-1]
	return item
}

// Nearest returns up to k ids ordered by the gap between their bounds and
// query, closest first. Overlapping entries have distance 0 and come first in
// no particular order. Subtrees are expanded best first, so the walk stops as
// soon as k leaves have been popped.
func (t *DynamicTree[K, B]) Nearest(query B, k int) []K {
	if t.root == nil || k <= 0 || !query.Valid() {
		return nil
	}

	out := make([]K, 0, min(k, len(t.leaves)))
	pq := nodeQueue[K, B]{{node: t.root, distSq: t.root.bounds.DistanceSq(query)}}
	for pq.Len() > 0 && len(out) < k {
		item := heap.Pop(&pq).(queued[K, B])
		n := item.node
		if n.isLeaf() {
			out = append(out, n.id)
			continue
		}
		heap.Push(&pq, queued[K, B]{node: n.left, distSq: n.left.bounds.DistanceSq(query)})
		heap.Push(&pq, queued[K, B]{node: n.right, distSq: n.right.bounds.DistanceSq(query)})
	}
	return out
}
