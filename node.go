package hnsw

import (
	"sync"
	"sync/atomic"
)

// Node is a named vector with a per-layer adjacency list. A Node is created
// once by Index.Add and never mutated afterward except through adjacency
// edits performed by the insertion, deletion, and shrink routines; all such
// edits hold node.mu for the duration of the edit.
//
// Equality of nodes is identity (pointer equality), never name: two Node
// values are never compared by name inside the package, only looked up
// through Index.nodes.
type Node struct {
	name   string
	vector []float32
	level  int // fixed at creation: the highest layer this node belongs to

	// ordinal is a small dense integer assigned by the index at creation,
	// used only to index a bitset.BitSet visited-set during beam search
	// (see search.go). It plays no role in any invariant and is never
	// exposed outside the package.
	ordinal uint32

	mu        sync.RWMutex
	neighbors [][]*Node // neighbors[l] valid for l <= level; may lag level until EnsureLevel(l)

	// refs is a host-maintained outstanding-reference count, since the Go
	// runtime exposes no reference counting of its own. Delete consults it
	// to implement ErrInUse; the graph's own internal pointers (neighbor
	// lists, layer sets, enterpoint) never touch it.
	refs int32
}

func newNode(name string, vector []float32, level int, ordinal uint32) *Node {
	return &Node{
		name:    name,
		vector:  vector,
		level:   level,
		ordinal: ordinal,
	}
}

// Name returns the node's stable identifier.
func (n *Node) Name() string { return n.name }

// Vector returns the node's immutable vector. Callers must not mutate the
// returned slice.
func (n *Node) Vector() []float32 { return n.vector }

// Level returns the highest layer this node participates in.
func (n *Node) Level() int { return n.level }

// ensureLevelLocked grows the adjacency sequence to length l+1, creating empty
// neighbor lists as needed. Idempotent. Must be called with n.mu held for
// writing.
func (n *Node) ensureLevelLocked(l int) {
	for len(n.neighbors) <= l {
		n.neighbors = append(n.neighbors, nil)
	}
}

// EnsureLevel is the exported, self-locking form used defensively by beam
// search before reading a popped candidate's adjacency at a layer that may
// not have been initialized yet by a concurrent insertion.
func (n *Node) EnsureLevel(l int) {
	n.mu.Lock()
	n.ensureLevelLocked(l)
	n.mu.Unlock()
}

// AddNeighbor ensures level l exists, then inserts w into neighbors[l] iff
// not already present and w is not n itself.
func (n *Node) AddNeighbor(l int, w *Node) {
	if w == n {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ensureLevelLocked(l)
	for _, existing := range n.neighbors[l] {
		if existing == w {
			return
		}
	}
	n.neighbors[l] = append(n.neighbors[l], w)
}

// RemoveNeighbor removes w from neighbors[l]. It is a programmer error to
// call this when w is absent; callers that cannot guarantee presence should
// check first (see hasNeighbor).
func (n *Node) RemoveNeighbor(l int, w *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ensureLevelLocked(l)
	list := n.neighbors[l]
	for i, existing := range list {
		if existing == w {
			n.neighbors[l] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Neighbors returns a defensive copy of the node's neighbor list at layer l.
// Returns nil if l exceeds the node's current (possibly lazily initialized)
// adjacency length.
func (n *Node) Neighbors(l int) []*Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if l >= len(n.neighbors) {
		return nil
	}
	out := make([]*Node, len(n.neighbors[l]))
	copy(out, n.neighbors[l])
	return out
}

// degree returns len(neighbors[l]) without copying, for cap checks.
func (n *Node) degree(l int) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if l >= len(n.neighbors) {
		return 0
	}
	return len(n.neighbors[l])
}

// acquire and release adjust the host-maintained outstanding-reference
// count. They never block and never touch graph structure.
func (n *Node) acquire() { atomic.AddInt32(&n.refs, 1) }
func (n *Node) release() {
	if atomic.AddInt32(&n.refs, -1) < 0 {
		atomic.StoreInt32(&n.refs, 0)
	}
}
func (n *Node) refCount() int32 { return atomic.LoadInt32(&n.refs) }

func (n *Node) hasNeighbor(l int, w *Node) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if l >= len(n.neighbors) {
		return false
	}
	for _, existing := range n.neighbors[l] {
		if existing == w {
			return true
		}
	}
	return false
}
