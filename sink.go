package hnsw

// NodeView is a read-only snapshot of one node's adjacency, taken while the
// node's lock is held: the node's name, vector, and its current neighbor
// names at every layer it participates in. Index keys are layer numbers.
type NodeView struct {
	Name      string
	Vector    []float32
	Neighbors map[int][]string
}

// UpdateSink is invoked once per node whose adjacency changed during an Add
// or Delete call. Ordering across calls within one operation is unspecified.
// A nil sink is valid and simply skipped.
type UpdateSink func(NodeView)

// viewOf snapshots n under its own read lock.
func viewOf(n *Node) NodeView {
	n.mu.RLock()
	defer n.mu.RUnlock()
	neighbors := make(map[int][]string, len(n.neighbors))
	for l, list := range n.neighbors {
		names := make([]string, len(list))
		for i, w := range list {
			names[i] = w.name
		}
		neighbors[l] = names
	}
	return NodeView{Name: n.name, Vector: n.vector, Neighbors: neighbors}
}

// notify invokes sink with n's current view if sink is non-nil.
func notify(sink UpdateSink, n *Node) {
	if sink == nil {
		return
	}
	sink(viewOf(n))
}

// CollectingSink is a convenience UpdateSink adapter for hosts that want to
// batch the views touched by one call rather than react per-node. Its zero
// value is ready to use.
type CollectingSink struct {
	Views []NodeView
}

// Sink returns an UpdateSink that appends to c.Views.
func (c *CollectingSink) Sink() UpdateSink {
	return func(v NodeView) {
		c.Views = append(c.Views, v)
	}
}
