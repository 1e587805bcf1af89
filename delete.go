package hnsw

// Delete removes the node named name from the graph, repairing every
// affected neighbor's adjacency by re-selection, and invokes sink once for
// every node whose adjacency changed. sink may be nil.
//
// Delete refuses to remove a node with outstanding strong references (see
// Index.Acquire), returning ErrInUse.
func (idx *Index) Delete(name string, sink UpdateSink) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	victim, ok := idx.nodes[name]
	if !ok {
		return ErrUnknownName
	}
	if victim.refCount() > 0 {
		return ErrInUse
	}

	dirty := map[*Node]struct{}{}
	affected := make([][]*Node, victim.Level()+1)

	for l := 0; l <= victim.Level(); l++ {
		neighbors := victim.Neighbors(l)
		affected[l] = neighbors
		for _, w := range neighbors {
			w.RemoveNeighbor(l, victim)
			dirty[w] = struct{}{}
		}
		idx.removeFromLayer(l, victim)
	}

	for l := 0; l <= victim.Level(); l++ {
		capL := idx.cap(l)
		for _, w := range affected[l] {
			idx.repair(w, l, capL, victim, dirty)
		}
	}

	delete(idx.nodes, name)
	idx.nodeCount--

	if idx.enterpoint == victim {
		idx.reassignEnterpoint()
	}
	for len(idx.layers) > 0 && len(idx.layers[len(idx.layers)-1]) == 0 {
		idx.layers = idx.layers[:len(idx.layers)-1]
	}
	if idx.maxLayer >= len(idx.layers) {
		idx.maxLayer = len(idx.layers) - 1
	}

	for dn := range dirty {
		notify(sink, dn)
	}
	return nil
}

// repair rebuilds w's neighborhood at layer l after victim's removal, using
// w's surviving neighbors (and, via extension, their neighbors) as the
// candidate pool, with victim excluded from consideration even if some
// stale reference to it still lingered.
func (idx *Index) repair(w *Node, l, capL int, victim *Node, dirty map[*Node]struct{}) {
	current := w.Neighbors(l)
	candidates := make([]Pair, 0, len(current))
	for _, e := range current {
		candidates = append(candidates, Pair{Sim: idx.metric(e.Vector(), w.Vector()), Node: e})
	}

	selected := idx.selectNeighbors(w, candidates, capL, l, true, true, victim)

	keep := make(map[*Node]struct{}, len(selected))
	for _, s := range selected {
		keep[s.Node] = struct{}{}
	}
	for _, c := range current {
		if _, ok := keep[c]; !ok {
			w.RemoveNeighbor(l, c)
			c.RemoveNeighbor(l, w)
			dirty[c] = struct{}{}
		}
	}
	for _, s := range selected {
		if !w.hasNeighbor(l, s.Node) {
			w.AddNeighbor(l, s.Node)
			s.Node.AddNeighbor(l, w)
			dirty[s.Node] = struct{}{}
			// A repair edge can push its counterpart over the cap; a
			// non-extending shrink restores it without adding further edges.
			if s.Node.degree(l) > capL {
				idx.shrink(s.Node, l, capL, w, false, dirty)
			}
		}
	}
}

// reassignEnterpoint picks any remaining node from the highest non-empty
// layer, or leaves the index's enterpoint nil if it is now empty. Must be
// called with idx.mu held for writing.
func (idx *Index) reassignEnterpoint() {
	for l := len(idx.layers) - 1; l >= 0; l-- {
		for n := range idx.layers[l] {
			idx.enterpoint = n
			return
		}
	}
	idx.enterpoint = nil
}
