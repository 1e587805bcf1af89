package hnsw

// Add inserts a new node under name with the given vector, wiring it into
// the graph, and invokes sink once for every node whose adjacency changed
// (including the new node itself). sink may be nil.
func (idx *Index) Add(name string, vector []float32, sink UpdateSink) error {
	if len(vector) != idx.dataDim {
		return ErrDimensionMismatch
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.nodes[name]; exists {
		return ErrDuplicateName
	}

	ordinal := idx.nextOrdinal
	idx.nextOrdinal++
	level := drawLevel(idx.rng, idx.levelMult)
	if idx.enterpoint == nil {
		// The first node of an empty index always starts at layer 0.
		level = 0
	}
	n := newNode(name, vector, level, ordinal)
	idx.nodes[name] = n
	idx.nodeCount++

	if idx.enterpoint == nil {
		n.EnsureLevel(level)
		for l := 0; l <= level; l++ {
			idx.addToLayer(l, n)
		}
		idx.enterpoint = n
		idx.maxLayer = level
		notify(sink, n)
		return nil
	}

	dirty := map[*Node]struct{}{n: {}}

	lMax := idx.maxLayer
	ep := idx.greedyDescend(vector, idx.enterpoint, lMax, level)

	for lc := min(lMax, level); lc >= 0; lc-- {
		candidates := idx.searchLevel(vector, ep, idx.efConstr, lc)
		if len(candidates) > 0 {
			best := candidates[0]
			for _, c := range candidates[1:] {
				if c.Sim > best.Sim {
					best = c
				}
			}
			ep = best.Node
		}

		selected := idx.selectNeighbors(n, candidates, idx.m, lc, true, true, nil)
		for _, s := range selected {
			n.AddNeighbor(lc, s.Node)
			s.Node.AddNeighbor(lc, n)
			dirty[s.Node] = struct{}{}
		}

		capL := idx.cap(lc)
		for _, s := range selected {
			if s.Node.degree(lc) > capL {
				idx.shrink(s.Node, lc, capL, n, true, dirty)
			}
		}
	}

	for l := 0; l <= level; l++ {
		idx.addToLayer(l, n)
	}
	if level > lMax {
		idx.enterpoint = n
		idx.maxLayer = level
	}

	for dn := range dirty {
		notify(sink, dn)
	}
	return nil
}

// shrink re-selects s's neighborhood at layer l down to capL entries using
// the same heuristic as connection time (with extension and pruned-refill
// when extend is set), then applies the diff: drop edges no longer selected,
// add newly selected ones, marking every counterpart whose adjacency changed
// dirty. mustKeep, when non-nil, is guaranteed a slot: shrink enforces the
// cap but never severs the edge just created to the inserting node.
//
// A newly added edge can push its counterpart over the cap in turn; that
// counterpart is shrunk with extend=false, whose selection draws only from
// the counterpart's current neighbors and therefore adds no further edges,
// so the cascade stops after one step.
func (idx *Index) shrink(s *Node, l, capL int, mustKeep *Node, extend bool, dirty map[*Node]struct{}) {
	dirty[s] = struct{}{}

	current := s.Neighbors(l)
	candidates := make([]Pair, 0, len(current))
	for _, w := range current {
		candidates = append(candidates, Pair{Sim: idx.metric(w.Vector(), s.Vector()), Node: w})
	}

	selected := idx.selectNeighbors(s, candidates, capL, l, extend, true, nil)

	if mustKeep != nil {
		kept := false
		for _, sel := range selected {
			if sel.Node == mustKeep {
				kept = true
				break
			}
		}
		if !kept {
			if len(selected) >= capL && capL > 0 {
				selected = selected[:capL-1]
			}
			for _, c := range candidates {
				if c.Node == mustKeep {
					selected = append(selected, c)
					break
				}
			}
		}
	}

	keep := make(map[*Node]struct{}, len(selected))
	for _, sel := range selected {
		keep[sel.Node] = struct{}{}
	}
	for _, w := range current {
		if _, ok := keep[w]; !ok {
			s.RemoveNeighbor(l, w)
			w.RemoveNeighbor(l, s)
			dirty[w] = struct{}{}
		}
	}
	for _, sel := range selected {
		if !s.hasNeighbor(l, sel.Node) {
			s.AddNeighbor(l, sel.Node)
			sel.Node.AddNeighbor(l, s)
			dirty[sel.Node] = struct{}{}
			if sel.Node.degree(l) > capL {
				idx.shrink(sel.Node, l, capL, s, false, dirty)
			}
		}
	}
}
