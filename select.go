package hnsw

// selectNeighbors implements the HNSW "heuristic select": given a candidate
// pool, pick up to m diverse neighbors for q at layer lc, excluding q itself
// and, when non-nil, ignored (used by delete-repair to keep the victim out
// of a rebuilt neighborhood).
func (idx *Index) selectNeighbors(q *Node, candidates []Pair, m, lc int, extend, keepPruned bool, ignored *Node) []Pair {
	pool := make(map[*Node]Pair, len(candidates))
	for _, c := range candidates {
		if c.Node == q || c.Node == ignored {
			continue
		}
		pool[c.Node] = c
	}

	if extend {
		for _, c := range candidates {
			for _, e := range c.Node.Neighbors(lc) {
				if e == q || e == ignored {
					continue
				}
				if _, ok := pool[e]; ok {
					continue
				}
				pool[e] = Pair{Sim: idx.metric(e.Vector(), q.Vector()), Node: e}
			}
		}
	}

	C := newPairHeap()
	for _, p := range pool {
		C.push(p)
	}

	var result []Pair
	var discard []Pair // filled in best-first order, same as C's pop order
	for C.Len() > 0 && len(result) < m {
		c := C.pop()
		if idx.diverse(c, result) {
			result = append(result, c)
		} else {
			discard = append(discard, c)
		}
	}

	if keepPruned {
		for _, d := range discard {
			if len(result) >= m {
				break
			}
			result = append(result, d)
		}
	}

	sortPairsDesc(result)
	return result
}

// diverse reports whether c is closer to the query than to every
// already-accepted neighbor — the anti-clustering rule that makes the
// heuristic pick nearby but not redundant neighbors.
func (idx *Index) diverse(c Pair, accepted []Pair) bool {
	for _, r := range accepted {
		if idx.metric(c.Node.Vector(), r.Node.Vector()) >= c.Sim {
			return false
		}
	}
	return true
}
