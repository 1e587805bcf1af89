package hnsw

import (
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Result is one hit from SearchKNN: the similarity of vector to the query
// under the index's metric, the node's host-facing name, and its vector.
type Result struct {
	Sim    float32
	Name   string
	Vector []float32
}

// searchLevel is the single-layer beam search: starting from ep, it returns
// up to ef of the best approximate-nearest candidates to q on layer l. The
// order of the returned slice is unspecified; callers that need a particular
// order sort or heapify it themselves.
func (idx *Index) searchLevel(q []float32, ep *Node, ef, l int) []Pair {
	visited := bitset.New(0)
	epSim := idx.metric(q, ep.Vector())
	visited.Set(uint(ep.ordinal))

	C := newPairHeap(Pair{Sim: epSim, Node: ep})
	W := newBoundedMinHeap(Pair{Sim: epSim, Node: ep})

	for C.Len() > 0 {
		c := C.pop()
		f := W.peek()
		if c.Sim < f.Sim {
			break
		}

		// Defensive: a candidate reached via upper-layer traversal may have
		// an adjacency list at layer l that a concurrent insertion has not
		// finished initializing yet.
		c.Node.EnsureLevel(l)

		for _, e := range c.Node.Neighbors(l) {
			if visited.Test(uint(e.ordinal)) {
				continue
			}
			visited.Set(uint(e.ordinal))

			eSim := idx.metric(q, e.Vector())
			if W.Len() < ef || eSim > W.peek().Sim {
				C.push(Pair{Sim: eSim, Node: e})
				W.push(Pair{Sim: eSim, Node: e})
				if W.Len() > ef {
					W.pop()
				}
			}
		}
	}

	result := make([]Pair, 0, W.Len())
	for W.Len() > 0 {
		result = append(result, W.pop())
	}
	return result
}

// greedyDescend runs single-candidate beam search (ef=1) from ep, descending
// from layer `from` down to but not including layer `downTo`, returning the
// best entry point found for the next phase. Used both by insertion's
// descent phase (downTo = the node's target level) and by search's upper-
// layer descent (downTo = 0).
func (idx *Index) greedyDescend(q []float32, ep *Node, from, downTo int) *Node {
	for lc := from; lc > downTo; lc-- {
		res := idx.searchLevel(q, ep, 1, lc)
		if len(res) == 0 {
			continue
		}
		best := res[0]
		for _, p := range res[1:] {
			if p.Sim > best.Sim {
				best = p
			}
		}
		ep = best.Node
	}
	return ep
}

// SearchKNN returns up to k nearest neighbors of query in decreasing
// similarity. Returns an empty slice (no error) if the index is empty.
func (idx *Index) SearchKNN(query []float32, k int) ([]Result, error) {
	if len(query) != idx.dataDim {
		return nil, ErrDimensionMismatch
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.enterpoint == nil {
		return []Result{}, nil
	}

	ep := idx.greedyDescend(query, idx.enterpoint, idx.maxLayer, 0)
	w := idx.searchLevel(query, ep, idx.efConstr, 0)

	sort.Slice(w, func(i, j int) bool { return w[i].Sim > w[j].Sim })
	if len(w) > k {
		w = w[:k]
	}

	results := make([]Result, len(w))
	for i, p := range w {
		results[i] = Result{
			Sim:    p.Sim,
			Name:   hostName(p.Node.Name()),
			Vector: p.Node.Vector(),
		}
	}
	return results, nil
}

// hostName extracts the final dot-delimited segment of an internal node
// name, the naming convention hosts use for caller-facing results.
func hostName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
