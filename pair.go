package hnsw

import (
	"container/heap"
	"sort"
)

// Pair bundles a similarity value with the node it was computed against.
// Ordering is total, by Sim only; the metric never produces NaN (see
// metric.go), so comparisons are always well defined.
type Pair struct {
	Sim  float32
	Node *Node
}

// pairHeap is a max-heap over Pair: the largest Sim is always at index 0.
// Used as the "best-first" frontier (C) and, in reverse-order form via
// boundedMinHeap, as the bounded "worst-first" result set (W).
type pairHeap []Pair

func (h pairHeap) Len() int            { return len(h) }
func (h pairHeap) Less(i, j int) bool  { return h[i].Sim > h[j].Sim }
func (h pairHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pairHeap) Push(x interface{}) { *h = append(*h, x.(Pair)) }
func (h *pairHeap) Pop() interface{} {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

func (h *pairHeap) push(p Pair) { heap.Push(h, p) }
func (h *pairHeap) pop() Pair   { return heap.Pop(h).(Pair) }
func (h pairHeap) peek() Pair   { return h[0] }

func newPairHeap(initial ...Pair) *pairHeap {
	h := pairHeap(append([]Pair{}, initial...))
	heap.Init(&h)
	return &h
}

// boundedMinHeap is a min-heap adaptor over the same Pair type: the smallest
// Sim is always at index 0. Used for W, the bounded worst-first result set,
// so the current worst candidate is always a cheap peek/pop away.
type boundedMinHeap []Pair

func (h boundedMinHeap) Len() int            { return len(h) }
func (h boundedMinHeap) Less(i, j int) bool  { return h[i].Sim < h[j].Sim }
func (h boundedMinHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *boundedMinHeap) Push(x interface{}) { *h = append(*h, x.(Pair)) }
func (h *boundedMinHeap) Pop() interface{} {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

func (h *boundedMinHeap) push(p Pair) { heap.Push(h, p) }
func (h *boundedMinHeap) pop() Pair   { return heap.Pop(h).(Pair) }
func (h boundedMinHeap) peek() Pair   { return h[0] }

func newBoundedMinHeap(initial ...Pair) *boundedMinHeap {
	h := boundedMinHeap(append([]Pair{}, initial...))
	heap.Init(&h)
	return &h
}

// sortedDesc drains h (a *pairHeap) into a slice ordered by decreasing Sim.
// h is left empty.
func (h *pairHeap) sortedDesc() []Pair {
	out := make([]Pair, 0, h.Len())
	for h.Len() > 0 {
		out = append(out, h.pop())
	}
	return out
}

// sortPairsDesc orders pairs in place by decreasing Sim.
func sortPairsDesc(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Sim > pairs[j].Sim })
}
