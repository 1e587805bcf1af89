package hnsw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairHeapMaxOrder(t *testing.T) {
	h := newPairHeap(
		Pair{Sim: 1, Node: &Node{name: "a"}},
		Pair{Sim: 5, Node: &Node{name: "b"}},
		Pair{Sim: 3, Node: &Node{name: "c"}},
	)
	assert.Equal(t, "b", h.pop().Node.name)
	assert.Equal(t, "c", h.pop().Node.name)
	assert.Equal(t, "a", h.pop().Node.name)
	assert.Equal(t, 0, h.Len())
}

func TestBoundedMinHeapOrder(t *testing.T) {
	h := newBoundedMinHeap(
		Pair{Sim: 1, Node: &Node{name: "a"}},
		Pair{Sim: 5, Node: &Node{name: "b"}},
		Pair{Sim: 3, Node: &Node{name: "c"}},
	)
	assert.Equal(t, "a", h.peek().Node.name)
	assert.Equal(t, "a", h.pop().Node.name)
	assert.Equal(t, "c", h.pop().Node.name)
	assert.Equal(t, "b", h.pop().Node.name)
}

func TestPairHeapSortedDesc(t *testing.T) {
	h := newPairHeap(
		Pair{Sim: 1, Node: &Node{name: "a"}},
		Pair{Sim: 5, Node: &Node{name: "b"}},
		Pair{Sim: 3, Node: &Node{name: "c"}},
	)
	sorted := h.sortedDesc()
	assert.Equal(t, []float32{5, 3, 1}, []float32{sorted[0].Sim, sorted[1].Sim, sorted[2].Sim})
	assert.Equal(t, 0, h.Len())
}
