package hnsw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// checkInvariants asserts the graph's structural invariants hold for idx's
// current state: bidirectional edges, degree caps, layer membership, a valid
// enterpoint, no self-edges, and neighbor handles that resolve through the
// directory. Intended to run after every mutation in a test.
func checkInvariants(t *testing.T, idx *Index) {
	t.Helper()

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	// Invariant 4: enterpoint present iff node_count > 0.
	if idx.nodeCount == 0 {
		assert.Nil(t, idx.enterpoint, "enterpoint must be absent when empty")
	} else {
		assert.NotNil(t, idx.enterpoint, "enterpoint must be present when non-empty")
		if idx.enterpoint != nil {
			_, ok := idx.layers[idx.maxLayer][idx.enterpoint]
			assert.True(t, ok, "enterpoint must live in layers[maxLayer]")
		}
	}

	// Invariant 3: layers[l] == {n : level(n) >= l}.
	levelCounts := make([]int, len(idx.layers))
	for _, n := range idx.nodes {
		for l := 0; l <= n.Level() && l < len(idx.layers); l++ {
			levelCounts[l]++
			_, ok := idx.layers[l][n]
			assert.True(t, ok, "node %s with level %d must be in layers[%d]", n.name, n.Level(), l)
		}
	}
	for l, set := range idx.layers {
		assert.Len(t, set, levelCounts[l], "layers[%d] must contain exactly the nodes with level >= %d", l, l)
	}

	for name, n := range idx.nodes {
		assert.Equal(t, name, n.name)
		for l := 0; l <= n.Level(); l++ {
			neighbors := n.Neighbors(l)

			// Invariant 5: no self-reference.
			for _, w := range neighbors {
				assert.NotEqual(t, n, w, "node %s must not neighbor itself at layer %d", name, l)
			}

			// Invariant 2: degree caps.
			cap := idx.mMax0
			if l > 0 {
				cap = idx.mMax
			}
			assert.LessOrEqual(t, len(neighbors), cap, "node %s layer %d exceeds degree cap", name, l)

			// Invariant 6: neighbor handles resolve to nodes in idx.nodes.
			for _, w := range neighbors {
				found, ok := idx.nodes[w.name]
				assert.True(t, ok, "neighbor %s of %s not in directory", w.name, name)
				assert.Same(t, w, found, "neighbor %s must be the owned instance", w.name)
			}

			// Invariant 1: bidirectionality.
			for _, w := range neighbors {
				assert.True(t, w.hasNeighbor(l, n), "edge %s->%s at layer %d must be reciprocated", name, w.name, l)
			}
		}
	}
}
