package hnsw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeEnsureLevelIdempotent(t *testing.T) {
	n := newNode("a", []float32{1, 2}, 2, 0)
	n.EnsureLevel(2)
	n.EnsureLevel(2)
	n.EnsureLevel(1)
	assert.Len(t, n.neighbors, 3)
}

func TestNodeAddNeighborRejectsSelfAndDuplicate(t *testing.T) {
	n := newNode("a", []float32{1, 2}, 0, 0)
	w := newNode("b", []float32{3, 4}, 0, 1)

	n.AddNeighbor(0, n)
	assert.Empty(t, n.Neighbors(0))

	n.AddNeighbor(0, w)
	n.AddNeighbor(0, w)
	assert.Len(t, n.Neighbors(0), 1)
}

func TestNodeRemoveNeighbor(t *testing.T) {
	n := newNode("a", []float32{1, 2}, 0, 0)
	w := newNode("b", []float32{3, 4}, 0, 1)
	n.AddNeighbor(0, w)
	require := assert.New(t)
	require.Len(n.Neighbors(0), 1)

	n.RemoveNeighbor(0, w)
	require.Empty(n.Neighbors(0))
}

func TestNodeNeighborsReturnsDefensiveCopy(t *testing.T) {
	n := newNode("a", []float32{1, 2}, 0, 0)
	w := newNode("b", []float32{3, 4}, 0, 1)
	n.AddNeighbor(0, w)

	got := n.Neighbors(0)
	got[0] = nil
	assert.NotNil(t, n.Neighbors(0)[0])
}

func TestNodeAcquireRelease(t *testing.T) {
	n := newNode("a", []float32{1}, 0, 0)
	assert.Zero(t, n.refCount())
	n.acquire()
	n.acquire()
	assert.Equal(t, int32(2), n.refCount())
	n.release()
	assert.Equal(t, int32(1), n.refCount())
	n.release()
	n.release() // must clamp at zero, never go negative
	assert.Zero(t, n.refCount())
}
