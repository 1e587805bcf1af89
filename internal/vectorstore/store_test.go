package vectorstore

import (
	"fmt"
	"testing"

	"github.com/nexsdb/hnswcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, dim int) *Store {
	t.Helper()
	s, err := NewStore("test", hnsw.EuclideanNegSquared, hnsw.MetricEuclidean, dim, 5, 16)
	require.NoError(t, err)
	return s
}

func TestStoreAddAndGet(t *testing.T) {
	s := newTestStore(t, 3)

	err := s.Add("v1", []float32{1, 2, 3}, Metadata{"type": "test"})
	require.NoError(t, err)

	vec, meta, err := s.Get("v1")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, vec)
	assert.Equal(t, "test", meta["type"])
}

func TestStoreGetUnknown(t *testing.T) {
	s := newTestStore(t, 3)
	_, _, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrVectorNotFound)
}

func TestStoreDelete(t *testing.T) {
	s := newTestStore(t, 2)
	require.NoError(t, s.Add("a", []float32{1, 1}, nil))
	require.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete("a"))
	assert.Equal(t, 0, s.Len())

	_, _, err := s.Get("a")
	assert.ErrorIs(t, err, ErrVectorNotFound)
}

func TestStoreDeleteUnknown(t *testing.T) {
	s := newTestStore(t, 2)
	err := s.Delete("missing")
	assert.ErrorIs(t, err, hnsw.ErrUnknownName)
}

func TestStoreSearchReturnsMetadata(t *testing.T) {
	s := newTestStore(t, 2)
	for i := 0; i < 20; i++ {
		v := float32(i)
		require.NoError(t, s.Add(fmt.Sprintf("n%d", i), []float32{v, v}, Metadata{"idx": i}))
	}

	results, err := s.Search([]float32{10, 10}, 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "n10", results[0].ID)
	assert.Equal(t, 10, results[0].Metadata["idx"])
}

func TestStoreMetadataSinkBacksNeighbors(t *testing.T) {
	s := newTestStore(t, 2)
	for i := 0; i < 15; i++ {
		v := float32(i)
		require.NoError(t, s.Add(fmt.Sprintf("m%d", i), []float32{v, v}, Metadata{"n": i}))
	}

	// every node touched by the graph algorithms (not just ones added with
	// explicit metadata) must have a side-table entry, even if it's an
	// empty map for a neighbor whose own metadata was never set directly.
	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.NotEmpty(t, s.entries)
	for id, e := range s.entries {
		assert.NotNil(t, e.metadata, "entry %s must have a non-nil metadata map", id)
	}
}
