package hnsw

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Property 9: flatten -> reconstitute yields a graph observationally equal
// to the original (same ranked top-k for any query).
func TestFlattenReconstituteRoundTrip(t *testing.T) {
	idx := newTestIndex(t, 6, 5, 20)
	rng := rand.New(rand.NewSource(13))

	vectors := make([][]float32, 0, 90)
	for i := 0; i < 90; i++ {
		vec := make([]float32, 6)
		for j := range vec {
			vec[j] = rng.Float32() * 100
		}
		vectors = append(vectors, vec)
		require.NoError(t, idx.Add(fmt.Sprintf("r%d", i), vec, nil))
	}
	checkInvariants(t, idx)

	dump := idx.Flatten()
	rebuilt, err := Reconstitute(dump)
	require.NoError(t, err)
	checkInvariants(t, rebuilt)

	assert.Equal(t, idx.Len(), rebuilt.Len())
	assert.Equal(t, idx.Dim(), rebuilt.Dim())
	assert.Equal(t, idx.MetricTag(), rebuilt.MetricTag())

	for i := 0; i < 10; i++ {
		query := vectors[rng.Intn(len(vectors))]
		want, err := idx.SearchKNN(query, 5)
		require.NoError(t, err)
		got, err := rebuilt.SearchKNN(query, 5)
		require.NoError(t, err)

		require.Equal(t, len(want), len(got))
		for j := range want {
			assert.Equal(t, want[j].Name, got[j].Name)
			assert.Equal(t, want[j].Sim, got[j].Sim)
		}
	}
}

func TestReconstituteCorruptionOnUndeclaredNeighbor(t *testing.T) {
	dump := Dump{
		MetricTag: MetricEuclidean,
		Dim:       2,
		M:         4,
		MMax:      4,
		MMax0:     8,
		Nodes:     []string{"a"},
		NodeData: map[string]DumpNode{
			"a": {Vector: []float32{1, 2}, Neighbors: [][]string{{"ghost"}}},
		},
	}
	_, err := Reconstitute(dump)
	assert.ErrorIs(t, err, ErrCorruption)
}

func TestReconstituteCorruptionOnUndeclaredEntrypoint(t *testing.T) {
	ghost := "ghost"
	dump := Dump{
		MetricTag:  MetricEuclidean,
		Dim:        2,
		M:          4,
		MMax:       4,
		MMax0:      8,
		Nodes:      []string{"a"},
		Entrypoint: &ghost,
		NodeData: map[string]DumpNode{
			"a": {Vector: []float32{1, 2}, Neighbors: [][]string{{}}},
		},
	}
	_, err := Reconstitute(dump)
	assert.ErrorIs(t, err, ErrCorruption)
}

func TestMarshalUnmarshalBinaryRoundTrip(t *testing.T) {
	idx := newTestIndex(t, 3, 4, 16)
	require.NoError(t, idx.Add("a", []float32{1, 2, 3}, nil))
	require.NoError(t, idx.Add("b", []float32{4, 5, 6}, nil))

	data, err := idx.MarshalBinary()
	require.NoError(t, err)

	rebuilt, err := UnmarshalBinaryToIndex(data)
	require.NoError(t, err)
	assert.Equal(t, idx.Len(), rebuilt.Len())
	checkInvariants(t, rebuilt)
}
