package vectorstore

import (
	"fmt"
	"testing"

	"github.com/nexsdb/hnswcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHybridConfig(t *testing.T) {
	cfg := DefaultHybridConfig(384)
	require.NotNil(t, cfg)
	assert.Equal(t, 384, cfg.Dim)
	assert.Equal(t, 100, cfg.SwitchThreshold)
	assert.Equal(t, hnsw.MetricCosine, cfg.MetricTag)
}

func TestNewHybridStore(t *testing.T) {
	store := NewHybridStore(DefaultHybridConfig(3))
	require.NotNil(t, store)
	assert.False(t, store.IsUsingHNSW())
	assert.Equal(t, 0, store.Len())
}

func TestHybridStoreAddGetLinear(t *testing.T) {
	store := NewHybridStore(DefaultHybridConfig(3))

	vector := []float32{1, 2, 3}
	require.NoError(t, store.Add("test-1", vector, Metadata{"key": "value"}))

	got, meta, err := store.Get("test-1")
	require.NoError(t, err)
	assert.Equal(t, vector, got)
	assert.Equal(t, "value", meta["key"])
	assert.False(t, store.IsUsingHNSW())
}

func TestHybridStoreMigratesAtThreshold(t *testing.T) {
	cfg := DefaultHybridConfig(2)
	cfg.SwitchThreshold = 10
	store := NewHybridStore(cfg)

	for i := 0; i < 9; i++ {
		v := float32(i)
		require.NoError(t, store.Add(fmt.Sprintf("v%d", i), []float32{v, v}, nil))
		assert.False(t, store.IsUsingHNSW())
	}

	require.NoError(t, store.Add("v9", []float32{9, 9}, nil))
	assert.True(t, store.IsUsingHNSW())
	assert.Equal(t, 10, store.Len())
}

func TestHybridStoreSearchBeforeAndAfterMigration(t *testing.T) {
	cfg := DefaultHybridConfig(2)
	cfg.SwitchThreshold = 20
	store := NewHybridStore(cfg)

	for i := 0; i < 30; i++ {
		v := float32(i)
		require.NoError(t, store.Add(fmt.Sprintf("s%d", i), []float32{v, v}, nil))
		if i == 9 {
			require.False(t, store.IsUsingHNSW())
			before, err := store.Search([]float32{15, 15}, 3)
			require.NoError(t, err)
			assert.Len(t, before, 3)
		}
	}
	assert.True(t, store.IsUsingHNSW())

	results, err := store.Search([]float32{15, 15}, 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestHybridStoreDimensionMismatch(t *testing.T) {
	store := NewHybridStore(DefaultHybridConfig(3))
	err := store.Add("a", []float32{1, 2}, nil)
	assert.ErrorIs(t, err, hnsw.ErrDimensionMismatch)
}

func TestHybridStoreDeleteUnknownLinear(t *testing.T) {
	store := NewHybridStore(DefaultHybridConfig(2))
	err := store.Delete("missing")
	assert.ErrorIs(t, err, ErrVectorNotFound)
}

func TestHybridStoreDuplicateInLinearMode(t *testing.T) {
	store := NewHybridStore(DefaultHybridConfig(2))
	require.NoError(t, store.Add("a", []float32{1, 1}, nil))
	err := store.Add("a", []float32{2, 2}, nil)
	assert.ErrorIs(t, err, hnsw.ErrDuplicateName)
}
