package vectorstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/nexsdb/hnswcore"
)

// HybridConfig configures a HybridStore's dimension, switch point, and the
// hnsw.Index tuning parameters used once it migrates.
type HybridConfig struct {
	// SwitchThreshold is the vector count at which the store migrates from
	// a linear scan to the HNSW index. Default: 100.
	SwitchThreshold int

	Dim            int
	Metric         hnsw.MetricFunc
	MetricTag      hnsw.MetricTag
	M              int
	EfConstruction int
}

// DefaultHybridConfig returns a HybridConfig with recommended defaults for
// the given dimension.
func DefaultHybridConfig(dim int) *HybridConfig {
	return &HybridConfig{
		SwitchThreshold: 100,
		Dim:             dim,
		Metric:          hnsw.CosineSimilarity,
		MetricTag:       hnsw.MetricCosine,
		M:               16,
		EfConstruction:  200,
	}
}

// HybridStore automatically switches between a linear scan and the HNSW
// core based on data size: below SwitchThreshold vectors it does a linear
// scan under the same pluggable metric, and once the store reaches it,
// every subsequent Add/Search/Delete delegates to an embedded Store backed
// by hnsw.Index — a concrete illustration of when the graph's construction
// cost is worth paying.
type HybridStore struct {
	cfg *HybridConfig

	mu      sync.RWMutex
	linear  map[string]entry
	useHNSW bool
	store   *Store
}

// NewHybridStore constructs a HybridStore starting in linear mode.
func NewHybridStore(cfg *HybridConfig) *HybridStore {
	if cfg == nil {
		cfg = DefaultHybridConfig(384)
	}
	return &HybridStore{cfg: cfg, linear: make(map[string]entry)}
}

// Add inserts vector under id with the given metadata. When this Add brings
// the linear store to SwitchThreshold vectors, every vector, this one
// included, is then migrated to the HNSW index.
func (h *HybridStore) Add(id string, vector []float32, metadata Metadata) error {
	if len(vector) != h.cfg.Dim {
		return fmt.Errorf("vectorstore: %w: expected dim %d, got %d", hnsw.ErrDimensionMismatch, h.cfg.Dim, len(vector))
	}

	h.mu.Lock()
	if h.useHNSW {
		store := h.store
		h.mu.Unlock()
		return store.Add(id, vector, metadata)
	}
	if _, exists := h.linear[id]; exists {
		h.mu.Unlock()
		return hnsw.ErrDuplicateName
	}
	h.linear[id] = entry{vector: vector, metadata: metadata}
	shouldMigrate := len(h.linear) >= h.cfg.SwitchThreshold
	h.mu.Unlock()

	if shouldMigrate {
		return h.migrateToHNSW()
	}
	return nil
}

// migrateToHNSW builds a Store from every vector currently held linearly
// and switches subsequent operations to it. Safe to call more than once;
// only the first caller to observe useHNSW==false performs the migration.
func (h *HybridStore) migrateToHNSW() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.useHNSW {
		return nil
	}

	store, err := NewStore("hybrid", h.cfg.Metric, h.cfg.MetricTag, h.cfg.Dim, h.cfg.M, h.cfg.EfConstruction)
	if err != nil {
		return fmt.Errorf("vectorstore: migrate to hnsw: %w", err)
	}
	for id, e := range h.linear {
		if err := store.Add(id, e.vector, e.metadata); err != nil {
			return fmt.Errorf("vectorstore: migrate vector %q: %w", id, err)
		}
	}

	h.store = store
	h.useHNSW = true
	h.linear = nil
	return nil
}

// Search returns the k nearest vectors to query.
func (h *HybridStore) Search(query []float32, k int) ([]SearchResult, error) {
	if len(query) != h.cfg.Dim {
		return nil, fmt.Errorf("vectorstore: %w: expected dim %d, got %d", hnsw.ErrDimensionMismatch, h.cfg.Dim, len(query))
	}

	h.mu.RLock()
	useHNSW, store := h.useHNSW, h.store
	h.mu.RUnlock()
	if useHNSW {
		return store.Search(query, k)
	}
	return h.linearSearch(query, k)
}

func (h *HybridStore) linearSearch(query []float32, k int) ([]SearchResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	results := make([]SearchResult, 0, len(h.linear))
	for id, e := range h.linear {
		results = append(results, SearchResult{
			ID:         id,
			Vector:     e.vector,
			Metadata:   e.metadata,
			Similarity: h.cfg.Metric(query, e.vector),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Similarity > results[j].Similarity })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Get retrieves the vector and metadata stored under id.
func (h *HybridStore) Get(id string) ([]float32, Metadata, error) {
	h.mu.RLock()
	useHNSW, store := h.useHNSW, h.store
	h.mu.RUnlock()
	if useHNSW {
		return store.Get(id)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.linear[id]
	if !ok {
		return nil, nil, ErrVectorNotFound
	}
	return e.vector, e.metadata, nil
}

// Delete removes id from the store.
func (h *HybridStore) Delete(id string) error {
	h.mu.RLock()
	useHNSW, store := h.useHNSW, h.store
	h.mu.RUnlock()
	if useHNSW {
		return store.Delete(id)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.linear[id]; !ok {
		return ErrVectorNotFound
	}
	delete(h.linear, id)
	return nil
}

// Len returns the number of vectors currently stored.
func (h *HybridStore) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.useHNSW {
		return h.store.Len()
	}
	return len(h.linear)
}

// IsUsingHNSW reports whether the store has migrated to the HNSW index.
func (h *HybridStore) IsUsingHNSW() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.useHNSW
}
