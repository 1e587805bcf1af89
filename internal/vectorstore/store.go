// Package vectorstore demonstrates an idiomatic caller of the hnsw core: an
// ID-keyed metadata side table backed by this module's own *hnsw.Index, and
// a small-N/large-N hybrid store that only pays the graph's construction
// cost once a linear scan stops being the cheaper option.
package vectorstore

import (
	"errors"
	"sync"

	"github.com/nexsdb/hnswcore"
)

// Metadata is arbitrary caller data attached to a stored vector.
type Metadata map[string]interface{}

// SearchResult is one hit from Store.Search or HybridStore.Search.
type SearchResult struct {
	ID         string
	Vector     []float32
	Metadata   Metadata
	Similarity float32
}

// ErrVectorNotFound is returned by Get when id has no entry in the store.
var ErrVectorNotFound = errors.New("vectorstore: vector not found")

// entry is the side-table record kept per stored vector: the vector itself
// (so Get never has to reach back into the graph) plus whatever metadata
// the caller attached at Add time.
type entry struct {
	vector   []float32
	metadata Metadata
}

// Store wraps a *hnsw.Index with an ID->metadata side table guarded by its
// own mutex. It registers an UpdateSink, MetadataSink, that only ever
// touches that side table. It never calls back into idx, so it composes
// safely with the index's own locking discipline.
type Store struct {
	idx *hnsw.Index

	mu      sync.RWMutex
	entries map[string]entry
}

// NewStore constructs a Store around a fresh hnsw.Index with the given
// tuning parameters.
func NewStore(name string, metric hnsw.MetricFunc, tag hnsw.MetricTag, dim, m, efConstruction int) (*Store, error) {
	idx, err := hnsw.NewIndex(name, metric, tag, dim, m, efConstruction)
	if err != nil {
		return nil, err
	}
	return &Store{idx: idx, entries: make(map[string]entry)}, nil
}

// MetadataSink returns the hnsw.UpdateSink this store passes to every Add
// and Delete call: for each node the graph's own algorithms touched, it
// ensures the side table carries at least an empty metadata record with
// the node's current vector, without ever querying idx again.
func (s *Store) MetadataSink() hnsw.UpdateSink {
	return func(v hnsw.NodeView) {
		s.mu.Lock()
		defer s.mu.Unlock()
		e, ok := s.entries[v.Name]
		if !ok {
			e = entry{metadata: Metadata{}}
		}
		e.vector = v.Vector
		s.entries[v.Name] = e
	}
}

// Add inserts vector under id with the given metadata.
func (s *Store) Add(id string, vector []float32, metadata Metadata) error {
	if err := s.idx.Add(id, vector, s.MetadataSink()); err != nil {
		return err
	}
	if metadata == nil {
		metadata = Metadata{}
	}
	s.mu.Lock()
	s.entries[id] = entry{vector: vector, metadata: metadata}
	s.mu.Unlock()
	return nil
}

// Delete removes id from the store. sink semantics and error kinds mirror
// hnsw.Index.Delete (ErrUnknownName, ErrInUse).
func (s *Store) Delete(id string) error {
	if err := s.idx.Delete(id, s.MetadataSink()); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Get retrieves the vector and metadata stored under id.
func (s *Store) Get(id string) ([]float32, Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, nil, ErrVectorNotFound
	}
	return e.vector, e.metadata, nil
}

// Search returns the k nearest vectors to query, each annotated with its
// side-table metadata.
func (s *Store) Search(query []float32, k int) ([]SearchResult, error) {
	results, err := s.idx.SearchKNN(query, k)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			ID:         r.Name,
			Vector:     r.Vector,
			Metadata:   s.entries[r.Name].metadata,
			Similarity: r.Sim,
		}
	}
	return out, nil
}

// Len returns the number of vectors currently stored.
func (s *Store) Len() int { return s.idx.Len() }
