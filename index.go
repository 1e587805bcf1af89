package hnsw

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Index is an online, mutable HNSW graph over named, fixed-dimension
// float32 vectors. The zero value is not usable; construct with NewIndex.
//
// Index is safe for concurrent use: Add and Delete take the index's write
// lock and acquire node locks internally; SearchKNN takes only the index's
// read lock, so many searches can run concurrently with each other (though
// never concurrently with a write).
type Index struct {
	name       string
	metric     MetricFunc
	metricTag  MetricTag
	dataDim    int
	m          int
	mMax       int
	mMax0      int
	efConstr   int
	levelMult  float32
	maxLayer   int
	nodeCount  int
	enterpoint *Node

	// layers[l] is the set of nodes present at layer l (weak handles: the
	// map holds *Node pointers but nodes is the only owner). len(layers) ==
	// maxLayer+1 once the index is non-empty.
	layers []map[*Node]struct{}

	// nodes is the unique owner of every node in the index.
	nodes map[string]*Node

	rng         *rand.Rand
	nextOrdinal uint32

	mu sync.RWMutex
}

// NewIndex constructs an empty index. metric is the similarity function to
// use for the lifetime of the index (swapping is not supported); tag
// records which built-in kernel (if any) metric corresponds to, purely for
// bookkeeping and reconstitution (see Flatten). dim is the fixed vector
// dimension every node must match. m is the target out-degree (M); M_max is
// fixed to m and M_max0 to 2m. efConstruction is the beam
// width used during insertion.
func NewIndex(name string, metric MetricFunc, tag MetricTag, dim, m, efConstruction int) (*Index, error) {
	if metric == nil {
		return nil, fmt.Errorf("hnsw: metric must not be nil")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("hnsw: dim must be positive, got %d", dim)
	}
	if m <= 0 {
		return nil, fmt.Errorf("hnsw: m must be positive, got %d", m)
	}
	if efConstruction <= 0 {
		return nil, fmt.Errorf("hnsw: efConstruction must be positive, got %d", efConstruction)
	}
	return &Index{
		name:      name,
		metric:    metric,
		metricTag: tag,
		dataDim:   dim,
		m:         m,
		mMax:      m,
		mMax0:     2 * m,
		efConstr:  efConstruction,
		levelMult: levelMult(m),
		maxLayer:  -1,
		layers:    nil,
		nodes:     make(map[string]*Node),
		rng:       newDefaultRand(),
	}, nil
}

// newDefaultRand seeds a generator from the wall clock, the same source of
// entropy NewIndex has always used; Reconstitute also calls this since a
// rebuilt index still needs a writer-owned RNG for any future Add call.
func newDefaultRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Name returns the index's name.
func (idx *Index) Name() string { return idx.name }

// Dim returns the fixed vector dimension every node must match.
func (idx *Index) Dim() int { return idx.dataDim }

// MetricTag returns the index's metric enum tag.
func (idx *Index) MetricTag() MetricTag { return idx.metricTag }

// M, MMax, MMax0, EfConstruction expose the index's tuning parameters.
func (idx *Index) M() int             { return idx.m }
func (idx *Index) MMax() int          { return idx.mMax }
func (idx *Index) MMax0() int         { return idx.mMax0 }
func (idx *Index) EfConstruction() int { return idx.efConstr }

// Len returns the current node count. Safe to call concurrently with
// SearchKNN; takes the read lock.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.nodeCount
}

// Acquire records an outstanding strong reference to name, held by some
// host-side collaborator. Delete refuses to remove a node with a nonzero
// reference count (ErrInUse); the graph's own internal pointers never
// participate in this count.
func (idx *Index) Acquire(name string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	n, ok := idx.nodes[name]
	if !ok {
		return ErrUnknownName
	}
	n.acquire()
	return nil
}

// Release drops one outstanding strong reference previously recorded by
// Acquire.
func (idx *Index) Release(name string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	n, ok := idx.nodes[name]
	if !ok {
		return ErrUnknownName
	}
	n.release()
	return nil
}

// cap returns the degree cap for layer l: M_max0 at layer 0, M_max above.
func (idx *Index) cap(l int) int {
	if l == 0 {
		return idx.mMax0
	}
	return idx.mMax
}

// addToLayer adds n to layers[l], growing layers as needed. Must be called
// with idx.mu held for writing.
func (idx *Index) addToLayer(l int, n *Node) {
	for len(idx.layers) <= l {
		idx.layers = append(idx.layers, make(map[*Node]struct{}))
	}
	idx.layers[l][n] = struct{}{}
}

// removeFromLayer removes n from layers[l] if present. Must be called with
// idx.mu held for writing.
func (idx *Index) removeFromLayer(l int, n *Node) {
	if l < len(idx.layers) {
		delete(idx.layers[l], n)
	}
}
