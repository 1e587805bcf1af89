package hnsw

import (
	"fmt"

	"github.com/kelindar/binary"
)

// DumpNode is the flat, host-portable form of one node: its vector and, per
// layer, the names of its current neighbors.
type DumpNode struct {
	Vector    []float32
	Neighbors [][]string
}

// Dump is the flat, host-portable form of an entire index, produced by
// Flatten and consumed by Reconstitute. It carries every field needed to
// rebuild the index exactly, including its tuning parameters, so a host can
// round-trip an index through its own storage without the core performing
// any I/O itself.
type Dump struct {
	Name           string
	MetricTag      MetricTag
	Dim            int
	M              int
	MMax           int
	MMax0          int
	EfConstruction int
	LevelMult      float32
	NodeCount      int
	MaxLayer       int
	Layers         [][]string
	Nodes          []string
	Entrypoint     *string

	NodeData map[string]DumpNode
}

// Flatten walks the whole index once under its write lock and returns a
// Dump. The returned value shares no mutable state with the index: vectors
// and neighbor name lists are copied.
func (idx *Index) Flatten() Dump {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	d := Dump{
		Name:           idx.name,
		MetricTag:      idx.metricTag,
		Dim:            idx.dataDim,
		M:              idx.m,
		MMax:           idx.mMax,
		MMax0:          idx.mMax0,
		EfConstruction: idx.efConstr,
		LevelMult:      idx.levelMult,
		NodeCount:      idx.nodeCount,
		MaxLayer:       idx.maxLayer,
		Layers:         make([][]string, len(idx.layers)),
		Nodes:          make([]string, 0, len(idx.nodes)),
		NodeData:       make(map[string]DumpNode, len(idx.nodes)),
	}

	if idx.enterpoint != nil {
		name := idx.enterpoint.name
		d.Entrypoint = &name
	}

	for l, set := range idx.layers {
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n.name)
		}
		d.Layers[l] = names
	}

	for name, n := range idx.nodes {
		d.Nodes = append(d.Nodes, name)
		vec := make([]float32, len(n.Vector()))
		copy(vec, n.Vector())
		neighbors := make([][]string, n.Level()+1)
		for l := 0; l <= n.Level(); l++ {
			for _, w := range n.Neighbors(l) {
				neighbors[l] = append(neighbors[l], w.name)
			}
		}
		d.NodeData[name] = DumpNode{Vector: vec, Neighbors: neighbors}
	}

	return d
}

// Reconstitute rebuilds a fresh *Index from a Dump: it first creates every
// node bare (no edges), then wires every recorded neighbor entry as listed
// (a Flatten dump records each edge at both endpoints, so both directions
// come back; no reverse entry is added for an edge listed at one endpoint
// only), then restores layers, enterpoint, and max_layer verbatim. It validates
// that every referenced name was declared, returning ErrCorruption
// otherwise.
func Reconstitute(d Dump) (*Index, error) {
	metric, err := BuiltinMetric(d.MetricTag)
	if err != nil {
		return nil, fmt.Errorf("hnsw: reconstitute: %w", err)
	}

	idx := &Index{
		name:      d.Name,
		metric:    metric,
		metricTag: d.MetricTag,
		dataDim:   d.Dim,
		m:         d.M,
		mMax:      d.MMax,
		mMax0:     d.MMax0,
		efConstr:  d.EfConstruction,
		levelMult: d.LevelMult,
		maxLayer:  d.MaxLayer,
		nodeCount: d.NodeCount,
		layers:    make([]map[*Node]struct{}, len(d.Layers)),
		nodes:     make(map[string]*Node, len(d.Nodes)),
	}
	idx.rng = newDefaultRand()

	var ordinal uint32
	for _, name := range d.Nodes {
		data, ok := d.NodeData[name]
		if !ok {
			return nil, ErrCorruption
		}
		level := len(data.Neighbors) - 1
		if level < 0 {
			level = 0
		}
		n := newNode(name, data.Vector, level, ordinal)
		ordinal++
		n.neighbors = make([][]*Node, len(data.Neighbors))
		idx.nodes[name] = n
	}
	idx.nextOrdinal = ordinal

	for _, name := range d.Nodes {
		n := idx.nodes[name]
		data := d.NodeData[name]
		for l, names := range data.Neighbors {
			for _, wname := range names {
				w, ok := idx.nodes[wname]
				if !ok {
					return nil, ErrCorruption
				}
				n.neighbors[l] = append(n.neighbors[l], w)
			}
		}
	}

	for l, names := range d.Layers {
		set := make(map[*Node]struct{}, len(names))
		for _, name := range names {
			n, ok := idx.nodes[name]
			if !ok {
				return nil, ErrCorruption
			}
			set[n] = struct{}{}
		}
		idx.layers[l] = set
	}

	if d.Entrypoint != nil {
		n, ok := idx.nodes[*d.Entrypoint]
		if !ok {
			return nil, ErrCorruption
		}
		idx.enterpoint = n
	}

	return idx, nil
}

// MarshalBinary encodes a Dump of the index using github.com/kelindar/binary,
// so a host can hand the flat form to its own KV persistence backend without
// the core performing any I/O itself.
func (idx *Index) MarshalBinary() ([]byte, error) {
	return binary.Marshal(idx.Flatten())
}

// UnmarshalBinaryToIndex decodes bytes produced by MarshalBinary back into a
// usable *Index. It is a free function rather than a method because
// Reconstitute must build the Index value itself (an Index is not a zero-
// initializable receiver).
func UnmarshalBinaryToIndex(data []byte) (*Index, error) {
	var d Dump
	if err := binary.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("hnsw: unmarshal dump: %w", err)
	}
	return Reconstitute(d)
}
