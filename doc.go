// Package hnsw implements a Hierarchical Navigable Small World graph for
// approximate nearest-neighbor search over named, fixed-dimension float32
// vectors.
//
// The index supports online insertion, deletion, and k-NN search under a
// single-writer/multi-reader locking discipline (see Index). Callers supply
// the similarity metric at construction time and, optionally, an UpdateSink
// invoked once per node whose adjacency changed during a mutation so a host
// can persist the graph incrementally instead of re-flattening it on every
// write.
package hnsw
