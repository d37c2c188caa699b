// Package persist serializes a frozen index to and from a compact msgpack
// encoding: every layer's nodes in arena order plus their adjacency, so a
// load can rebuild the exact same graph without re-running construction.
package persist

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/sketchnn/hnsw/graph"
	"github.com/sketchnn/hnsw/hnsw"
	"github.com/sketchnn/hnsw/sketch"
)

// layerDoc is the wire shape of one non-base layer: each node's point, its
// down pointer, and its neighbor list, all in arena order so the decoded
// index is addressed by the same Idx values as the original.
type layerDoc struct {
	Points    [][sketch.Words]uint64 `msgpack:"points"`
	Down      []int32                `msgpack:"down"`
	Adjacency [][]int32              `msgpack:"adjacency"`
}

// document is the full wire format of a saved index.
type document struct {
	Connections    int        `msgpack:"connections"`
	MaxConnections int        `msgpack:"max_connections"`
	EfConstruction int        `msgpack:"ef_construction"`

	BasePoints    [][sketch.Words]uint64 `msgpack:"base_points"`
	BaseAdjacency [][]int32              `msgpack:"base_adjacency"`

	Layers []layerDoc `msgpack:"layers"`

	EntryPoint int32 `msgpack:"entry_point"`
	TopLayer   int   `msgpack:"top_layer"`
	HasEntry   bool  `msgpack:"has_entry"`
}

// Save encodes idx to w as msgpack.
func Save(w io.Writer, idx *hnsw.Index) error {
	doc := toDocument(idx)
	enc := msgpack.NewEncoder(w)
	return enc.Encode(doc)
}

// Load decodes an index previously written by Save and rebuilds its stores
// with the same points, down pointers and edges, returning them as a frozen
// Index via hnsw.NewFrozenIndex; construction is not re-run.
func Load(r io.Reader) (*hnsw.Index, error) {
	var doc document
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

func toDocument(idx *hnsw.Index) document {
	cfg := idx.Config()
	doc := document{
		Connections:    cfg.Connections,
		MaxConnections: cfg.MaxConnections,
		EfConstruction: cfg.EfConstruction,
		EntryPoint:     int32(idx.EntryPoint()),
		TopLayer:       idx.TopLayer(),
		HasEntry:       idx.HasEntry(),
	}

	base := idx.Base()
	for i := 0; i < base.Size(); i++ {
		p := base.Get(graph.Idx(i))
		doc.BasePoints = append(doc.BasePoints, [sketch.Words]uint64(p))
		doc.BaseAdjacency = append(doc.BaseAdjacency, idxSliceToInt32(base.Neighbors(graph.Idx(i))))
	}

	for _, layer := range idx.Layers() {
		var ld layerDoc
		for i := 0; i < layer.Size(); i++ {
			n := layer.Get(graph.Idx(i))
			ld.Points = append(ld.Points, [sketch.Words]uint64(n.Point))
			ld.Down = append(ld.Down, int32(n.Down))
			ld.Adjacency = append(ld.Adjacency, idxSliceToInt32(layer.Neighbors(graph.Idx(i))))
		}
		doc.Layers = append(doc.Layers, ld)
	}

	return doc
}

func fromDocument(doc document) (*hnsw.Index, error) {
	cfg := hnsw.DefaultConfig()
	cfg.Connections = doc.Connections
	cfg.MaxConnections = doc.MaxConnections
	cfg.EfConstruction = doc.EfConstruction
	cfg.Size = len(doc.BasePoints)
	cfg.Parallel = false

	base := graph.NewStore[sketch.Sketch](len(doc.BasePoints))
	for _, words := range doc.BasePoints {
		base.Add(sketch.Sketch(words))
	}
	for i, neighbors := range doc.BaseAdjacency {
		for _, n := range neighbors {
			base.AddEdge(graph.Idx(i), graph.Idx(n))
		}
	}

	layers := make([]*graph.Store[graph.LayerNode[sketch.Sketch]], 0, len(doc.Layers))
	for _, ld := range doc.Layers {
		store := graph.NewStore[graph.LayerNode[sketch.Sketch]](len(ld.Points))
		for i, words := range ld.Points {
			store.Add(graph.LayerNode[sketch.Sketch]{
				Point: sketch.Sketch(words),
				Down:  graph.Idx(ld.Down[i]),
			})
		}
		for i, neighbors := range ld.Adjacency {
			for _, n := range neighbors {
				store.AddEdge(graph.Idx(i), graph.Idx(n))
			}
		}
		layers = append(layers, store)
	}

	return hnsw.NewFrozenIndex(cfg, base, layers, graph.Idx(doc.EntryPoint), doc.TopLayer, doc.HasEntry), nil
}

func idxSliceToInt32(ids []graph.Idx) []int32 {
	out := make([]int32, len(ids))
	for i, id := range ids {
		out[i] = int32(id)
	}
	return out
}
