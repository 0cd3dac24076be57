// Package graph defines the knowledge-graph model and the batch builder
// that derives a complete snapshot from a scanned document set.
//
// Nodes represent markdown documents and referenced-but-missing notes
// ("phantom" nodes). Edges are directed wiki-link references; the graph is
// a multigraph, so a document referencing the same target twice yields two
// edges. A node's Value is its backlink count including duplicates, which
// the visualization layer uses for node sizing.
package graph

import (
	"sort"

	"github.com/mdgraph/mdgraph/internal/parse"
	"github.com/mdgraph/mdgraph/internal/scan"
)

// GroupPhantom marks nodes that exist only because something links to them.
const GroupPhantom = "phantom"

// Node is a single vertex in the knowledge graph.
//
// The JSON shape is what the visualization consumer renders directly.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Value is the number of incoming edges, counted with multiplicity.
	Value int `json:"value"`

	// Group is empty for real nodes and GroupPhantom for phantom nodes.
	Group string `json:"group,omitempty"`

	// Path is the file system location; empty for phantom nodes.
	Path string `json:"file_path"`

	// Tags are the hashtags extracted from the document; always empty for
	// phantom nodes.
	Tags []string `json:"hashtags"`
}

// Phantom reports whether the node has no backing document.
func (n Node) Phantom() bool {
	return n.Group == GroupPhantom
}

// NewPhantom returns a phantom node for id with the given backlink count.
func NewPhantom(id string, value int) Node {
	return Node{
		ID:    id,
		Label: id,
		Value: value,
		Group: GroupPhantom,
		Tags:  []string{},
	}
}

// Edge is a directed wiki-link reference between two nodes.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Snapshot is the full materialized graph.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Build constructs a snapshot from a document set in three passes:
//
//  1. extract each document's wiki-links, appending one edge per occurrence
//     and tallying incoming counts per target;
//  2. emit a real node for every document with its tally and tags;
//  3. emit a phantom node for every referenced id without a document.
//
// Every id that appears as an edge endpoint appears as exactly one node,
// with real nodes taking precedence over phantoms. Build performs no I/O.
func Build(docs []scan.Document) *Snapshot {
	snap := &Snapshot{Nodes: []Node{}, Edges: []Edge{}}

	byID := make(map[string]bool, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = true
	}

	incoming := make(map[string]int)
	referenced := make(map[string]bool)
	parsed := make([]parse.Content, len(docs))

	for i, doc := range docs {
		parsed[i] = parse.Extract(doc.Content)
		for _, link := range parsed[i].Links {
			snap.Edges = append(snap.Edges, Edge{From: doc.ID, To: link})
			incoming[link]++
			referenced[link] = true
		}
	}

	for i, doc := range docs {
		tags := parsed[i].Tags
		if tags == nil {
			tags = []string{}
		}
		snap.Nodes = append(snap.Nodes, Node{
			ID:    doc.ID,
			Label: doc.ID,
			Value: incoming[doc.ID],
			Path:  doc.Path,
			Tags:  tags,
		})
	}

	// Phantoms are emitted in sorted order so snapshots are deterministic.
	var missing []string
	for id := range referenced {
		if !byID[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	for _, id := range missing {
		snap.Nodes = append(snap.Nodes, NewPhantom(id, incoming[id]))
	}

	return snap
}

// BuildFromDir scans root and builds a snapshot in one call.
func BuildFromDir(root string) (*Snapshot, error) {
	docs, err := scan.Dir(root)
	if err != nil {
		return nil, err
	}
	return Build(docs), nil
}
