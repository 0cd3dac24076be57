package graph

import (
	"testing"

	"github.com/mdgraph/mdgraph/internal/scan"
)

func findNode(t *testing.T, snap *Snapshot, id string) Node {
	t.Helper()
	for _, node := range snap.Nodes {
		if node.ID == id {
			return node
		}
	}
	t.Fatalf("node %q not found in snapshot", id)
	return Node{}
}

// TestBuild_InitialScan covers the basic phantom case: a single note
// referencing a missing one.
func TestBuild_InitialScan(t *testing.T) {
	snap := Build([]scan.Document{
		{ID: "A", Path: "/vault/A.md", Content: "see [[B]]"},
	})

	if len(snap.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(snap.Nodes))
	}
	if len(snap.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(snap.Edges))
	}

	a := findNode(t, snap, "A")
	if a.Phantom() {
		t.Error("A should be a real node")
	}
	if a.Value != 0 {
		t.Errorf("A.Value = %d, want 0", a.Value)
	}
	if a.Path != "/vault/A.md" {
		t.Errorf("A.Path = %q", a.Path)
	}

	b := findNode(t, snap, "B")
	if !b.Phantom() {
		t.Error("B should be a phantom node")
	}
	if b.Value != 1 {
		t.Errorf("B.Value = %d, want 1", b.Value)
	}
	if b.Path != "" {
		t.Errorf("B.Path = %q, want empty", b.Path)
	}

	if snap.Edges[0] != (Edge{From: "A", To: "B"}) {
		t.Errorf("edge = %+v, want A->B", snap.Edges[0])
	}
}

// TestBuild_DuplicateReferences verifies multigraph semantics: repeated
// references yield repeated edges and count toward value with multiplicity.
func TestBuild_DuplicateReferences(t *testing.T) {
	snap := Build([]scan.Document{
		{ID: "A", Path: "/v/A.md", Content: "[[B]] and [[B]] again"},
		{ID: "B", Path: "/v/B.md", Content: ""},
	})

	if len(snap.Edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(snap.Edges))
	}
	b := findNode(t, snap, "B")
	if b.Value != 2 {
		t.Errorf("B.Value = %d, want 2", b.Value)
	}
	if b.Phantom() {
		t.Error("B should be real")
	}
}

// TestBuild_RealWinsOverPhantom verifies that an id with both a document
// and references appears as exactly one real node.
func TestBuild_RealWinsOverPhantom(t *testing.T) {
	snap := Build([]scan.Document{
		{ID: "A", Path: "/v/A.md", Content: "[[B]]"},
		{ID: "B", Path: "/v/B.md", Content: "[[A]]"},
	})

	if len(snap.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(snap.Nodes))
	}
	for _, node := range snap.Nodes {
		if node.Phantom() {
			t.Errorf("node %s should not be phantom", node.ID)
		}
		if node.Value != 1 {
			t.Errorf("node %s value = %d, want 1", node.ID, node.Value)
		}
	}
}

// TestBuild_Tags verifies that hashtags land on real nodes and phantom
// nodes stay tagless.
func TestBuild_Tags(t *testing.T) {
	snap := Build([]scan.Document{
		{ID: "A", Path: "/v/A.md", Content: "#work #urgent [[Ghost]]"},
	})

	a := findNode(t, snap, "A")
	if len(a.Tags) != 2 || a.Tags[0] != "work" || a.Tags[1] != "urgent" {
		t.Errorf("A.Tags = %v, want [work urgent]", a.Tags)
	}

	ghost := findNode(t, snap, "Ghost")
	if len(ghost.Tags) != 0 {
		t.Errorf("Ghost.Tags = %v, want empty", ghost.Tags)
	}
}

// TestBuild_ReferentialCompleteness verifies that every edge endpoint
// corresponds to exactly one node.
func TestBuild_ReferentialCompleteness(t *testing.T) {
	snap := Build([]scan.Document{
		{ID: "A", Path: "/v/A.md", Content: "[[B]] [[C]] [[C]]"},
		{ID: "B", Path: "/v/B.md", Content: "[[C]] [[A]]"},
	})

	seen := make(map[string]int)
	for _, node := range snap.Nodes {
		seen[node.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("node %s appears %d times, want 1", id, n)
		}
	}
	for _, edge := range snap.Edges {
		if seen[edge.From] != 1 || seen[edge.To] != 1 {
			t.Errorf("edge %+v has a dangling endpoint", edge)
		}
	}
}

// TestBuild_CountConsistency verifies that every node's value equals the
// number of edges targeting it, counted with multiplicity.
func TestBuild_CountConsistency(t *testing.T) {
	snap := Build([]scan.Document{
		{ID: "A", Path: "/v/A.md", Content: "[[B]] [[B]] [[Ghost]]"},
		{ID: "B", Path: "/v/B.md", Content: "[[A]] [[Ghost]]"},
		{ID: "C", Path: "/v/C.md", Content: ""},
	})

	incoming := make(map[string]int)
	for _, edge := range snap.Edges {
		incoming[edge.To]++
	}
	for _, node := range snap.Nodes {
		if node.Value != incoming[node.ID] {
			t.Errorf("node %s value = %d, want %d", node.ID, node.Value, incoming[node.ID])
		}
	}
}

// TestBuild_Empty verifies an empty document set yields an empty snapshot
// with non-nil slices.
func TestBuild_Empty(t *testing.T) {
	snap := Build(nil)
	if snap.Nodes == nil || snap.Edges == nil {
		t.Fatal("snapshot slices should be non-nil for JSON serialization")
	}
	if len(snap.Nodes) != 0 || len(snap.Edges) != 0 {
		t.Errorf("snapshot should be empty, got %d nodes %d edges", len(snap.Nodes), len(snap.Edges))
	}
}
