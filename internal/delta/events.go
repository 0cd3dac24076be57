package delta

import "github.com/mdgraph/mdgraph/internal/graph"

// Kind identifies a discrete graph change event.
type Kind string

const (
	KindNodeAdded   Kind = "node-added"
	KindNodeRemoved Kind = "node-removed"
	// KindNodeUpdated is defined for consumers but never produced by the
	// current handlers; it is reserved for tag-only updates.
	KindNodeUpdated Kind = "node-updated"
	KindEdgeAdded   Kind = "edge-added"
	KindEdgeRemoved Kind = "edge-removed"
)

// Event is one discrete change broadcast to consumers. Exactly one of
// Node, NodeID, or Edge is set depending on the kind.
type Event struct {
	Kind   Kind        `json:"type"`
	Node   *graph.Node `json:"node,omitempty"`
	NodeID string      `json:"node_id,omitempty"`
	Edge   *graph.Edge `json:"edge,omitempty"`
}

// Events flattens the delta into discrete events in the fixed cross-list
// order:
//
//	node-removed, edge-removed, node-added, node-updated, edge-added
//
// Removals must precede additions so a consumer can apply a phantom-to-real
// transition without a transient duplicate id, and edges are added only
// after both endpoints exist. Within each list the original computation
// order is preserved.
func (d *Delta) Events() []Event {
	var events []Event

	for _, id := range d.NodesRemoved {
		events = append(events, Event{Kind: KindNodeRemoved, NodeID: id})
	}
	for i := range d.EdgesRemoved {
		edge := d.EdgesRemoved[i]
		events = append(events, Event{Kind: KindEdgeRemoved, Edge: &edge})
	}
	for i := range d.NodesAdded {
		node := d.NodesAdded[i]
		events = append(events, Event{Kind: KindNodeAdded, Node: &node})
	}
	for i := range d.NodesUpdated {
		node := d.NodesUpdated[i]
		events = append(events, Event{Kind: KindNodeUpdated, Node: &node})
	}
	for i := range d.EdgesAdded {
		edge := d.EdgesAdded[i]
		events = append(events, Event{Kind: KindEdgeAdded, Edge: &edge})
	}

	return events
}
