// Package delta computes minimal graph changes from single filesystem
// events against the cached state, and flattens them into ordered change
// events for consumers.
//
// Each handler performs one full read-compute-commit sequence against the
// shared cache. A handler that fails (unreadable file, malformed path)
// returns before any cache mutation, so a skipped event never leaves the
// cache half-applied.
package delta

import (
	"fmt"
	"path/filepath"

	"github.com/mdgraph/mdgraph/internal/cache"
	"github.com/mdgraph/mdgraph/internal/graph"
	"github.com/mdgraph/mdgraph/internal/parse"
	"github.com/mdgraph/mdgraph/internal/scan"
)

// Delta is one logical unit of change produced by a single filesystem
// event. A delta with all lists empty represents no observable change and
// must not be emitted.
type Delta struct {
	NodesAdded   []graph.Node
	NodesRemoved []string
	NodesUpdated []graph.Node
	EdgesAdded   []graph.Edge
	EdgesRemoved []graph.Edge
}

// IsEmpty reports whether the delta contains no changes.
func (d *Delta) IsEmpty() bool {
	return len(d.NodesAdded) == 0 &&
		len(d.NodesRemoved) == 0 &&
		len(d.NodesUpdated) == 0 &&
		len(d.EdgesAdded) == 0 &&
		len(d.EdgesRemoved) == 0
}

// OnCreate handles a newly created document.
//
// If the id was a phantom node, the phantom representation is retired and
// replaced by a real node. Edges are added for every wiki-link occurrence,
// materializing new phantom targets as needed. The node's value is the
// incoming count before this document's own outgoing list is stored, so a
// document's own references never count toward its own tally here.
func OnCreate(path string, c *cache.Cache) (*Delta, error) {
	doc, err := scan.Read(path)
	if err != nil {
		return nil, err
	}
	content := parse.Extract(doc.Content)
	d := &Delta{}

	if c.IsPhantom(doc.ID) {
		d.NodesRemoved = append(d.NodesRemoved, doc.ID)
		c.RemovePhantom(doc.ID)
	}

	d.NodesAdded = append(d.NodesAdded, graph.Node{
		ID:    doc.ID,
		Label: doc.ID,
		Value: c.CountIncoming(doc.ID),
		Path:  path,
		Tags:  tagsOrEmpty(content.Tags),
	})

	for _, link := range content.Links {
		d.EdgesAdded = append(d.EdgesAdded, graph.Edge{From: doc.ID, To: link})

		// A self-reference is a plain self-edge; the real node added above
		// must not gain a phantom twin.
		if link == doc.ID {
			continue
		}
		if !c.HasDocument(link) && !c.IsPhantom(link) {
			// The target is brand new, so its only backlinks are the
			// occurrences in this document.
			value := occurrences(content.Links, link)
			d.NodesAdded = append(d.NodesAdded, graph.NewPhantom(link, value))
			c.AddPhantom(link)
		}
	}

	c.AddDocument(doc.ID, path, content.Links, content.Tags)
	return d, nil
}

// OnModify handles a changed document.
//
// The new outgoing list is diffed against the stored one as sets: duplicate
// occurrences collapse for diff purposes even though storage preserves
// multiplicity. Equal sets short-circuit with an empty delta, which means
// tag-only edits are not detected.
func OnModify(path string, c *cache.Cache) (*Delta, error) {
	doc, err := scan.Read(path)
	if err != nil {
		return nil, err
	}
	content := parse.Extract(doc.Content)
	d := &Delta{}

	oldLinks := c.Outgoing(doc.ID)
	oldSet := toSet(oldLinks)
	newSet := toSet(content.Links)

	if setsEqual(oldSet, newSet) {
		return d, nil
	}

	for _, link := range distinct(oldLinks) {
		if _, ok := newSet[link]; ok {
			continue
		}
		d.EdgesRemoved = append(d.EdgesRemoved, graph.Edge{From: doc.ID, To: link})
		retirePhantom(link, oldLinks, c, d)
	}

	for _, link := range distinct(content.Links) {
		if _, ok := oldSet[link]; ok {
			continue
		}
		d.EdgesAdded = append(d.EdgesAdded, graph.Edge{From: doc.ID, To: link})

		if !c.HasDocument(link) && !c.IsPhantom(link) {
			value := occurrences(content.Links, link)
			d.NodesAdded = append(d.NodesAdded, graph.NewPhantom(link, value))
			c.AddPhantom(link)
		}
	}

	c.SetOutgoing(doc.ID, content.Links)
	return d, nil
}

// OnDelete handles a removed document. Only cached state is available: the
// file is gone, so the stored outgoing list drives edge removal.
//
// If other documents still reference the id, the real node is replaced by a
// phantom in the same delta (node-removed followed by node-added).
func OnDelete(path string, c *cache.Cache) (*Delta, error) {
	if path == "" || filepath.Base(path) == "." || filepath.Base(path) == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid document path: %q", path)
	}
	id := scan.Stem(path)
	d := &Delta{}

	// Create and delete inside one debounce window can surface a removal
	// for a document the cache never saw. Nothing to undo.
	if !c.HasDocument(id) {
		return d, nil
	}

	outgoing := c.Outgoing(id)
	for _, link := range outgoing {
		d.EdgesRemoved = append(d.EdgesRemoved, graph.Edge{From: id, To: link})
		retirePhantom(link, outgoing, c, d)
	}

	// Incoming references from other documents only; the document's own
	// entry is still cached at this point and must not count itself.
	incoming := c.CountIncoming(id) - occurrences(outgoing, id)

	d.NodesRemoved = append(d.NodesRemoved, id)
	if incoming > 0 {
		d.NodesAdded = append(d.NodesAdded, graph.NewPhantom(id, incoming))
		c.AddPhantom(id)
	}

	c.RemoveDocument(id)
	return d, nil
}

// retirePhantom removes a phantom node when the outgoing list being
// dropped holds its only remaining references. The incoming count still
// includes the dropped list at call time, so its occurrences are
// subtracted before the check; a document linking a phantom twice retires
// it the same as one linking it once.
func retirePhantom(link string, dropped []string, c *cache.Cache, d *Delta) {
	if !c.IsPhantom(link) {
		return
	}
	if c.CountIncoming(link)-occurrences(dropped, link) > 0 {
		return
	}
	d.NodesRemoved = append(d.NodesRemoved, link)
	c.RemovePhantom(link)
}

func occurrences(links []string, target string) int {
	n := 0
	for _, link := range links {
		if link == target {
			n++
		}
	}
	return n
}

// distinct returns the unique values of links in first-occurrence order.
func distinct(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	var out []string
	for _, link := range links {
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		out = append(out, link)
	}
	return out
}

func toSet(links []string) map[string]struct{} {
	set := make(map[string]struct{}, len(links))
	for _, link := range links {
		set[link] = struct{}{}
	}
	return set
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
