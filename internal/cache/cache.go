// Package cache holds the derived graph state kept between filesystem
// events: which documents exist, what each one links to, and which ids are
// currently materialized as phantom nodes.
//
// The cache is the single authoritative input for incremental delta
// computation. It is not safe for concurrent use on its own; the watch
// pipeline guards it with a mutex held for each full read-compute-commit
// sequence.
package cache

import (
	"sort"

	"github.com/mdgraph/mdgraph/internal/parse"
	"github.com/mdgraph/mdgraph/internal/scan"
)

// Cache tracks per-document outgoing references and tags plus the set of
// currently materialized phantom node ids.
type Cache struct {
	documents map[string]string
	outgoing  map[string][]string
	tags      map[string][]string
	phantoms  map[string]struct{}
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		documents: make(map[string]string),
		outgoing:  make(map[string][]string),
		tags:      make(map[string][]string),
		phantoms:  make(map[string]struct{}),
	}
}

// Seed builds a cache from a full document scan. Phantom status is derived
// directly: every referenced id without a backing document is a phantom.
func Seed(docs []scan.Document) *Cache {
	c := New()
	for _, doc := range docs {
		content := parse.Extract(doc.Content)
		c.documents[doc.ID] = doc.Path
		c.outgoing[doc.ID] = content.Links
		c.tags[doc.ID] = content.Tags
	}
	for _, links := range c.outgoing {
		for _, link := range links {
			if _, ok := c.documents[link]; !ok {
				c.phantoms[link] = struct{}{}
			}
		}
	}
	return c
}

// HasDocument reports whether id denotes a currently-known document.
func (c *Cache) HasDocument(id string) bool {
	_, ok := c.documents[id]
	return ok
}

// Path returns the recorded path for a document id.
func (c *Cache) Path(id string) (string, bool) {
	path, ok := c.documents[id]
	return path, ok
}

// IsPhantom reports whether id is currently materialized as a phantom node.
func (c *Cache) IsPhantom(id string) bool {
	_, ok := c.phantoms[id]
	return ok
}

// Outgoing returns a copy of the stored reference list for id, duplicates
// included. The list reflects the most recently parsed content.
func (c *Cache) Outgoing(id string) []string {
	links := c.outgoing[id]
	out := make([]string, len(links))
	copy(out, links)
	return out
}

// Tags returns a copy of the stored tag list for id.
func (c *Cache) Tags(id string) []string {
	tags := c.tags[id]
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// CountIncoming returns the number of times target appears across all
// stored outgoing lists, counted with multiplicity. This is a linear scan
// over every stored reference, an accepted cost at expected corpus sizes.
func (c *Cache) CountIncoming(target string) int {
	count := 0
	for _, links := range c.outgoing {
		for _, link := range links {
			if link == target {
				count++
			}
		}
	}
	return count
}

// AddDocument records a document entry with its outgoing references and
// tags. Any phantom status for the id ends here.
func (c *Cache) AddDocument(id, path string, links, tags []string) {
	c.documents[id] = path
	c.outgoing[id] = append([]string(nil), links...)
	c.tags[id] = append([]string(nil), tags...)
	delete(c.phantoms, id)
}

// SetOutgoing fully replaces the stored reference list for id.
func (c *Cache) SetOutgoing(id string, links []string) {
	c.outgoing[id] = append([]string(nil), links...)
}

// SetTags fully replaces the stored tag list for id.
func (c *Cache) SetTags(id string, tags []string) {
	c.tags[id] = append([]string(nil), tags...)
}

// RemoveDocument deletes a document's entry, outgoing list, and tags.
func (c *Cache) RemoveDocument(id string) {
	delete(c.documents, id)
	delete(c.outgoing, id)
	delete(c.tags, id)
}

// AddPhantom marks id as a materialized phantom node.
func (c *Cache) AddPhantom(id string) {
	c.phantoms[id] = struct{}{}
}

// RemovePhantom clears id's phantom status.
func (c *Cache) RemovePhantom(id string) {
	delete(c.phantoms, id)
}

// DocumentIDs returns all known document ids in sorted order.
func (c *Cache) DocumentIDs() []string {
	ids := make([]string, 0, len(c.documents))
	for id := range c.documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Phantoms returns all materialized phantom ids in sorted order.
func (c *Cache) Phantoms() []string {
	ids := make([]string, 0, len(c.phantoms))
	for id := range c.phantoms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
