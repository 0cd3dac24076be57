// Package parse extracts wiki-links and hashtags from markdown content.
//
// Extraction is regex-based rather than a full markdown parse: links are
// `[[target]]` markers and tags are `#word` markers. Matches are returned
// in occurrence order with duplicates preserved, which the graph layer
// relies on for backlink multiplicity.
package parse

import "regexp"

var (
	wikiLinkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	hashtagRe  = regexp.MustCompile(`#(\w+)`)
)

// Content holds everything extracted from one document.
type Content struct {
	// Links are the wiki-link targets without brackets, in occurrence
	// order. A target referenced twice appears twice.
	Links []string

	// Tags are the hashtag names without the leading '#', in occurrence
	// order.
	Tags []string
}

// Extract returns all wiki-links and hashtags found in text.
func Extract(text string) Content {
	return Content{
		Links: Links(text),
		Tags:  Tags(text),
	}
}

// Links returns the wiki-link targets found in text.
//
// The pattern matches `[[target]]` including multi-word targets. Nested
// brackets are not supported; the match stops at the first closing bracket.
func Links(text string) []string {
	var links []string
	for _, m := range wikiLinkRe.FindAllStringSubmatch(text, -1) {
		links = append(links, m[1])
	}
	return links
}

// Tags returns the hashtag names found in text.
//
// The pattern matches `#word` where word is letters, digits, or
// underscores. Tags inside code blocks are not treated specially.
func Tags(text string) []string {
	var tags []string
	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		tags = append(tags, m[1])
	}
	return tags
}
