// Package scan discovers and reads markdown documents under a vault root.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Document is a markdown file read into memory.
type Document struct {
	// ID is the file name without extension, used as the node identifier.
	ID string

	// Path is the location of the file on disk.
	Path string

	// Content is the full file content.
	Content string
}

// Dir recursively collects every .md file under root.
//
// The walk is depth-first and loads all content into memory; for the
// expected corpus sizes (thousands of notes) this is acceptable. Returns a
// descriptive error if root does not exist, is not a directory, or any
// markdown file cannot be read.
func Dir(root string) ([]Document, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path does not exist: %s", root)
		}
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	var docs []Document
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error reading %s: %w", path, err)
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		doc, err := Read(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Read loads a single markdown file as a Document.
func Read(path string) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("error reading file %s: %w", path, err)
	}
	return Document{
		ID:      Stem(path),
		Path:    path,
		Content: string(content),
	}, nil
}

// Stem returns the document identifier for a path: the base name without
// its extension. Non-UTF8 names yield the placeholder "unknown" so a scan
// can continue instead of failing.
func Stem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || !utf8.ValidString(stem) {
		return "unknown"
	}
	return stem
}
