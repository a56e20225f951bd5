// Package cache implements the on-disk route-name cache document written to
// <project_root>/.djazzy_cache.json.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// FileName is the cache document basename, resolved against the project root.
const FileName = ".djazzy_cache.json"

// Entry pairs one file's extracted route names with the modification time
// observed at extraction. MTime round-trips through RFC 3339 nanosecond JSON
// encoding, so whole-value comparison against the filesystem stays reliable
// across runs.
type Entry struct {
	Patterns []string  `json:"patterns"`
	MTime    time.Time `json:"mtime"`
}

// Document is the full cache file: one Entry per URL-configuration file path,
// the wall-clock time of the last write, and the producer version that wrote
// it. Entries whose path has since disappeared are carried forward, not
// pruned; only a version change discards them.
type Document struct {
	URLs           map[string]Entry `json:"urls"`
	LastModifiedAt time.Time        `json:"last_modified_at"`
	Version        string           `json:"version"`
}

// New returns an empty document for the given producer version.
func New(version string) *Document {
	return &Document{
		URLs:    make(map[string]Entry),
		Version: version,
	}
}

// Load reads the document at path. A missing file, unreadable file,
// malformed JSON, or a document written by a different producer version all
// recover silently to an empty document; the next scan re-extracts
// everything.
func Load(path, version string) *Document {
	data, err := os.ReadFile(path)
	if err != nil {
		return New(version)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return New(version)
	}
	if doc.Version != version || doc.URLs == nil {
		return New(version)
	}
	return &doc
}

// Save writes the document to path as one whole-file replacement. Atomicity
// against concurrent writers is not promised.
func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}
