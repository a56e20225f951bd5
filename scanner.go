package djazzy

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"djazzy/internal/cache"
)

// Version tags every cache document this scanner writes. The recognized
// routing-call set and the ignore set are part of this contract: changing
// either requires a bump, which invalidates prior extractions on load.
const Version = "0.1.0"

// urlFileName is the basename selecting URL-configuration files.
const urlFileName = "urls.py"

// ignoreDirs are directory basenames whose subtrees are never scanned.
var ignoreDirs = map[string]bool{
	".venv":        true,
	"node_modules": true,
	"__pycache__":  true,
	"migrations":   true,
}

// IsIgnoredDir reports whether a directory basename is excluded from scans.
func IsIgnoredDir(name string) bool {
	return ignoreDirs[name]
}

// IsURLFile reports whether a file basename selects a URL-configuration file.
func IsURLFile(name string) bool {
	return name == urlFileName
}

// Scanner produces an incremental route-name cache for one project root.
// It is not safe for concurrent use; a scan owns the in-memory cache for
// its duration.
type Scanner struct {
	root      string
	cachePath string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithCachePath overrides the default cache location,
// <root>/.djazzy_cache.json.
func WithCachePath(path string) Option {
	return func(s *Scanner) {
		s.cachePath = path
	}
}

// NewScanner creates a Scanner for the given project root.
func NewScanner(root string, opts ...Option) *Scanner {
	s := &Scanner{
		root:      root,
		cachePath: filepath.Join(root, cache.FileName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CachePath returns where Scan writes the cache document.
func (s *Scanner) CachePath() string {
	return s.cachePath
}

// Result summarizes one scan.
type Result struct {
	Files     int    // urls.py files found on disk
	Reused    int    // entries reused via mtime equality
	Routes    int    // route names across all files seen this run
	CachePath string // where the document was written
}

// Scan walks the project root, re-extracts new-or-changed urls.py files,
// merges the results over the loaded cache, and writes the updated document.
//
// Per-file failures (stat, read, non-UTF-8, parse) are silent: the file is
// not recorded for this run, since its mtime is never captured on the error
// path, and any prior entry for it survives untouched. Entries for paths
// that no longer exist on disk are carried forward unpruned. The cache file
// is replaced only after the walk completes, so a failed run leaves the
// prior document in place.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	doc := cache.Load(s.cachePath, Version)

	paths, err := s.collectURLFiles()
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}

	res := &Result{CachePath: s.cachePath}
	for _, path := range paths {
		res.Files++

		info, err := os.Stat(path)
		if err != nil {
			continue // raced with deletion
		}
		mtime := info.ModTime().UTC()

		if prev, ok := doc.URLs[path]; ok && prev.MTime.Equal(mtime) {
			res.Reused++
			res.Routes += len(prev.Patterns)
			continue
		}

		names, err := ExtractFile(ctx, path)
		if err != nil {
			continue
		}
		doc.URLs[path] = cache.Entry{Patterns: names, MTime: mtime}
		res.Routes += len(names)
	}

	doc.LastModifiedAt = time.Now().UTC()
	doc.Version = Version
	if err := doc.Save(s.cachePath); err != nil {
		return nil, err
	}
	return res, nil
}

// collectURLFiles walks the root collecting urls.py paths, pruning ignored
// directories. Enumeration errors abort the scan.
func (s *Scanner) collectURLFiles() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.root && ignoreDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == urlFileName {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
