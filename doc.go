// Package djazzy scans Django projects for named URL routes and maintains an
// incremental on-disk cache of the result, so an editor host can answer
// "what route names exist here?" without re-parsing unchanged files.
//
// # Pipeline
//
// A scan has three stages:
//
//  1. Discover: walk the project root collecting files named urls.py,
//     skipping a fixed set of directories (.venv, node_modules, __pycache__,
//     migrations).
//
//  2. Extract: for each new-or-changed file, parse it with the tree-sitter
//     Python grammar and walk the syntax tree looking for calls to path or
//     re_path, recovering the string literal bound to each call's name=
//     keyword argument.
//
//  3. Persist: merge the results into the cache document and write it back
//     to <root>/.djazzy_cache.json in one whole-file replacement.
//
// Change detection is by modification time: a file whose mtime exactly
// matches its cached entry is reused without being read. Timestamps
// round-trip losslessly through the cache's JSON encoding so this comparison
// stays reliable across runs.
//
// # Usage
//
//	s := djazzy.NewScanner("path/to/project")
//	res, err := s.Scan(context.Background())
//	if err != nil { ... }
//	fmt.Println(res.Files, res.Routes)
//
// [ExtractRoutes] and [ExtractFile] expose the extractor directly for
// callers that manage their own persistence.
//
// # Failure model
//
// The scan is best-effort per file: an unreadable, non-UTF-8, or unparseable
// urls.py contributes nothing for the run and its prior cache entry (if any)
// is left untouched. Only the missing-argument, walk, and cache-write paths
// are fatal. The extractor itself never fails on a parsed tree; structural
// surprises make the offending call contribute nothing.
package djazzy
