package djazzy

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// routeCalls is the closed set of routing constructors whose name= keyword
// argument declares a route name. The match is byte-equal on the call's head
// identifier; aliased or shadowed names are not resolved. Extending this set
// changes extraction output, so it is part of the Version contract.
var routeCalls = map[string]bool{
	"path":    true,
	"re_path": true,
}

// ExtractFile reads a URL-configuration file and returns the route names it
// declares. Read failures, non-UTF-8 content, and catastrophic parse
// failures are returned as errors so the scan layer can skip recording the
// file; a readable file with syntax errors still produces a tree and yields
// whatever names remain recoverable.
func ExtractFile(ctx context.Context, path string) ([]string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(src) {
		return nil, fmt.Errorf("read %s: not valid UTF-8", path)
	}
	names, err := ExtractRoutes(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return names, nil
}

// ExtractRoutes parses Python source bytes and returns the route names
// declared in it, in document order. Duplicates are preserved. The parser
// instance is scoped to this one call.
func ExtractRoutes(ctx context.Context, src []byte) ([]string, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return routeNames(tree.RootNode(), src), nil
}

// routeNames walks the tree with an explicit worklist instead of recursion,
// so deeply nested files cannot exhaust the stack. Children are pushed in
// reverse so pops visit nodes in pre-order (document order).
func routeNames(root *sitter.Node, src []byte) []string {
	names := []string{}
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Type() == "call" {
			if name, ok := extractCall(node, src); ok {
				names = append(names, name)
			}
		}

		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			if child := node.Child(i); child != nil {
				stack = append(stack, child)
			}
		}
	}
	return names
}

// extractCall recovers the name= literal from a single call node. A call
// yields a name only when both its head identifier is in routeCalls and an
// argument-list keyword argument carries a name= binding; include(...) and
// friends never do, so they contribute nothing.
//
// The keyword argument is recognized by textual containment of "name="
// within its span, then split on the first '='. A preceding keyword whose
// own string value contains "name=" (for example pattern_name=) is a known
// false positive of this scheme. When several name= keywords appear in one
// call, the last one wins.
func extractCall(node *sitter.Node, src []byte) (string, bool) {
	callee := ""
	name := ""
	haveName := false

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "identifier":
			if text := child.Content(src); routeCalls[text] {
				callee = text
			}
		case "argument_list":
			for j := 0; j < int(child.ChildCount()); j++ {
				arg := child.Child(j)
				if arg == nil || arg.Type() != "keyword_argument" {
					continue
				}
				span := arg.Content(src)
				if !strings.Contains(span, "name=") {
					continue
				}
				_, rhs, _ := strings.Cut(span, "=")
				name = trimQuotes(strings.TrimSpace(rhs))
				haveName = true
			}
		}
	}

	if callee == "" || !haveName {
		return "", false
	}
	return name, true
}

// trimQuotes strips exactly one layer of matching single or double quotes.
// Inner bytes are preserved verbatim; escape sequences are not interpreted.
func trimQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
