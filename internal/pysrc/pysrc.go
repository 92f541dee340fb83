// Package pysrc prepares Python source files for rule evaluation. A
// parsed File carries the raw content, a line table for lexical rules,
// and a tree-sitter syntax tree for structural rules.
package pysrc

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// contextWindow is the number of lines shown before and after the hit
// line in a finding's context block.
const contextWindow = 3

// File is a Python source file prepared for rule evaluation. Files are
// read-only to rules.
type File struct {
	Path    string
	Content string

	src   []byte
	lines []string
	tree  *sitter.Tree
}

// Parse prepares a file for rule evaluation. A file with syntax errors
// keeps its content and line table but exposes a nil syntax tree, so
// structural rules skip it while lexical rules still run.
func Parse(path, content string) *File {
	f := &File{
		Path:    path,
		Content: content,
		src:     []byte(content),
		lines:   strings.Split(content, "\n"),
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(python.Language()))

	tree := parser.Parse(f.src, nil)
	if tree != nil {
		if root := tree.RootNode(); root != nil && !root.HasError() {
			f.tree = tree
		} else {
			tree.Close()
		}
	}
	return f
}

// Close releases the parse tree. The engine calls it once every rule
// has run against the file.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Root returns the syntax tree root, or nil when the file did not
// parse cleanly.
func (f *File) Root() *sitter.Node {
	if f.tree == nil {
		return nil
	}
	return f.tree.RootNode()
}

// NumLines returns the number of lines in the file.
func (f *File) NumLines() int {
	return len(f.lines)
}

// Line returns the raw text of a 1-based line, or "" when out of range.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	return f.lines[n-1]
}

// Snippet returns the trimmed text of a 1-based line.
func (f *File) Snippet(line int) string {
	return strings.TrimSpace(f.Line(line))
}

// Context renders the window around a 1-based hit line: contextWindow
// lines either side, right-trimmed, the hit line prefixed ">>> " and
// the rest indented four spaces.
func (f *File) Context(line int) string {
	if line < 1 || line > len(f.lines) {
		return ""
	}
	start := line - contextWindow
	if start < 1 {
		start = 1
	}
	end := line + contextWindow
	if end > len(f.lines) {
		end = len(f.lines)
	}

	out := make([]string, 0, end-start+1)
	for n := start; n <= end; n++ {
		prefix := "    "
		if n == line {
			prefix = ">>> "
		}
		out = append(out, prefix+strings.TrimRight(f.lines[n-1], " \t\r\n"))
	}
	return strings.Join(out, "\n")
}

// Text returns the source text covered by a node.
func (f *File) Text(n *sitter.Node) string {
	return string(f.src[n.StartByte():n.EndByte()])
}

// NodeLine returns the 1-based line a node starts on.
func NodeLine(n *sitter.Node) int {
	return int(n.StartPosition().Row) + 1
}

// NodeEndLine returns the 1-based line a node ends on.
func NodeEndLine(n *sitter.Node) int {
	return int(n.EndPosition().Row) + 1
}

// Walk visits node and all of its descendants depth-first. The visitor
// returns false to skip a node's children.
func Walk(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := range node.ChildCount() {
		Walk(node.Child(i), visit)
	}
}

// ChildByKind returns the first direct child of the given kind, or nil.
func ChildByKind(node *sitter.Node, kind string) *sitter.Node {
	for i := range node.ChildCount() {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// HasChildOfKind reports whether node has a direct child of the kind.
func HasChildOfKind(node *sitter.Node, kind string) bool {
	return ChildByKind(node, kind) != nil
}
