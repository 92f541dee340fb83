// Package performance implements the performance rule family: loop
// shape problems and blocking calls inside async code.
package performance

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/prathamc00/AI-Code-Reviewer/internal/findings"
	"github.com/prathamc00/AI-Code-Reviewer/internal/pysrc"
	"github.com/prathamc00/AI-Code-Reviewer/internal/rules"
)

// Rules returns the performance rule family.
func Rules() []rules.Rule {
	return []rules.Rule{
		&deepLoopNesting{},
		&appendInLoop{},
		&blockingAsyncCall{},
		&nestedComprehension{},
	}
}

func raw(f *pysrc.File, line int, issue string) findings.Raw {
	return findings.Raw{
		File:        f.Path,
		Line:        line,
		Issue:       issue,
		Category:    findings.Performance,
		CodeSnippet: f.Snippet(line),
		Context:     f.Context(line),
	}
}

func isLoop(kind string) bool {
	return kind == "for_statement" || kind == "while_statement"
}

// deepLoopNesting flags every loop sitting at nesting depth three or
// deeper. Depth counts both for and while loops and does not reset at
// nested function boundaries.
type deepLoopNesting struct{}

func (r *deepLoopNesting) Name() string                { return "deep-loop-nesting" }
func (r *deepLoopNesting) Category() findings.Category { return findings.Performance }

func (r *deepLoopNesting) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		kind := n.Kind()
		if isLoop(kind) {
			depth++
			if depth >= 3 {
				issue := fmt.Sprintf("Deeply nested loop (depth %d) may cause performance issues", depth)
				if kind == "while_statement" {
					issue = fmt.Sprintf("Deeply nested while loop (depth %d) may cause performance issues", depth)
				}
				out = append(out, raw(f, pysrc.NodeLine(n), issue))
			}
		}
		for i := range n.ChildCount() {
			walk(n.Child(i), depth)
		}
	}
	if root := f.Root(); root != nil {
		walk(root, 0)
	}
	return out
}

// appendInLoop flags .append() calls anywhere inside a top-level for
// loop, where a list comprehension usually reads and runs better. The
// whole loop body is scanned once from the outermost for, so appends
// in nested loops are reported exactly once.
type appendInLoop struct{}

func (r *appendInLoop) Name() string                { return "append-in-loop" }
func (r *appendInLoop) Category() findings.Category { return findings.Performance }

func (r *appendInLoop) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		kind := n.Kind()
		if isLoop(kind) {
			depth++
			if kind == "for_statement" && depth == 1 {
				out = append(out, r.scanForAppends(f, n)...)
			}
		}
		for i := range n.ChildCount() {
			walk(n.Child(i), depth)
		}
	}
	if root := f.Root(); root != nil {
		walk(root, 0)
	}
	return out
}

func (r *appendInLoop) scanForAppends(f *pysrc.File, loop *sitter.Node) []findings.Raw {
	var out []findings.Raw
	pysrc.Walk(loop, func(n *sitter.Node) bool {
		if n.Kind() != "call" {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Kind() != "attribute" {
			return true
		}
		attr := fn.ChildByFieldName("attribute")
		if attr == nil || f.Text(attr) != "append" {
			return true
		}
		out = append(out, raw(f, pysrc.NodeLine(n),
			"List append in loop - consider using list comprehension for better performance"))
		return true
	})
	return out
}

// blockingAsyncCall flags blocking I/O calls inside async functions:
// sleep/read/write/connect attribute calls not going through asyncio,
// and bare sleep() calls.
type blockingAsyncCall struct{}

var blockingAttrs = map[string]bool{
	"sleep":   true,
	"read":    true,
	"write":   true,
	"connect": true,
}

func (r *blockingAsyncCall) Name() string                { return "blocking-async-call" }
func (r *blockingAsyncCall) Category() findings.Category { return findings.Performance }

func (r *blockingAsyncCall) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	var walk func(n *sitter.Node, inAsync bool)
	walk = func(n *sitter.Node, inAsync bool) {
		if n.Kind() == "function_definition" && pysrc.HasChildOfKind(n, "async") {
			inAsync = true
		}
		if inAsync && n.Kind() == "call" {
			if found := r.checkCall(f, n); found != nil {
				out = append(out, *found)
			}
		}
		for i := range n.ChildCount() {
			walk(n.Child(i), inAsync)
		}
	}
	if root := f.Root(); root != nil {
		walk(root, false)
	}
	return out
}

func (r *blockingAsyncCall) checkCall(f *pysrc.File, call *sitter.Node) *findings.Raw {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return nil
	}
	switch fn.Kind() {
	case "attribute":
		attr := fn.ChildByFieldName("attribute")
		if attr == nil || !blockingAttrs[f.Text(attr)] {
			return nil
		}
		obj := fn.ChildByFieldName("object")
		if obj != nil && obj.Kind() == "identifier" && f.Text(obj) == "asyncio" {
			return nil
		}
		found := raw(f, pysrc.NodeLine(call),
			fmt.Sprintf("Blocking call '%s()' in async function - use async version", f.Text(attr)))
		return &found
	case "identifier":
		if f.Text(fn) != "sleep" {
			return nil
		}
		found := raw(f, pysrc.NodeLine(call),
			"Use 'await asyncio.sleep()' instead of 'time.sleep()' in async functions")
		return &found
	}
	return nil
}

// nestedComprehension flags a list comprehension iterating over
// another list comprehension.
type nestedComprehension struct{}

func (r *nestedComprehension) Name() string                { return "nested-comprehension" }
func (r *nestedComprehension) Category() findings.Category { return findings.Performance }

func (r *nestedComprehension) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	pysrc.Walk(f.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "list_comprehension" {
			return true
		}
		for i := range n.NamedChildCount() {
			clause := n.NamedChild(i)
			if clause.Kind() != "for_in_clause" {
				continue
			}
			iter := clause.ChildByFieldName("right")
			if iter != nil && iter.Kind() == "list_comprehension" {
				out = append(out, raw(f, pysrc.NodeLine(n),
					"Nested list comprehension detected - consider breaking into separate steps for readability"))
			}
		}
		return true
	})
	return out
}
