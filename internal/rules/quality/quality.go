// Package quality implements the code-quality rule family: oversized
// or undocumented definitions, parameter bloat, branchy functions,
// and uncommunicative names.
package quality

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/prathamc00/AI-Code-Reviewer/internal/findings"
	"github.com/prathamc00/AI-Code-Reviewer/internal/pysrc"
	"github.com/prathamc00/AI-Code-Reviewer/internal/rules"
)

const (
	maxFunctionLines = 50
	maxParameters    = 5
	maxComplexity    = 10
	maxClassMethods  = 20
)

// Rules returns the code-quality rule family.
func Rules() []rules.Rule {
	return []rules.Rule{
		&longFunction{},
		&missingDocstring{},
		&manyParameters{},
		&highComplexity{},
		&classDocstring{},
		&largeClass{},
		&shortName{},
	}
}

func raw(f *pysrc.File, line int, issue, snippet string) findings.Raw {
	return findings.Raw{
		File:        f.Path,
		Line:        line,
		Issue:       issue,
		Category:    findings.CodeQuality,
		CodeSnippet: snippet,
		Context:     f.Context(line),
	}
}

// eachFunction visits every function definition in the file, including
// methods and async functions.
func eachFunction(f *pysrc.File, visit func(fn *sitter.Node, name string)) {
	pysrc.Walk(f.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "function_definition" {
			return true
		}
		if name := n.ChildByFieldName("name"); name != nil {
			visit(n, f.Text(name))
		}
		return true
	})
}

// hasDocstring reports whether a definition body opens with a string
// expression statement.
func hasDocstring(body *sitter.Node) bool {
	if body == nil || body.NamedChildCount() == 0 {
		return false
	}
	first := body.NamedChild(0)
	if first.Kind() != "expression_statement" {
		return false
	}
	return pysrc.HasChildOfKind(first, "string")
}

// longFunction flags functions spanning more than maxFunctionLines.
type longFunction struct{}

func (r *longFunction) Name() string                { return "long-function" }
func (r *longFunction) Category() findings.Category { return findings.CodeQuality }

func (r *longFunction) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	eachFunction(f, func(fn *sitter.Node, name string) {
		length := pysrc.NodeEndLine(fn) - pysrc.NodeLine(fn)
		if length > maxFunctionLines {
			out = append(out, raw(f, pysrc.NodeLine(fn),
				fmt.Sprintf("Function '%s' is too long (%d lines) - consider breaking it down", name, length),
				fmt.Sprintf("def %s(...)", name)))
		}
	})
	return out
}

// missingDocstring flags public functions without a docstring.
type missingDocstring struct{}

func (r *missingDocstring) Name() string                { return "missing-docstring" }
func (r *missingDocstring) Category() findings.Category { return findings.CodeQuality }

func (r *missingDocstring) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	eachFunction(f, func(fn *sitter.Node, name string) {
		if strings.HasPrefix(name, "_") {
			return
		}
		if hasDocstring(fn.ChildByFieldName("body")) {
			return
		}
		out = append(out, raw(f, pysrc.NodeLine(fn),
			fmt.Sprintf("Function '%s' is missing a docstring", name),
			fmt.Sprintf("def %s(...)", name)))
	})
	return out
}

// manyParameters flags functions with more than maxParameters named
// parameters. Splat parameters (*args, **kwargs) are not counted.
type manyParameters struct{}

func (r *manyParameters) Name() string                { return "many-parameters" }
func (r *manyParameters) Category() findings.Category { return findings.CodeQuality }

func (r *manyParameters) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	eachFunction(f, func(fn *sitter.Node, name string) {
		count := countParameters(fn.ChildByFieldName("parameters"))
		if count > maxParameters {
			out = append(out, raw(f, pysrc.NodeLine(fn),
				fmt.Sprintf("Function '%s' has too many parameters (%d) - consider using a config object", name, count),
				fmt.Sprintf("def %s(...)", name)))
		}
	})
	return out
}

func countParameters(params *sitter.Node) int {
	if params == nil {
		return 0
	}
	count := 0
	for i := range params.NamedChildCount() {
		switch params.NamedChild(i).Kind() {
		case "identifier", "typed_parameter", "default_parameter", "typed_default_parameter":
			count++
		}
	}
	return count
}

// highComplexity flags functions whose simplified cyclomatic
// complexity (1 + branches + boolean operators) exceeds maxComplexity.
type highComplexity struct{}

func (r *highComplexity) Name() string                { return "high-complexity" }
func (r *highComplexity) Category() findings.Category { return findings.CodeQuality }

func (r *highComplexity) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	eachFunction(f, func(fn *sitter.Node, name string) {
		complexity := cyclomaticComplexity(fn)
		if complexity > maxComplexity {
			out = append(out, raw(f, pysrc.NodeLine(fn),
				fmt.Sprintf("Function '%s' has high cyclomatic complexity (%d) - consider simplifying", name, complexity),
				fmt.Sprintf("def %s(...)", name)))
		}
	})
	return out
}

func cyclomaticComplexity(fn *sitter.Node) int {
	complexity := 1
	pysrc.Walk(fn, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "if_statement", "elif_clause", "for_statement", "while_statement", "except_clause":
			complexity++
		case "boolean_operator":
			complexity++
		}
		return true
	})
	return complexity
}

// classDocstring flags public classes without a docstring.
type classDocstring struct{}

func (r *classDocstring) Name() string                { return "class-docstring" }
func (r *classDocstring) Category() findings.Category { return findings.CodeQuality }

func (r *classDocstring) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	eachClass(f, func(class *sitter.Node, name string) {
		if strings.HasPrefix(name, "_") {
			return
		}
		if hasDocstring(class.ChildByFieldName("body")) {
			return
		}
		out = append(out, raw(f, pysrc.NodeLine(class),
			fmt.Sprintf("Class '%s' is missing a docstring", name),
			fmt.Sprintf("class %s:", name)))
	})
	return out
}

// largeClass flags classes with more than maxClassMethods methods.
type largeClass struct{}

func (r *largeClass) Name() string                { return "large-class" }
func (r *largeClass) Category() findings.Category { return findings.CodeQuality }

func (r *largeClass) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	eachClass(f, func(class *sitter.Node, name string) {
		methods := countMethods(class.ChildByFieldName("body"))
		if methods > maxClassMethods {
			out = append(out, raw(f, pysrc.NodeLine(class),
				fmt.Sprintf("Class '%s' has too many methods (%d) - consider splitting into multiple classes", name, methods),
				fmt.Sprintf("class %s:", name)))
		}
	})
	return out
}

func eachClass(f *pysrc.File, visit func(class *sitter.Node, name string)) {
	pysrc.Walk(f.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "class_definition" {
			return true
		}
		if name := n.ChildByFieldName("name"); name != nil {
			visit(n, f.Text(name))
		}
		return true
	})
}

// countMethods counts direct function definitions in a class body,
// looking through decorators.
func countMethods(body *sitter.Node) int {
	if body == nil {
		return 0
	}
	count := 0
	for i := range body.NamedChildCount() {
		child := body.NamedChild(i)
		switch child.Kind() {
		case "function_definition":
			count++
		case "decorated_definition":
			if pysrc.HasChildOfKind(child, "function_definition") {
				count++
			}
		}
	}
	return count
}

// shortName flags single-letter identifiers used as variables, outside
// the conventional loop-counter and coordinate names.
type shortName struct{}

var allowedShortNames = map[string]bool{
	"i": true, "j": true, "k": true,
	"x": true, "y": true, "z": true,
	"_": true,
}

func (r *shortName) Name() string                { return "short-name" }
func (r *shortName) Category() findings.Category { return findings.CodeQuality }

func (r *shortName) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	pysrc.Walk(f.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "identifier" {
			return true
		}
		name := f.Text(n)
		if len(name) != 1 || allowedShortNames[name] {
			return true
		}
		if !isVariableUse(n) {
			return true
		}
		line := pysrc.NodeLine(n)
		out = append(out, findings.Raw{
			File:        f.Path,
			Line:        line,
			Issue:       fmt.Sprintf("Single-letter variable name '%s' - use descriptive names", name),
			Category:    findings.CodeQuality,
			CodeSnippet: f.Snippet(line),
			Context:     f.Context(line),
		})
		return true
	})
	return out
}

// isVariableUse filters identifier nodes down to variable references:
// definition names, parameter names, attribute names, keyword-argument
// names, import names, and exception aliases do not count.
func isVariableUse(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return true
	}
	switch parent.Kind() {
	case "parameters", "lambda_parameters", "typed_parameter":
		return false
	case "default_parameter", "typed_default_parameter":
		return !sameNode(n, parent.ChildByFieldName("name"))
	case "function_definition", "class_definition":
		return !sameNode(n, parent.ChildByFieldName("name"))
	case "attribute":
		return !sameNode(n, parent.ChildByFieldName("attribute"))
	case "keyword_argument":
		return !sameNode(n, parent.ChildByFieldName("name"))
	case "dotted_name", "aliased_import", "relative_import",
		"global_statement", "nonlocal_statement":
		return false
	case "except_clause":
		prev := n.PrevSibling()
		return prev == nil || prev.Kind() != "as"
	}
	return true
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}
