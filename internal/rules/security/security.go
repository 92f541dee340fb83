// Package security implements the security rule family: hardcoded
// credentials, injection-prone string building, and calls that hand
// attacker-reachable strings to an interpreter or shell.
package security

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/prathamc00/AI-Code-Reviewer/internal/findings"
	"github.com/prathamc00/AI-Code-Reviewer/internal/pysrc"
	"github.com/prathamc00/AI-Code-Reviewer/internal/rules"
)

// Rules returns the security rule family.
func Rules() []rules.Rule {
	return []rules.Rule{
		&hardcodedSecrets{},
		&sqlInjection{},
		&dangerousCall{},
		&pickleLoad{},
		&shellCommand{},
		&subprocessShell{},
	}
}

func raw(f *pysrc.File, line int, issue string) findings.Raw {
	return findings.Raw{
		File:        f.Path,
		Line:        line,
		Issue:       issue,
		Category:    findings.Security,
		CodeSnippet: f.Snippet(line),
		Context:     f.Context(line),
	}
}

// lineOf maps a byte offset in the file content to a 1-based line.
func lineOf(f *pysrc.File, offset int) int {
	return strings.Count(f.Content[:offset], "\n") + 1
}

// hardcodedSecrets is a lexical rule matching credential-shaped
// assignments: API keys, passwords, secret keys, tokens, AWS key IDs.
type hardcodedSecrets struct{}

var secretPatterns = []struct {
	re    *regexp.Regexp
	issue string
}{
	{regexp.MustCompile(`(?i)api[_-]?key\s*=\s*["']([A-Za-z0-9_-]{20,})["']`), "Hardcoded API key detected"},
	{regexp.MustCompile(`(?i)password\s*=\s*["'](.{3,})["']`), "Hardcoded password detected"},
	{regexp.MustCompile(`(?i)secret[_-]?key\s*=\s*["'](.{10,})["']`), "Hardcoded secret key detected"},
	{regexp.MustCompile(`(?i)token\s*=\s*["']([A-Za-z0-9_-]{20,})["']`), "Hardcoded token detected"},
	{regexp.MustCompile(`(?i)aws[_-]?access[_-]?key[_-]?id\s*=\s*["']([A-Z0-9]{20})["']`), "Hardcoded AWS access key detected"},
}

func (r *hardcodedSecrets) Name() string                { return "hardcoded-secret" }
func (r *hardcodedSecrets) Category() findings.Category { return findings.Security }

func (r *hardcodedSecrets) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	for _, p := range secretPatterns {
		for _, loc := range p.re.FindAllStringIndex(f.Content, -1) {
			out = append(out, raw(f, lineOf(f, loc[0]), p.issue))
		}
	}
	return out
}

// sqlInjection is a lexical rule matching SQL verbs combined with
// string concatenation or interpolation feeding a query clause.
type sqlInjection struct{}

var sqlConcatPattern = regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE|DROP).*?[+%].*?(WHERE|FROM|INTO|VALUES)`)

func (r *sqlInjection) Name() string                { return "sql-injection" }
func (r *sqlInjection) Category() findings.Category { return findings.Security }

func (r *sqlInjection) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	for _, loc := range sqlConcatPattern.FindAllStringIndex(f.Content, -1) {
		out = append(out, raw(f, lineOf(f, loc[0]),
			"Potential SQL injection: SQL query uses string concatenation"))
	}
	return out
}

// dangerousCall flags eval() and exec() calls.
type dangerousCall struct{}

func (r *dangerousCall) Name() string                { return "dangerous-call" }
func (r *dangerousCall) Category() findings.Category { return findings.Security }

func (r *dangerousCall) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	pysrc.Walk(f.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "call" {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Kind() != "identifier" {
			return true
		}
		name := f.Text(fn)
		if name != "eval" && name != "exec" {
			return true
		}
		out = append(out, raw(f, pysrc.NodeLine(n),
			fmt.Sprintf("Dangerous function '%s()' detected - can execute arbitrary code", name)))
		return true
	})
	return out
}

// pickleLoad flags pickle deserialization: bare loads() calls and
// pickle.loads() attribute calls.
type pickleLoad struct{}

func (r *pickleLoad) Name() string                { return "pickle-load" }
func (r *pickleLoad) Category() findings.Category { return findings.Security }

func (r *pickleLoad) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	pysrc.Walk(f.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "call" {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil {
			return true
		}

		matched := false
		switch fn.Kind() {
		case "identifier":
			matched = f.Text(fn) == "loads"
		case "attribute":
			attr := fn.ChildByFieldName("attribute")
			obj := fn.ChildByFieldName("object")
			matched = attr != nil && f.Text(attr) == "loads" &&
				obj != nil && obj.Kind() == "identifier" && f.Text(obj) == "pickle"
		}
		if matched {
			out = append(out, raw(f, pysrc.NodeLine(n),
				"Use of pickle.loads() can execute arbitrary code from untrusted data"))
		}
		return true
	})
	return out
}

// shellCommand flags .system() calls (os.system and lookalikes).
type shellCommand struct{}

func (r *shellCommand) Name() string                { return "shell-command" }
func (r *shellCommand) Category() findings.Category { return findings.Security }

func (r *shellCommand) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	pysrc.Walk(f.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "call" {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Kind() != "attribute" {
			return true
		}
		attr := fn.ChildByFieldName("attribute")
		if attr == nil || f.Text(attr) != "system" {
			return true
		}
		out = append(out, raw(f, pysrc.NodeLine(n),
			"os.system() is unsafe - use subprocess with proper argument handling"))
		return true
	})
	return out
}

// subprocessShell flags Popen/call/run invocations with shell=True.
type subprocessShell struct{}

func (r *subprocessShell) Name() string                { return "subprocess-shell" }
func (r *subprocessShell) Category() findings.Category { return findings.Security }

func (r *subprocessShell) Match(f *pysrc.File) []findings.Raw {
	var out []findings.Raw
	pysrc.Walk(f.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "call" {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Kind() != "attribute" {
			return true
		}
		attr := fn.ChildByFieldName("attribute")
		if attr == nil {
			return true
		}
		switch f.Text(attr) {
		case "Popen", "call", "run":
		default:
			return true
		}
		if !shellTrueArg(f, n.ChildByFieldName("arguments")) {
			return true
		}
		out = append(out, raw(f, pysrc.NodeLine(n),
			"subprocess with shell=True is vulnerable to injection attacks"))
		return true
	})
	return out
}

func shellTrueArg(f *pysrc.File, args *sitter.Node) bool {
	if args == nil {
		return false
	}
	for i := range args.NamedChildCount() {
		kw := args.NamedChild(i)
		if kw.Kind() != "keyword_argument" {
			continue
		}
		name := kw.ChildByFieldName("name")
		value := kw.ChildByFieldName("value")
		if name != nil && value != nil && f.Text(name) == "shell" && value.Kind() == "true" {
			return true
		}
	}
	return false
}
