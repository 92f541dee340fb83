package quality

import (
	"fmt"
	"strings"
	"testing"

	"github.com/prathamc00/AI-Code-Reviewer/internal/findings"
	"github.com/prathamc00/AI-Code-Reviewer/internal/pysrc"
	"github.com/prathamc00/AI-Code-Reviewer/internal/rules"
)

func match(t *testing.T, name, content string) []findings.Raw {
	t.Helper()
	reg := rules.NewRegistry()
	reg.Register(Rules()...)
	rule := reg.Get(name)
	if rule == nil {
		t.Fatalf("rule %q not registered", name)
	}

	f := pysrc.Parse("test.py", content)
	defer f.Close()
	return rule.Match(f)
}

func TestRules_AllCodeQualityCategory(t *testing.T) {
	for _, r := range Rules() {
		if r.Category() != findings.CodeQuality {
			t.Errorf("rule %s category = %q, want CodeQuality", r.Name(), r.Category())
		}
	}
}

func TestLongFunction(t *testing.T) {
	content := "def big():\n" + strings.Repeat("    value = 1\n", 51)
	got := match(t, "long-function", content)
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(got), got)
	}
	if got[0].Line != 1 {
		t.Errorf("line = %d, want 1", got[0].Line)
	}
	if got[0].Issue != "Function 'big' is too long (51 lines) - consider breaking it down" {
		t.Errorf("issue = %q", got[0].Issue)
	}
	if got[0].CodeSnippet != "def big(...)" {
		t.Errorf("snippet = %q", got[0].CodeSnippet)
	}
}

func TestLongFunction_FiftyLinesClean(t *testing.T) {
	content := "def big():\n" + strings.Repeat("    value = 1\n", 50)
	if got := match(t, "long-function", content); len(got) != 0 {
		t.Errorf("got %d findings, want 0: %v", len(got), got)
	}
}

func TestMissingDocstring(t *testing.T) {
	content := `def documented():
    """Does things."""
    return 1

def bare():
    return 2

def _internal():
    return 3
`
	got := match(t, "missing-docstring", content)
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(got), got)
	}
	if got[0].Line != 5 {
		t.Errorf("line = %d, want 5", got[0].Line)
	}
	if got[0].Issue != "Function 'bare' is missing a docstring" {
		t.Errorf("issue = %q", got[0].Issue)
	}
}

func TestManyParameters(t *testing.T) {
	content := "def configure(host, port, user, password, timeout=30, retries=3):\n    pass\n"
	got := match(t, "many-parameters", content)
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(got), got)
	}
	if got[0].Issue != "Function 'configure' has too many parameters (6) - consider using a config object" {
		t.Errorf("issue = %q", got[0].Issue)
	}
}

func TestManyParameters_SplatsNotCounted(t *testing.T) {
	content := "def call(one, two, three, four, five, *args, **kwargs):\n    pass\n"
	if got := match(t, "many-parameters", content); len(got) != 0 {
		t.Errorf("got %d findings, want 0: %v", len(got), got)
	}
}

func TestHighComplexity(t *testing.T) {
	// 1 + 5 if statements + 5 boolean operators = 11.
	content := "def decide(a, b):\n" + strings.Repeat("    if a and b:\n        x = 1\n", 5)
	got := match(t, "high-complexity", content)
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(got), got)
	}
	if got[0].Issue != "Function 'decide' has high cyclomatic complexity (11) - consider simplifying" {
		t.Errorf("issue = %q", got[0].Issue)
	}
}

func TestHighComplexity_FewBranchesClean(t *testing.T) {
	content := `def simple(a):
    if a:
        return 1
    elif a is None:
        return -1
    return 0
`
	if got := match(t, "high-complexity", content); len(got) != 0 {
		t.Errorf("got %d findings, want 0: %v", len(got), got)
	}
}

func TestClassDocstring(t *testing.T) {
	content := `class Documented:
    """Has one."""

class Bare:
    def run(self):
        pass

class _Hidden:
    pass
`
	got := match(t, "class-docstring", content)
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(got), got)
	}
	if got[0].Line != 4 {
		t.Errorf("line = %d, want 4", got[0].Line)
	}
	if got[0].Issue != "Class 'Bare' is missing a docstring" {
		t.Errorf("issue = %q", got[0].Issue)
	}
	if got[0].CodeSnippet != "class Bare:" {
		t.Errorf("snippet = %q", got[0].CodeSnippet)
	}
}

func TestLargeClass(t *testing.T) {
	var b strings.Builder
	b.WriteString("class Giant:\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "    def method%d(self):\n        pass\n", i)
	}
	b.WriteString("    @property\n    def tail(self):\n        return 1\n")

	got := match(t, "large-class", b.String())
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(got), got)
	}
	if got[0].Issue != "Class 'Giant' has too many methods (21) - consider splitting into multiple classes" {
		t.Errorf("issue = %q", got[0].Issue)
	}
}

func TestLargeClass_TwentyMethodsClean(t *testing.T) {
	var b strings.Builder
	b.WriteString("class Wide:\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "    def method%d(self):\n        pass\n", i)
	}

	if got := match(t, "large-class", b.String()); len(got) != 0 {
		t.Errorf("got %d findings, want 0: %v", len(got), got)
	}
}

func TestShortName(t *testing.T) {
	content := "total = q * 2\n"
	got := match(t, "short-name", content)
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(got), got)
	}
	if got[0].Line != 1 {
		t.Errorf("line = %d, want 1", got[0].Line)
	}
	if got[0].Issue != "Single-letter variable name 'q' - use descriptive names" {
		t.Errorf("issue = %q", got[0].Issue)
	}
	if got[0].CodeSnippet != "total = q * 2" {
		t.Errorf("snippet = %q", got[0].CodeSnippet)
	}
}

func TestShortName_AllowedNamesClean(t *testing.T) {
	content := `for i in range(10):
    x = i * 2
`
	if got := match(t, "short-name", content); len(got) != 0 {
		t.Errorf("got %d findings, want 0: %v", len(got), got)
	}
}

func TestShortName_DefinitionPositionsExempt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"function and parameter names", "def f(a, b=2):\n    return 1\n"},
		{"attribute and keyword names", "obj.m(n=3)\n"},
		{"import name", "import a\n"},
		{"exception alias", "try:\n    pass\nexcept ValueError as e:\n    pass\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := match(t, "short-name", tt.content); len(got) != 0 {
				t.Errorf("got %d findings, want 0: %v", len(got), got)
			}
		})
	}
}
