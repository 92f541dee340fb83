package enhance

import (
	"fmt"
	"strings"

	"github.com/prathamc00/AI-Code-Reviewer/internal/findings"
)

const systemPrompt = "You are a senior software engineer conducting a code review. " +
	"Provide clear, actionable feedback."

// buildBatchPrompt renders one prompt covering every finding in the
// batch. Findings are numbered from 0 so responses can carry an
// explicit index.
func buildBatchPrompt(batch []findings.Raw) string {
	var b strings.Builder

	b.WriteString("You are reviewing Python code. A static analysis tool detected the following issues:\n")
	for i, f := range batch {
		fmt.Fprintf(&b, "\n### Finding %d\n", i)
		fmt.Fprintf(&b, "**File:** %s\n", f.File)
		fmt.Fprintf(&b, "**Line:** %d\n", f.Line)
		fmt.Fprintf(&b, "**Issue:** %s\n", f.Issue)
		fmt.Fprintf(&b, "**Category:** %s\n", f.Category)

		b.WriteString("**Code Snippet:**\n```python\n")
		b.WriteString(f.CodeSnippet)
		b.WriteString("\n```\n")

		context := f.Context
		if context == "" {
			context = "No additional context"
		}
		b.WriteString("**Context:**\n```python\n")
		b.WriteString(context)
		b.WriteString("\n```\n")
	}

	b.WriteString("\nFor every finding provide:\n")
	b.WriteString("1. explanation: why this is a problem and the potential consequences.\n")
	b.WriteString("2. suggested_fix: a specific code example showing how to fix the issue.\n")
	b.WriteString("3. severity: an integer from 1-5 (1=minor, 5=critical).\n\n")
	b.WriteString("Respond with ONLY a JSON array containing one object per finding, ")
	b.WriteString("in the same order, where index is the finding number:\n")
	b.WriteString("```json\n")
	b.WriteString(`[{"index": 0, "explanation": "...", "suggested_fix": "...", "severity": 3}]`)
	b.WriteString("\n```\n")

	return b.String()
}
