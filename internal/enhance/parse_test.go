package enhance

import (
	"encoding/json"
	"testing"
)

func TestParsePayloads(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{
			"plain array",
			`[{"explanation": "a"}, {"explanation": "b"}]`,
			2,
		},
		{
			"json fence",
			"```json\n[{\"explanation\": \"a\"}]\n```",
			1,
		},
		{
			"bare fence",
			"```\n[{\"explanation\": \"a\"}, {\"explanation\": \"b\"}]\n```",
			2,
		},
		{
			"single object",
			`{"explanation": "a", "severity": 3}`,
			1,
		},
		{
			"array wrapped in prose",
			`Here are the results: [{"explanation": "a"}] Hope that helps!`,
			1,
		},
		{
			"object wrapped in prose",
			`Sure! {"explanation": "a"} Let me know.`,
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePayloads(tt.content)
			if err != nil {
				t.Fatalf("parsePayloads: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d payloads, want %d", len(got), tt.want)
			}
		})
	}
}

func TestParsePayloads_KeepsFields(t *testing.T) {
	content := `[{"index": 2, "explanation": "why", "suggested_fix": "how", "severity": 4}]`
	got, err := parsePayloads(content)
	if err != nil {
		t.Fatalf("parsePayloads: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d payloads, want 1", len(got))
	}
	p := got[0]
	if p.Index == nil || *p.Index != 2 {
		t.Errorf("index = %v, want 2", p.Index)
	}
	if p.Explanation != "why" || p.SuggestedFix != "how" {
		t.Errorf("fields = %q, %q", p.Explanation, p.SuggestedFix)
	}
}

func TestParsePayloads_NoJSON(t *testing.T) {
	if _, err := parsePayloads("I cannot help with that."); err == nil {
		t.Error("expected error for response without JSON")
	}
}

func TestCoerceSeverity(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"integer", `4`, 4},
		{"float truncated", `4.7`, 4},
		{"above range clamped", `9`, 5},
		{"below range clamped", `0`, 1},
		{"numeric string", `"3"`, 3},
		{"padded numeric string", `" 2 "`, 2},
		{"word", `"high"`, 3},
		{"object", `{"level": 2}`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceSeverity(json.RawMessage(tt.raw), 3)
			if got != tt.want {
				t.Errorf("coerceSeverity(%s) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCoerceSeverity_MissingUsesFallback(t *testing.T) {
	if got := coerceSeverity(nil, 2); got != 2 {
		t.Errorf("coerceSeverity(nil) = %d, want 2", got)
	}
}

func TestTextOr(t *testing.T) {
	if got := textOr("", "fallback"); got != "fallback" {
		t.Errorf("empty = %q", got)
	}
	if got := textOr("   ", "fallback"); got != "fallback" {
		t.Errorf("blank = %q", got)
	}
	if got := textOr("keep", "fallback"); got != "keep" {
		t.Errorf("text = %q", got)
	}
}
