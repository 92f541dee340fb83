package enhance

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/prathamc00/AI-Code-Reviewer/internal/findings"
)

// Fallback text used whenever the generation service produced nothing
// usable for a field or a whole batch.
const (
	FallbackExplanation = "No explanation available."
	FallbackFix         = "No fix suggested."
)

// payload is one enhancement object as produced by the model. Index
// is optional; Severity stays raw so numbers, strings and garbage can
// all be coerced downstream.
type payload struct {
	Index        *int            `json:"index"`
	Explanation  string          `json:"explanation"`
	SuggestedFix string          `json:"suggested_fix"`
	Severity     json.RawMessage `json:"severity"`
}

// parsePayloads pulls enhancement objects out of a model response.
// The response may wrap the JSON in a markdown fence or surround it
// with prose; a single bare object counts as a one-element array.
func parsePayloads(content string) ([]payload, error) {
	text := extractJSON(content)

	var list []payload
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		return list, nil
	}

	var single payload
	if err := json.Unmarshal([]byte(text), &single); err == nil {
		return []payload{single}, nil
	}

	// Last resort: take the outermost bracketed span from the raw
	// response.
	if span, ok := bracketSpan(content, '[', ']'); ok {
		if err := json.Unmarshal([]byte(span), &list); err == nil {
			return list, nil
		}
	}
	if span, ok := bracketSpan(content, '{', '}'); ok {
		if err := json.Unmarshal([]byte(span), &single); err == nil {
			return []payload{single}, nil
		}
	}

	return nil, errors.New("response contains no parseable JSON")
}

// extractJSON strips a markdown code fence if one is present.
func extractJSON(content string) string {
	if start := strings.Index(content, "```json"); start >= 0 {
		rest := content[start+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if start := strings.Index(content, "```"); start >= 0 {
		rest := content[start+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(content)
}

func bracketSpan(content string, open, close byte) (string, bool) {
	start := strings.IndexByte(content, open)
	end := strings.LastIndexByte(content, close)
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}

// coerceSeverity turns whatever the model put in the severity field
// into a valid severity. Numbers and numeric strings are truncated
// and clamped; anything else becomes fallback.
func coerceSeverity(raw json.RawMessage, fallback int) int {
	if len(raw) == 0 {
		return fallback
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return findings.ClampSeverity(int(num))
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if num, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			return findings.ClampSeverity(int(num))
		}
	}

	return fallback
}

func textOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
