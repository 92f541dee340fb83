// Package report assembles the final review artifact and renders it
// as JSON.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/prathamc00/AI-Code-Reviewer/internal/findings"
)

// ErrCountMismatch means a pipeline stage dropped or duplicated
// findings: the enhanced finding count no longer matches the
// aggregated stats. This is fatal for the run.
var ErrCountMismatch = errors.New("finding count does not match stats")

// Report is the complete result of one review run.
type Report struct {
	RepoURL     string              `json:"repo_url"`
	TotalIssues int                 `json:"total_issues"`
	Findings    []findings.Enhanced `json:"findings"`
	Stats       findings.Stats      `json:"stats"`
}

// Assemble builds the report from the enhanced findings and the stats
// computed at aggregation time. The two counts must agree.
func Assemble(repoURL string, enhanced []findings.Enhanced, stats findings.Stats) (*Report, error) {
	if len(enhanced) != stats.TotalIssues() {
		return nil, fmt.Errorf("%w: %d findings, stats total %d",
			ErrCountMismatch, len(enhanced), stats.TotalIssues())
	}
	if enhanced == nil {
		enhanced = []findings.Enhanced{}
	}
	return &Report{
		RepoURL:     repoURL,
		TotalIssues: len(enhanced),
		Findings:    enhanced,
		Stats:       stats,
	}, nil
}

// Write renders the report as indented JSON followed by a newline.
func Write(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// JSON returns the report as an indented JSON string.
func JSON(r *Report) (string, error) {
	buf, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	return string(buf), nil
}
