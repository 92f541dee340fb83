package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/prathamc00/AI-Code-Reviewer/internal/config"
	"github.com/prathamc00/AI-Code-Reviewer/internal/engine"
	"github.com/prathamc00/AI-Code-Reviewer/internal/rules/security"
	"github.com/prathamc00/AI-Code-Reviewer/internal/source"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	eng := engine.New(cfg, nil)
	eng.RegisterRules(security.Rules()...)

	srv, err := New(eng, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func TestNew(t *testing.T) {
	srv := newTestServer(t)
	if srv.mcp == nil {
		t.Error("MCP server not constructed")
	}
	if srv.dir == nil || srv.gh == nil {
		t.Error("source providers not constructed")
	}
}

func TestRunReview_RendersReportJSON(t *testing.T) {
	srv := newTestServer(t)

	files := []source.File{{Path: "app.py", Content: "result = eval(user_input)\n"}}
	res, _, err := srv.runReview(context.Background(), "local", files)
	if err != nil {
		t.Fatalf("runReview: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res.Content)
	}

	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] = %T, want TextContent", res.Content[0])
	}

	var rep struct {
		RepoURL     string `json:"repo_url"`
		TotalIssues int    `json:"total_issues"`
		Findings    []struct {
			Category string `json:"category"`
			Line     int    `json:"line"`
		} `json:"findings"`
	}
	if err := json.Unmarshal([]byte(text.Text), &rep); err != nil {
		t.Fatalf("tool output is not valid JSON: %v", err)
	}
	if rep.RepoURL != "local" {
		t.Errorf("repo_url = %q", rep.RepoURL)
	}
	if rep.TotalIssues != 1 {
		t.Fatalf("total_issues = %d, want 1", rep.TotalIssues)
	}
	if rep.Findings[0].Category != "Security" || rep.Findings[0].Line != 1 {
		t.Errorf("finding = %+v", rep.Findings[0])
	}
}

func TestErrorResult(t *testing.T) {
	res := errorResult("something broke")
	if !res.IsError {
		t.Error("IsError not set")
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] = %T, want TextContent", res.Content[0])
	}
	if text.Text != "something broke" {
		t.Errorf("text = %q", text.Text)
	}
}
