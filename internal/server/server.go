package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/prathamc00/AI-Code-Reviewer/internal/config"
	"github.com/prathamc00/AI-Code-Reviewer/internal/engine"
	"github.com/prathamc00/AI-Code-Reviewer/internal/logging"
	"github.com/prathamc00/AI-Code-Reviewer/internal/report"
	"github.com/prathamc00/AI-Code-Reviewer/internal/source"
)

// Server wraps the MCP server and connects it to the review engine.
type Server struct {
	mcp *mcp.Server
	eng *engine.Engine
	cfg *config.Config
	dir *source.DirProvider
	gh  *source.GitHubProvider
	log *zap.SugaredLogger
}

// New creates an MCP server wired to the given engine.
func New(eng *engine.Engine, cfg *config.Config) (*Server, error) {
	s := &Server{
		eng: eng,
		cfg: cfg,
		dir: source.NewDir(cfg.Source.Ignore),
		gh:  source.NewGitHub(cfg.GitHub.APIBase, cfg.GitHubToken),
		log: logging.Named("server"),
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "aicr",
		Version: "0.1.0",
	}, nil)

	s.mcp = mcpServer
	s.registerResources()
	s.registerTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.log.Infow("starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// registerResources adds MCP resources for review results.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         "review://latest/report",
		Name:        "Latest Review Report",
		Description: "Complete JSON report from the most recent review run",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		rep := s.eng.LastReport()
		if rep == nil {
			return nil, fmt.Errorf("no review available (run review_path or review_repository first)")
		}
		text, err := report.JSON(rep)
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: text, MIMEType: "application/json"},
			},
		}, nil
	})
}

// reviewPathArgs are the arguments for the review_path tool.
type reviewPathArgs struct {
	Path string `json:"path" jsonschema:"required,Path to a local directory or Python file to review"`
}

// reviewRepositoryArgs are the arguments for the review_repository tool.
type reviewRepositoryArgs struct {
	URL string `json:"url" jsonschema:"required,GitHub repository or pull request URL"`
}

// registerTools adds MCP tools for running reviews.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "review_path",
		Description: "Review the Python files under a local path. Runs static analysis rules, enhances findings with LLM explanations, and returns the full JSON report.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args reviewPathArgs) (*mcp.CallToolResult, any, error) {
		if args.Path == "" {
			return errorResult("path is required"), nil, nil
		}

		files, err := s.dir.Fetch(ctx, args.Path)
		if err != nil {
			return errorResult(fmt.Sprintf("fetching files: %v", err)), nil, nil
		}
		return s.runReview(ctx, args.Path, files)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "review_repository",
		Description: "Review a GitHub repository or pull request by URL. Fetches the Python files, runs static analysis rules, enhances findings with LLM explanations, and returns the full JSON report.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args reviewRepositoryArgs) (*mcp.CallToolResult, any, error) {
		if args.URL == "" {
			return errorResult("url is required"), nil, nil
		}
		if !source.IsGitHubURL(args.URL) {
			return errorResult(fmt.Sprintf("not a GitHub repository or pull request URL: %s", args.URL)), nil, nil
		}

		files, err := s.gh.Fetch(ctx, args.URL)
		if err != nil {
			return errorResult(fmt.Sprintf("fetching files: %v", err)), nil, nil
		}
		return s.runReview(ctx, args.URL, files)
	})
}

// runReview runs the pipeline and renders the report as tool output.
func (s *Server) runReview(ctx context.Context, target string, files []source.File) (*mcp.CallToolResult, any, error) {
	rep, err := s.eng.Review(ctx, target, files)
	if err != nil {
		return errorResult(fmt.Sprintf("review failed: %v", err)), nil, nil
	}

	text, err := report.JSON(rep)
	if err != nil {
		return errorResult(fmt.Sprintf("encoding report: %v", err)), nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
