package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/prathamc00/AI-Code-Reviewer/internal/config"
	"github.com/prathamc00/AI-Code-Reviewer/internal/logging"
	"github.com/prathamc00/AI-Code-Reviewer/internal/report"
	"github.com/prathamc00/AI-Code-Reviewer/internal/source"
)

type reviewFlags struct {
	configPath string
	out        string
	debug      bool
}

func newReviewCmd() *cobra.Command {
	f := &reviewFlags{}

	cmd := &cobra.Command{
		Use:   "review <path-or-github-url>",
		Short: "Review Python code and produce a JSON report",
		Long: "Review runs static analysis rules over the Python files at the given " +
			"target (a local path, a GitHub repository URL, or a pull request URL), " +
			"enhances the findings with LLM explanations, and writes the JSON report.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Config file path (default: built-in defaults)")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.BoolVar(&f.debug, "debug", false, "Enable debug logging")

	return cmd
}

func runReview(target string, f *reviewFlags) error {
	if err := logging.Init(f.debug); err != nil {
		return exitError(2, "initializing logging: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return exitError(1, "loading config: %v", err)
	}

	var provider source.Provider
	if source.IsGitHubURL(target) {
		provider = source.NewGitHub(cfg.GitHub.APIBase, cfg.GitHubToken)
	} else {
		provider = source.NewDir(cfg.Source.Ignore)
	}

	ctx := context.Background()
	files, err := provider.Fetch(ctx, target)
	if err != nil {
		return exitError(2, "fetching files: %v", err)
	}

	rep, err := newEngine(cfg).Review(ctx, target, files)
	if err != nil {
		return exitError(2, "review failed: %v", err)
	}

	if f.out != "" {
		out, err := os.Create(f.out)
		if err != nil {
			return exitError(2, "creating %s: %v", f.out, err)
		}
		defer out.Close()
		if err := report.Write(out, rep); err != nil {
			return exitError(2, "writing report: %v", err)
		}
		return nil
	}

	if err := report.Write(os.Stdout, rep); err != nil {
		return exitError(2, "writing report: %v", err)
	}
	return nil
}
