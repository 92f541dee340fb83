package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prathamc00/AI-Code-Reviewer/internal/config"
	"github.com/prathamc00/AI-Code-Reviewer/internal/engine"
	"github.com/prathamc00/AI-Code-Reviewer/internal/enhance"
	"github.com/prathamc00/AI-Code-Reviewer/internal/logging"
	"github.com/prathamc00/AI-Code-Reviewer/internal/rules/performance"
	"github.com/prathamc00/AI-Code-Reviewer/internal/rules/quality"
	"github.com/prathamc00/AI-Code-Reviewer/internal/rules/security"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:           "aicr",
		Short:         "AI-assisted code review for Python repositories and pull requests",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newReviewCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the aicr version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("aicr %s\n", version)
		},
	}
}

// newEngine builds the review engine with every rule family
// registered. Config decides which families actually run.
func newEngine(cfg *config.Config) *engine.Engine {
	eng := engine.New(cfg, newGenerator(cfg))
	eng.RegisterRules(security.Rules()...)
	eng.RegisterRules(performance.Rules()...)
	eng.RegisterRules(quality.Rules()...)
	return eng
}

// newGenerator returns the Gemini generator, or nil when no API key
// is configured. Running without one is allowed: findings then carry
// fallback explanations.
func newGenerator(cfg *config.Config) enhance.Generator {
	if cfg.GeminiAPIKey == "" {
		logging.L().Warnw("GEMINI_API_KEY not set, running with enhancement disabled")
		return nil
	}
	gen, err := enhance.NewGemini(cfg.GeminiAPIKey, cfg.Enhance.Model)
	if err != nil {
		logging.L().Warnw("gemini unavailable, running with enhancement disabled", "error", err)
		return nil
	}
	return gen
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
