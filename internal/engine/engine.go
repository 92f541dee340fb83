package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/prathamc00/AI-Code-Reviewer/internal/config"
	"github.com/prathamc00/AI-Code-Reviewer/internal/enhance"
	"github.com/prathamc00/AI-Code-Reviewer/internal/findings"
	"github.com/prathamc00/AI-Code-Reviewer/internal/logging"
	"github.com/prathamc00/AI-Code-Reviewer/internal/pysrc"
	"github.com/prathamc00/AI-Code-Reviewer/internal/report"
	"github.com/prathamc00/AI-Code-Reviewer/internal/rules"
	"github.com/prathamc00/AI-Code-Reviewer/internal/source"
)

// maxConcurrency bounds parallel file evaluation.
const maxConcurrency = 4

// Engine orchestrates the review pipeline.
type Engine struct {
	cfg      *config.Config
	rules    *rules.Registry
	enhancer *enhance.Service
	log      *zap.SugaredLogger

	mu   sync.Mutex
	last *report.Report
}

// New creates an Engine with the given config and generator. Rules
// must be registered after creation. gen may be nil, which disables
// enhancement.
func New(cfg *config.Config, gen enhance.Generator) *Engine {
	return &Engine{
		cfg:   cfg,
		rules: rules.NewRegistry(),
		enhancer: enhance.New(gen, enhance.Config{
			BatchSize:        cfg.Enhance.BatchSize,
			Concurrency:      cfg.Enhance.Concurrency,
			Timeout:          time.Duration(cfg.Enhance.TimeoutSeconds) * time.Second,
			Retries:          cfg.Enhance.Retries,
			FallbackSeverity: cfg.Enhance.FallbackSeverity,
		}),
		log: logging.Named("engine"),
	}
}

// RegisterRules adds rules to the engine.
func (e *Engine) RegisterRules(rr ...rules.Rule) {
	e.rules.Register(rr...)
}

// Config returns the engine config.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// LastReport returns the most recently assembled report, or nil.
func (e *Engine) LastReport() *report.Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Review runs the full pipeline: evaluate -> aggregate -> enhance ->
// assemble. An empty file set yields an empty, valid report.
func (e *Engine) Review(ctx context.Context, repoURL string, files []source.File) (*report.Report, error) {
	start := time.Now()
	e.log.Infow("starting review", "target", repoURL, "files", len(files))

	raw := e.evaluate(files)
	e.log.Infow("rules evaluated", "raw_findings", len(raw))

	deduped, stats := findings.Aggregate(raw, len(files))
	e.log.Infow("findings aggregated",
		"findings", len(deduped), "duplicates_dropped", len(raw)-len(deduped))

	enhanced := e.enhancer.Enhance(ctx, deduped)
	stats.CountSeverities(enhanced)

	rep, err := report.Assemble(repoURL, enhanced, stats)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.last = rep
	e.mu.Unlock()

	e.log.Infow("review completed",
		"total_issues", rep.TotalIssues, "duration", time.Since(start).String())
	return rep, nil
}

// evaluate parses each file and runs every enabled rule over it.
// Files are processed concurrently; results keep file order so the
// pipeline stays deterministic.
func (e *Engine) evaluate(files []source.File) []findings.Raw {
	enabled := e.enabledRules()
	if len(enabled) == 0 || len(files) == 0 {
		return nil
	}

	results := make([][]findings.Raw, len(files))
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrency)

	for i, f := range files {
		wg.Add(1)
		go func(i int, f source.File) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = e.evaluateFile(enabled, f)
		}(i, f)
	}
	wg.Wait()

	var raw []findings.Raw
	for _, r := range results {
		raw = append(raw, r...)
	}
	return raw
}

func (e *Engine) enabledRules() []rules.Rule {
	var enabled []rules.Rule
	for _, r := range e.rules.All() {
		if e.cfg.IsRuleFamilyEnabled(familyOf(r.Category())) {
			enabled = append(enabled, r)
		}
	}
	return enabled
}

// familyOf maps a finding category to its config family name.
func familyOf(cat findings.Category) string {
	switch cat {
	case findings.Security:
		return "security"
	case findings.Performance:
		return "performance"
	default:
		return "quality"
	}
}

func (e *Engine) evaluateFile(enabled []rules.Rule, f source.File) []findings.Raw {
	pf := pysrc.Parse(f.Path, f.Content)
	defer pf.Close()

	var out []findings.Raw
	for _, r := range enabled {
		out = append(out, e.runRule(r, pf)...)
	}
	return out
}

// runRule isolates a single rule run: a panic in one rule on one file
// is logged and skipped, never fatal.
func (e *Engine) runRule(r rules.Rule, f *pysrc.File) (out []findings.Raw) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Errorw("rule panicked", "rule", r.Name(), "file", f.Path, "panic", rec)
			out = nil
		}
	}()
	return r.Match(f)
}
