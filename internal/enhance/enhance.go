package enhance

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/prathamc00/AI-Code-Reviewer/internal/findings"
	"github.com/prathamc00/AI-Code-Reviewer/internal/logging"
)

// Config controls batching, concurrency and failure policy. Zero
// values mean defaults; see withDefaults for the bounds.
type Config struct {
	// BatchSize is the number of findings per generation call, 1-25.
	BatchSize int
	// Concurrency bounds the number of in-flight generation calls.
	Concurrency int
	// Timeout applies to each generation attempt.
	Timeout time.Duration
	// Retries is the number of extra attempts after a transient
	// failure.
	Retries int
	// FallbackSeverity is assigned whenever the service cannot
	// produce one.
	FallbackSeverity int
}

func (c Config) withDefaults() Config {
	if c.BatchSize < 1 {
		c.BatchSize = 5
	}
	if c.BatchSize > 25 {
		c.BatchSize = 25
	}
	if c.Concurrency < 1 {
		c.Concurrency = 4
	}
	if c.Concurrency > 16 {
		c.Concurrency = 16
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.FallbackSeverity == 0 {
		c.FallbackSeverity = findings.SeverityDefault
	}
	c.FallbackSeverity = findings.ClampSeverity(c.FallbackSeverity)
	return c
}

// Service enhances findings in batches through a Generator.
type Service struct {
	gen Generator
	cfg Config
	log *zap.SugaredLogger
}

// New builds an enhancement service. A nil generator disables
// enhancement entirely: every finding gets fallback values.
func New(gen Generator, cfg Config) *Service {
	return &Service{
		gen: gen,
		cfg: cfg.withDefaults(),
		log: logging.Named("enhance"),
	}
}

// Enhance produces exactly one enhanced finding per raw finding, in
// the same order. It never fails: batches that cannot be enhanced
// degrade to fallback values instead.
func (s *Service) Enhance(ctx context.Context, raw []findings.Raw) []findings.Enhanced {
	if len(raw) == 0 {
		return []findings.Enhanced{}
	}
	if s.gen == nil {
		s.log.Debugw("no generator configured, using fallbacks", "findings", len(raw))
		return s.fallbackAll(raw)
	}

	batches := splitBatches(raw, s.cfg.BatchSize)
	results := make([][]findings.Enhanced, len(batches))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.Concurrency)
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []findings.Raw) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = s.enhanceBatch(ctx, i, batch)
		}(i, batch)
	}
	wg.Wait()

	out := make([]findings.Enhanced, 0, len(raw))
	for _, batch := range results {
		out = append(out, batch...)
	}
	return out
}

func splitBatches(raw []findings.Raw, size int) [][]findings.Raw {
	var batches [][]findings.Raw
	for start := 0; start < len(raw); start += size {
		end := start + size
		if end > len(raw) {
			end = len(raw)
		}
		batches = append(batches, raw[start:end])
	}
	return batches
}

func (s *Service) enhanceBatch(ctx context.Context, batchNum int, batch []findings.Raw) []findings.Enhanced {
	req := Request{System: systemPrompt, Prompt: buildBatchPrompt(batch)}

	var content string
	err := retryTransient(ctx, s.cfg.Retries, func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
		var callErr error
		content, callErr = s.gen.Generate(callCtx, req)
		return callErr
	})
	if err != nil {
		s.log.Warnw("batch enhancement failed",
			"batch", batchNum, "findings", len(batch), "error", err)
		return s.fallbackAll(batch)
	}

	payloads, err := parsePayloads(content)
	if err != nil {
		s.log.Warnw("unparseable enhancement response",
			"batch", batchNum, "findings", len(batch), "error", err)
		return s.fallbackAll(batch)
	}
	return s.align(batch, payloads)
}

// align pairs payloads with findings, honoring explicit indexes first
// and filling the rest positionally. Unmatched findings degrade to
// fallback values; surplus payloads are dropped.
func (s *Service) align(batch []findings.Raw, payloads []payload) []findings.Enhanced {
	out := make([]findings.Enhanced, len(batch))
	matched := make([]bool, len(batch))

	var positional []payload
	for _, p := range payloads {
		if p.Index != nil {
			if i := *p.Index; i >= 0 && i < len(batch) && !matched[i] {
				out[i] = s.apply(batch[i], p)
				matched[i] = true
			}
			continue
		}
		positional = append(positional, p)
	}

	next := 0
	for i := range batch {
		if matched[i] {
			continue
		}
		if next < len(positional) {
			out[i] = s.apply(batch[i], positional[next])
			next++
		} else {
			out[i] = s.fallback(batch[i])
		}
	}
	return out
}

func (s *Service) apply(f findings.Raw, p payload) findings.Enhanced {
	return findings.Enhanced{
		Raw:          f,
		Explanation:  textOr(p.Explanation, FallbackExplanation),
		SuggestedFix: textOr(p.SuggestedFix, FallbackFix),
		Severity:     coerceSeverity(p.Severity, s.cfg.FallbackSeverity),
	}
}

func (s *Service) fallback(f findings.Raw) findings.Enhanced {
	return findings.Enhanced{
		Raw:          f,
		Explanation:  FallbackExplanation,
		SuggestedFix: FallbackFix,
		Severity:     s.cfg.FallbackSeverity,
	}
}

func (s *Service) fallbackAll(batch []findings.Raw) []findings.Enhanced {
	out := make([]findings.Enhanced, len(batch))
	for i, f := range batch {
		out[i] = s.fallback(f)
	}
	return out
}
