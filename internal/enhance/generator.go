// Package enhance turns raw findings into reviewer-facing enhanced
// findings by calling a text-generation service in batches. The
// service's output is untrusted input: it is parsed leniently, coerced
// field by field, and replaced with fallback values whenever a batch
// cannot be enhanced. The finding count never changes on the way
// through.
package enhance

import "context"

// Request carries one enhancement call to the generation service.
type Request struct {
	System string
	Prompt string
}

// Generator is the transport boundary to the text-generation service.
// Implementations must honor ctx cancellation and deadlines and
// return the raw response text.
type Generator interface {
	// Name returns the transport identifier (e.g. "gemini", "mock").
	Name() string
	// Generate issues a single generation call.
	Generate(ctx context.Context, req Request) (string, error)
}
