// Package llm defines the text-generation capability used for extraction and summaries.
package llm

import "context"

// Generator returns free text for a system instruction and a single user message.
// Implementations report transport and provider failures as errors and never return partial output.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, system, user string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}
