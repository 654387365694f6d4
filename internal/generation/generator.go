package generation

import "context"

// Generator defines the interface for producing drafted content from a
// prompt. It is the boundary between the agents and external LLM services:
// agents depend on this interface, never on a concrete provider.
type Generator interface {
	// Generate produces content for the given prompt.
	// Returns the generated text or an error if generation fails
	// (see errors.go for specific types).
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
