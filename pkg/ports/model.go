package ports

import "context"

// ModelClient is the language model collaborator: prompt text in, response
// text out. Implementations must be safe for concurrent use and must honor
// context cancellation.
type ModelClient interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// ModelFunc adapts a plain function to the ModelClient interface.
type ModelFunc func(ctx context.Context, prompt string) (string, error)

func (f ModelFunc) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
