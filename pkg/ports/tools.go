package ports

import "context"

// Linter checks code style and syntax, returning one diagnostic per line.
// An unavailable linter returns (nil, nil): linting is best effort and its
// absence is never fatal.
type Linter interface {
	Lint(ctx context.Context, code string) ([]string, error)
}

// Formatter reformats code. Formatters are tried in a fallback chain;
// Available reports whether the underlying tool can run at all so the chain
// can skip to the next provider without spawning a doomed process.
type Formatter interface {
	Name() string
	Available() bool
	Format(ctx context.Context, code string) (string, error)
}
