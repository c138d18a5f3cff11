// Package codemend is the high-level entry point for the code generation
// pipeline. It wraps the internal runtime and provides a simplified API
// for consumers: hand it a model client, call Run, get a report back.
package codemend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lmeira/codemend/internal/logging"
	"github.com/lmeira/codemend/internal/report"
	"github.com/lmeira/codemend/internal/runtime"
	"github.com/lmeira/codemend/pkg/adapters/pytools"
	"github.com/lmeira/codemend/pkg/adapters/sandbox"
	"github.com/lmeira/codemend/pkg/domain"
	"github.com/lmeira/codemend/pkg/ports"
)

// Engine orchestrates generation, syntax checking, execution and
// rectification for one prompt at a time. Safe for concurrent use as long
// as the injected backend is.
type Engine struct {
	runtime *runtime.Engine
	linter  ports.Linter
	format  runtime.Formatter
	backend ports.ExecutionBackend
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithBackend injects the execution backend. The default is the restricted
// evaluator; interactive callers usually inject an isolated session.
func WithBackend(backend ports.ExecutionBackend) Option {
	return func(e *Engine) {
		e.backend = backend
	}
}

// WithLinter overrides the default flake8 adapter.
func WithLinter(l ports.Linter) Option {
	return func(e *Engine) {
		e.linter = l
	}
}

// WithFormatter overrides the default black/autopep8 chain.
func WithFormatter(f runtime.Formatter) Option {
	return func(e *Engine) {
		e.format = f
	}
}

// New initializes the pipeline engine around the given model client.
func New(model ports.ModelClient, opts ...Option) (*Engine, error) {
	if model == nil {
		return nil, fmt.Errorf("a model client is required")
	}

	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.linter == nil {
		e.linter = pytools.NewFlake8(pytools.WithFlake8Logger(e.logger))
	}
	if e.format == nil {
		e.format = pytools.NewChain(e.logger,
			pytools.NewBlack(30*time.Second),
			pytools.NewAutopep8(30*time.Second))
	}
	if e.backend == nil {
		e.backend = sandbox.NewRestricted("", sandbox.WithRestrictedLogger(e.logger))
	}

	e.runtime = runtime.NewEngine(model, e.linter, e.format, e.backend,
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
	)
	return e, nil
}

// Run drives one complete pipeline pass for the prompt and returns the
// final report alongside the terminal state. It never returns an error:
// every failure is folded into the report's status and message.
func (e *Engine) Run(ctx context.Context, prompt, requirements string) (domain.Report, domain.State) {
	runID := uuid.NewString()
	state := e.runtime.Run(ctx, runID, prompt, requirements)
	return report.Finalize(state), state
}

// Backend exposes the configured execution backend, mainly so hosts can
// report which isolation level is active.
func (e *Engine) Backend() ports.ExecutionBackend {
	return e.backend
}
