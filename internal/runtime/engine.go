// Package runtime is the state machine at the heart of the pipeline. The
// four nodes each propose their own successor; the engine validates every
// hop against the transition table and enforces the rectification ceiling
// so a run can never cycle unboundedly.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lmeira/codemend/internal/logging"
	"github.com/lmeira/codemend/internal/rectifier"
	"github.com/lmeira/codemend/pkg/domain"
	"github.com/lmeira/codemend/pkg/ports"
)

// maxSteps is a hard fuse on node invocations per run. The rectification
// ceiling alone already bounds the cycle count; the fuse covers the case
// of a buggy node proposing tokens the table would otherwise accept.
const maxSteps = 16

// transitions is the legal hop table: from-node -> allowed routing tokens.
var transitions = map[string]map[string]bool{
	domain.NodeGenerator: {
		domain.NodeSyntax: true,
		domain.NodeEnd:    true,
	},
	domain.NodeSyntax: {
		domain.NodeExecutor:  true,
		domain.NodeRectifier: true,
		domain.NodeEnd:       true,
	},
	domain.NodeRectifier: {
		domain.NodeSyntax:    true,
		domain.NodeGenerator: true,
		domain.NodeEnd:       true,
	},
	domain.NodeExecutor: {
		domain.NodeRectifier: true,
		domain.NodeEnd:       true,
	},
}

// node is a pure step of the pipeline: state in, delta out. Nodes never
// mutate the state they receive.
type node interface {
	run(ctx context.Context, state domain.State) domain.Delta
}

// Engine drives one run of the pipeline at a time. It is safe for
// concurrent use: each Run owns its state value, and the injected
// collaborators are required to be concurrency safe.
type Engine struct {
	nodes  map[string]node
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine wires the four pipeline nodes. backend is the execution
// strategy chosen by the caller: the CLI passes the isolated session
// backend, a request-serving host passes the restricted evaluator.
func NewEngine(model ports.ModelClient, linter ports.Linter, format Formatter, backend ports.ExecutionBackend, opts ...Option) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	rect := rectifier.New(model, rectifier.WithLogger(e.logger))

	e.nodes = map[string]node{
		domain.NodeGenerator: &generatorNode{model: model, logger: e.logger},
		domain.NodeSyntax:    &syntaxNode{linter: linter, format: format, logger: e.logger},
		domain.NodeRectifier: &rectifierNode{engine: rect, logger: e.logger},
		domain.NodeExecutor:  &executorNode{backend: backend, logger: e.logger},
	}
	return e
}

// Run drives the state machine from code_generator to end and returns the
// terminal state. It never panics or returns an error: every failure is
// folded into the state so the finalizer can report it.
func (e *Engine) Run(ctx context.Context, runID, prompt, requirements string) domain.State {
	start := time.Now()
	logger := e.logger.With("run_id", runID)

	state := domain.NewState(runID, prompt, requirements)

	for steps := 0; state.CurrentNode != domain.NodeEnd; steps++ {
		if steps >= maxSteps {
			logger.Error("step fuse blown, forcing termination", "steps", steps)
			state = domain.Delta{
				Execution: &domain.ExecutionResult{
					Success: false,
					Error:   "workflow exceeded the maximum number of node invocations",
				},
				Next: domain.NodeEnd,
			}.Apply(state)
			break
		}

		from := state.CurrentNode
		e.emitNodeEnter(ctx, runID, from)
		logger.Debug("entering node", "node", from)

		delta := e.step(ctx, from, state)
		delta.Next = e.route(from, state, delta)

		state = delta.Apply(state)

		e.emitNodeLeave(ctx, runID, from)
		logger.Debug("leaving node", "node", from, "next", state.CurrentNode)
	}

	e.emitRunEnd(ctx, &state, time.Since(start))
	return state
}

// step runs one node, converting a panic into a terminal failure delta.
func (e *Engine) step(ctx context.Context, id string, state domain.State) (delta domain.Delta) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("node panicked", "node", id, "panic", r)
			delta = domain.Delta{
				Execution: &domain.ExecutionResult{
					Success: false,
					Error:   fmt.Sprintf("internal error in %s: %v", id, r),
				},
				Next: domain.NodeEnd,
			}
		}
	}()

	n, ok := e.nodes[id]
	if !ok {
		return domain.Delta{Next: domain.NodeEnd}
	}
	return n.run(ctx, state)
}

// route validates the proposed token and applies the termination guard at
// the rectifier exit.
func (e *Engine) route(from string, state domain.State, delta domain.Delta) string {
	token := delta.Next
	if token == "" {
		token = domain.NodeEnd
	}

	if from == domain.NodeRectifier {
		attempts := state.RectificationAttempts
		if delta.RectificationAttempts != nil {
			attempts = *delta.RectificationAttempts
		}
		if attempts >= domain.MaxRectifications {
			return domain.NodeEnd
		}
	}

	if !transitions[from][token] {
		e.logger.Warn("node proposed an illegal transition", "from", from, "token", token)
		return domain.NodeEnd
	}
	return token
}

func (e *Engine) emitNodeEnter(ctx context.Context, runID, nodeID string) {
	if e.hooks.OnNodeEnter != nil {
		e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
			Timestamp: time.Now(),
			RunID:     runID,
			NodeID:    nodeID,
		})
	}
}

func (e *Engine) emitNodeLeave(ctx context.Context, runID, nodeID string) {
	if e.hooks.OnNodeLeave != nil {
		e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
			Timestamp: time.Now(),
			RunID:     runID,
			NodeID:    nodeID,
		})
	}
}

func (e *Engine) emitRunEnd(ctx context.Context, state *domain.State, elapsed time.Duration) {
	if e.hooks.OnRunEnd == nil {
		return
	}
	status := domain.StatusFailed
	if state.Execution.Success || (!state.Executed && state.ActiveCode() != "" && state.Execution.Error == "") {
		status = domain.StatusCompleted
	}
	e.hooks.OnRunEnd(ctx, &domain.RunEvent{
		Timestamp: time.Now(),
		RunID:     state.RunID,
		Status:    status,
		Attempts:  state.RectificationAttempts,
		Duration:  elapsed,
	})
}
