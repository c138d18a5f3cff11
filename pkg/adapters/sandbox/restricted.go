// Package sandbox provides the two execution backends of the pipeline: a
// fast restricted evaluator for request-serving hosts and an isolated
// interpreter session that persists state across calls.
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/lmeira/codemend/internal/logging"
	"github.com/lmeira/codemend/pkg/domain"
)

// denylist holds identifiers that must not appear in code handed to the
// restricted backend. Matching is done on executable lines only, comments
// are ignored.
var denylist = []string{
	"eval", "exec", "compile", "__import__", "open", "input",
	"globals", "locals", "vars", "dir",
	"getattr", "setattr", "delattr", "hasattr", "reload",
}

var denyRe = func() *regexp.Regexp {
	quoted := make([]string, len(denylist))
	for i, id := range denylist {
		quoted[i] = regexp.QuoteMeta(id)
	}
	return regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
}()

// restrictedHarness runs the snippet under a constrained builtin namespace.
// The snippet arrives on stdin so no shell quoting is involved.
const restrictedHarness = `
import builtins, sys, traceback

_ALLOWED = (
    "print", "len", "range", "list", "dict", "tuple", "set", "frozenset",
    "str", "int", "float", "bool", "complex", "bytes", "type", "isinstance",
    "issubclass", "enumerate", "zip", "map", "filter", "sum", "min", "max",
    "abs", "round", "sorted", "reversed", "all", "any", "divmod", "pow",
    "repr", "format", "ord", "chr", "hash", "id", "iter", "next", "slice",
    "BaseException", "Exception", "ArithmeticError", "ZeroDivisionError",
    "ValueError", "TypeError", "KeyError", "IndexError", "StopIteration",
    "RuntimeError", "NotImplementedError", "OverflowError",
)
_safe = {n: getattr(builtins, n) for n in _ALLOWED if hasattr(builtins, n)}

try:
    exec(compile(sys.stdin.read(), "<generated>", "exec"), {"__builtins__": _safe})
except BaseException:
    traceback.print_exc()
    sys.exit(1)
`

// Restricted is the in-host evaluator backend. It screens the snippet
// against the denylist before launching a locked-down interpreter, so a
// rejected snippet never executes at all. Weaker isolation than the
// session backend, but safe to call from a request-serving goroutine.
type Restricted struct {
	python  string
	timeout time.Duration
	logger  *slog.Logger
}

// RestrictedOption configures the backend.
type RestrictedOption func(*Restricted)

// WithRestrictedTimeout bounds each Execute call.
func WithRestrictedTimeout(d time.Duration) RestrictedOption {
	return func(r *Restricted) {
		r.timeout = d
	}
}

// WithRestrictedLogger sets a structured logger.
func WithRestrictedLogger(logger *slog.Logger) RestrictedOption {
	return func(r *Restricted) {
		r.logger = logger
	}
}

// NewRestricted creates the restricted evaluator. python is the
// interpreter binary ("python3" when empty).
func NewRestricted(python string, opts ...RestrictedOption) *Restricted {
	if python == "" {
		python = "python3"
	}
	r := &Restricted{
		python:  python,
		timeout: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Restricted) Name() string { return "restricted" }

// Execute screens the snippet and runs it under the harness. Failures of
// the snippet are returned inside the result, never as an error.
func (r *Restricted) Execute(ctx context.Context, code string) (domain.ExecutionResult, error) {
	start := time.Now()

	if id := screen(code); id != "" {
		return domain.ExecutionResult{
			Success:       false,
			Error:         fmt.Sprintf("Restricted function '%s' not allowed", id),
			ExecutionTime: time.Since(start),
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.python, "-I", "-c", restrictedHarness)
	cmd.Stdin = strings.NewReader(code)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = fmt.Sprintf("execution failed: %v", err)
		}
		r.logger.Debug("restricted execution failed", "err", msg)
		return domain.ExecutionResult{
			Success:       false,
			Output:        stdout.String(),
			Error:         msg,
			ExecutionTime: elapsed,
		}, nil
	}

	return domain.ExecutionResult{
		Success:       true,
		Output:        stdout.String(),
		ExecutionTime: elapsed,
	}, nil
}

// screen reports the first denylisted identifier found on an executable
// line, or "" when the snippet is clean.
func screen(code string) string {
	for _, line := range strings.Split(code, "\n") {
		executable := line
		if i := strings.Index(executable, "#"); i >= 0 {
			executable = executable[:i]
		}
		if m := denyRe.FindString(executable); m != "" {
			return m
		}
	}
	return ""
}
