// Package rectifier repairs generated code that failed linting or
// execution. Deterministic pattern fixes run first; when they cannot
// produce a confident result the language model is asked for a rewrite.
package rectifier

import (
	"context"
	"log/slog"

	"github.com/lmeira/codemend/internal/logging"
	"github.com/lmeira/codemend/pkg/domain"
	"github.com/lmeira/codemend/pkg/ports"
)

// escalationThreshold: deterministic results below this confidence are
// handed to the model.
const escalationThreshold = 0.7

// Result is the outcome of one rectification attempt.
type Result struct {
	Success    bool
	Code       string
	Changes    []string
	Analysis   domain.ErrorAnalysis
	Confidence float64
}

// Rectifier owns the fix catalog and the model escalation path.
type Rectifier struct {
	model  ports.ModelClient
	logger *slog.Logger
}

// Option configures the Rectifier.
type Option func(*Rectifier)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rectifier) {
		r.logger = logger
	}
}

// New creates a Rectifier backed by the given model client.
func New(model ports.ModelClient, opts ...Option) *Rectifier {
	r := &Rectifier{
		model:  model,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rectify analyzes the error, applies the first matching catalog fix, and
// escalates to the model when confidence stays below the threshold.
// Success means the final code is non-empty and differs from the input.
func (r *Rectifier) Rectify(ctx context.Context, code, errorMessage string) Result {
	analysis := Analyze(errorMessage)

	fixed, changes, confidence := applyPatternFixes(code, errorMessage, analysis.Kind)
	produced := fixed != "" && fixed != code

	if confidence < escalationThreshold || !produced {
		reply, err := r.escalate(ctx, code, errorMessage, analysis)
		if err != nil {
			r.logger.Warn("ai rectification unavailable", "err", err, "kind", analysis.Kind)
		} else if reply.Success {
			if reply.Code != "" && !produced {
				fixed = reply.Code
				produced = fixed != code
			}
			changes = append(changes, reply.Changes...)
			if reply.Confidence > confidence {
				confidence = reply.Confidence
			}
		}
	}

	return Result{
		Success:    produced,
		Code:       fixed,
		Changes:    changes,
		Analysis:   analysis,
		Confidence: confidence,
	}
}
