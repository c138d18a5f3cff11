package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lmeira/codemend/internal/rectifier"
	"github.com/lmeira/codemend/pkg/domain"
)

// rectifierNode wraps the rectifier engine. It enforces the attempt
// ceiling locally as well; the engine guard at the node exit is the second
// line of defense.
type rectifierNode struct {
	engine *rectifier.Rectifier
	logger *slog.Logger
}

func (n *rectifierNode) run(ctx context.Context, state domain.State) domain.Delta {
	code := state.ActiveCode()
	errorMessage := state.LastError()

	if code == "" || errorMessage == "" {
		return domain.Delta{Next: domain.NodeEnd}
	}

	attempts := state.RectificationAttempts
	if attempts >= domain.MaxRectifications {
		n.logger.Warn("rectification ceiling reached", "attempts", attempts)
		return domain.Delta{
			Execution: &domain.ExecutionResult{
				Success: false,
				Output:  state.Execution.Output,
				Error:   fmt.Sprintf("Maximum rectification attempts reached. Final error: %s", errorMessage),
			},
			Next: domain.NodeEnd,
		}
	}

	result := n.engine.Rectify(ctx, code, errorMessage)

	if !result.Success || result.Code == "" {
		n.logger.Info("rectification failed", "attempt", attempts+1, "kind", result.Analysis.Kind)
		if attempts+1 >= domain.MaxRectifications {
			return domain.Delta{
				RectificationAttempts: domain.Ptr(attempts + 1),
				Analysis:              &result.Analysis,
				Execution: &domain.ExecutionResult{
					Success: false,
					Output:  state.Execution.Output,
					Error:   fmt.Sprintf("Maximum rectification attempts reached. Final error: %s", errorMessage),
				},
				Next: domain.NodeEnd,
			}
		}
		// Below the ceiling an unfixable error is retried from scratch:
		// the stale rectified code is cleared so the regenerated code
		// becomes active again.
		return domain.Delta{
			RectifiedCode:         domain.Ptr(""),
			AppendExecError:       domain.Ptr(errorMessage),
			RectificationAttempts: domain.Ptr(attempts + 1),
			Analysis:              &result.Analysis,
			Next:                  domain.NodeGenerator,
		}
	}

	n.logger.Info("code rectified",
		"attempt", attempts+1,
		"confidence", result.Confidence,
		"changes", len(result.Changes),
	)

	return domain.Delta{
		RectifiedCode:         domain.Ptr(result.Code),
		GeneratedCode:         domain.Ptr(result.Code),
		AppendExecError:       domain.Ptr(errorMessage),
		RectificationAttempts: domain.Ptr(attempts + 1),
		Analysis:              &result.Analysis,
		Next:                  domain.NodeSyntax,
	}
}
