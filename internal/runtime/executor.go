package runtime

import (
	"context"
	"log/slog"

	"github.com/lmeira/codemend/pkg/domain"
	"github.com/lmeira/codemend/pkg/ports"
)

// executorNode runs the active code through the injected backend. Backend
// machinery faults (not runtime failures of the code itself) are recorded
// as execution errors and routed to the rectifier like any other failure.
type executorNode struct {
	backend ports.ExecutionBackend
	logger  *slog.Logger
}

func (n *executorNode) run(ctx context.Context, state domain.State) domain.Delta {
	code := state.ActiveCode()
	if code == "" {
		return domain.Delta{
			Execution: &domain.ExecutionResult{Success: false, Error: "No code to execute"},
			Executed:  domain.Ptr(true),
			Next:      domain.NodeEnd,
		}
	}

	result, err := n.backend.Execute(ctx, code)
	if err != nil {
		n.logger.Error("execution backend fault", "backend", n.backend.Name(), "error", err)
		result = domain.ExecutionResult{Success: false, Error: err.Error()}
	}

	n.logger.Info("code executed",
		"backend", n.backend.Name(),
		"success", result.Success,
		"duration", result.ExecutionTime,
	)

	delta := domain.Delta{
		Execution: &result,
		Executed:  domain.Ptr(true),
	}
	// Only a failure with a recorded error is worth rectifying; an
	// error-less failure carries nothing the rectifier could act on.
	if result.Success || result.Error == "" {
		delta.Next = domain.NodeEnd
	} else {
		delta.Next = domain.NodeRectifier
	}
	return delta
}
