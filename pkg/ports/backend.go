package ports

import (
	"context"

	"github.com/lmeira/codemend/pkg/domain"
)

// ExecutionBackend runs a snippet of generated code and captures its
// outcome. Execute never returns an error for failures of the code itself:
// those are reported inside the ExecutionResult. The error return is
// reserved for backend machinery faults (a corrupt session store, a missing
// interpreter binary).
type ExecutionBackend interface {
	Name() string
	Execute(ctx context.Context, code string) (domain.ExecutionResult, error)
}
