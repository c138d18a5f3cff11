package runtime

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lmeira/codemend/pkg/domain"
	"github.com/lmeira/codemend/pkg/ports"
)

// Formatter is the best-effort reformatting chain. It never fails: when no
// provider is usable the input comes back unchanged.
type Formatter interface {
	Format(ctx context.Context, code string) string
}

// syntaxNode lints the active code and reformats it when the diagnostics
// carry no structural parse failure. Style-only findings are informational
// and do not block execution.
type syntaxNode struct {
	linter ports.Linter
	format Formatter
	logger *slog.Logger
}

func (n *syntaxNode) run(ctx context.Context, state domain.State) domain.Delta {
	code := state.ActiveCode()
	if code == "" {
		return domain.Delta{
			SyntaxErrors: []string{"No code to check"},
			Next:         domain.NodeEnd,
		}
	}

	diags, err := n.linter.Lint(ctx, code)
	if err != nil {
		// A crashing linter is treated like a structural failure so the
		// rectifier gets a chance to look at the code.
		n.logger.Warn("linter crashed", "err", err)
		return domain.Delta{
			SyntaxErrors: []string{"Syntax checking failed: " + err.Error()},
			Next:         domain.NodeRectifier,
		}
	}

	structural := hasParseFailure(diags)
	if !structural && n.format != nil {
		code = n.format.Format(ctx, code)
	}

	next := domain.NodeExecutor
	if structural {
		next = domain.NodeRectifier
	}

	if diags == nil {
		diags = []string{}
	}
	return domain.Delta{
		GeneratedCode: domain.Ptr(code),
		SyntaxErrors:  diags,
		Next:          next,
	}
}

// hasParseFailure reports whether any diagnostic signals that the code did
// not parse at all (flake8 reports these as E999 / SyntaxError).
func hasParseFailure(diags []string) bool {
	for _, d := range diags {
		if strings.Contains(d, "E999") || strings.Contains(d, "SyntaxError") {
			return true
		}
	}
	return false
}
