package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lmeira/codemend/pkg/domain"
	"github.com/lmeira/codemend/pkg/ports"
)

const generatorPrompt = `You are an expert Python developer. Create high-quality, well-documented Python code based on the user's request.

**Requirements:**
- Follow PEP8 standards strictly
- Include proper type hints
- Add comprehensive docstrings
- Handle edge cases and errors gracefully
- Make the code production-ready and self-contained
- Include example usage and test cases when appropriate

**User Request:**
%s

**Important Guidelines:**
1. Start the code with proper imports (put __future__ imports at the very beginning if needed)
2. Create clean, readable, and efficient code
3. Include proper error handling
4. Add meaningful comments and documentation
5. Make sure all syntax is correct

Please provide only the Python code, no additional explanation:`

// generatorNode asks the model for code. A model failure is fatal for the
// run; retries happen only through the rectifier path.
type generatorNode struct {
	model  ports.ModelClient
	logger *slog.Logger
}

func (n *generatorNode) run(ctx context.Context, state domain.State) domain.Delta {
	request := state.UserPrompt
	if state.Requirements != "" {
		request += "\n\n**Additional Requirements:**\n" + state.Requirements
	}

	raw, err := n.model.Invoke(ctx, fmt.Sprintf(generatorPrompt, request))
	if err != nil {
		n.logger.Error("code generation failed", "err", err)
		return domain.Delta{
			Execution: &domain.ExecutionResult{
				Success: false,
				Error:   fmt.Sprintf("Code generation failed: %v", err),
			},
			Next: domain.NodeEnd,
		}
	}

	code := stripFences(raw)
	return domain.Delta{
		GeneratedCode: domain.Ptr(code),
		Next:          domain.NodeSyntax,
	}
}

// stripFences removes a Markdown code fence wrapper if the model added one.
func stripFences(raw string) string {
	code := strings.TrimSpace(raw)
	if strings.HasPrefix(code, "```python") {
		code = code[len("```python"):]
	} else if strings.HasPrefix(code, "```") {
		code = code[len("```"):]
	}
	code = strings.TrimSuffix(strings.TrimSpace(code), "```")
	return strings.TrimSpace(code)
}
