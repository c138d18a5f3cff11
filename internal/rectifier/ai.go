package rectifier

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/lmeira/codemend/pkg/domain"
)

var (
	nameRe  = regexp.MustCompile(`name '([^']+)' is not defined`)
	fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\n(.*?)\n```")
)

// aiReply is the structured payload the model is asked to return.
type aiReply struct {
	Success    bool     `mapstructure:"success"`
	Code       string   `mapstructure:"code"`
	Changes    []string `mapstructure:"changes"`
	Confidence float64  `mapstructure:"confidence"`
}

const aiPromptTemplate = `You are an expert Python developer. The following code failed with an execution error. Analyze the error and provide a corrected version of the code.

**Original Code:**
` + "```python\n%s\n```" + `

**Error Message:**
%s

**Error Analysis:**
- Error Type: %s
- Error Line: %s
- Description: %s

**Instructions:**
1. Identify the root cause of the error
2. Provide the corrected code
3. List the specific changes made
4. Ensure the code follows Python best practices and PEP8 standards

**Response Format:**
Respond with JSON only:
{
    "success": true,
    "code": "corrected code here",
    "changes": ["list of changes made"],
    "confidence": 0.0
}`

// escalate asks the model for a rewrite when the deterministic catalog
// could not produce a confident fix. The reply is parsed as JSON first; if
// that fails, a fenced code block is extracted and assigned a fixed
// confidence of 0.7.
func (r *Rectifier) escalate(ctx context.Context, code, errorMessage string, analysis domain.ErrorAnalysis) (aiReply, error) {
	line := "Unknown"
	if analysis.Line > 0 {
		line = fmt.Sprintf("%d", analysis.Line)
	}
	prompt := fmt.Sprintf(aiPromptTemplate,
		code, errorMessage, analysis.Kind, line, analysis.Description)

	raw, err := r.model.Invoke(ctx, prompt)
	if err != nil {
		return aiReply{}, fmt.Errorf("ai rectification failed: %w", err)
	}

	if reply, ok := parseStructuredReply(raw); ok {
		return reply, nil
	}

	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return aiReply{
			Success:    true,
			Code:       strings.TrimSpace(m[1]),
			Changes:    []string{"AI-generated fixes applied"},
			Confidence: 0.7,
		}, nil
	}

	return aiReply{}, nil
}

func parseStructuredReply(raw string) (aiReply, bool) {
	// Be forgiving about fences around the JSON document.
	trimmed := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(trimmed); m != nil && strings.HasPrefix(strings.TrimSpace(m[1]), "{") {
		trimmed = strings.TrimSpace(m[1])
	}

	var generic map[string]any
	if err := json.Unmarshal([]byte(trimmed), &generic); err != nil {
		return aiReply{}, false
	}

	var reply aiReply
	if err := mapstructure.WeakDecode(generic, &reply); err != nil {
		return aiReply{}, false
	}
	return reply, true
}
