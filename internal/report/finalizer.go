// Package report turns a terminal workflow state into a human-readable
// result document. Finalize is pure: the same state always produces the
// same report.
package report

import (
	"fmt"
	"strings"

	"github.com/lmeira/codemend/pkg/domain"
)

const genericExplanation = "This code implements the requested functionality with proper error handling and documentation."

// Finalize builds the final report for a run. An executed run is completed
// only when execution succeeded; a run that never reached the executor is
// completed when code exists and no error was recorded. Every other
// terminal state is failed.
func Finalize(state domain.State) domain.Report {
	code := state.ActiveCode()
	exec := state.Execution

	success := exec.Success || (!state.Executed && code != "" && exec.Error == "")

	var b strings.Builder
	b.WriteString("## Code Generation Complete\n\n")
	b.WriteString("### Generated Code:\n```python\n")
	b.WriteString(code)
	b.WriteString("\n```\n\n### Code Explanation:\n")
	b.WriteString(explanation(code))

	output := exec.Output
	if output == "" {
		output = "No output"
	}
	execErr := exec.Error
	if execErr == "" {
		execErr = "No error"
	}
	fmt.Fprintf(&b, "\n\n### Execution Results:\n- **Success**: %t\n- **Execution Time**: %.2f seconds\n- **Output**: %s\n- **Error**: %s\n\n",
		exec.Success, exec.ExecutionTime.Seconds(), output, execErr)

	b.WriteString("### Analysis:\n")
	writeAnalysis(&b, state, code)

	fmt.Fprintf(&b, "\n\n### Syntax Check Results:\n- **Syntax Errors**: %d errors found\n- **PEP8 Suggestions**: %s\n",
		len(state.SyntaxErrors), pep8Status(state.SyntaxErrors))

	status := domain.StatusFailed
	if success {
		status = domain.StatusCompleted
	}

	return domain.Report{
		RunID:       state.RunID,
		FinalResult: strings.TrimSpace(b.String()),
		Status:      status,
	}
}

// explanation extracts the leading module docstring when the code opens
// with one, otherwise falls back to a generic sentence.
func explanation(code string) string {
	if code == "" {
		return genericExplanation
	}
	lines := strings.Split(code, "\n")
	first := strings.TrimSpace(lines[0])
	if !strings.HasPrefix(first, `"""`) && !strings.HasPrefix(first, "'''") {
		return genericExplanation
	}
	var doc []string
	for _, line := range lines[1:] {
		if strings.Contains(line, `"""`) || strings.Contains(line, "'''") {
			break
		}
		doc = append(doc, strings.TrimSpace(line))
	}
	if len(doc) == 0 {
		return genericExplanation
	}
	return strings.Join(doc, "\n")
}

func writeAnalysis(b *strings.Builder, state domain.State, code string) {
	exec := state.Execution
	switch {
	case exec.Success:
		b.WriteString(`- **Execution Status**: SUCCESS

The code executed successfully without any runtime errors.

- **Code Quality**: follows PEP8 standards, includes error handling, well documented.
- **Recommendations**: the code is production-ready and follows Python best practices.`)
	case !state.Executed && exec.Error == "" && code != "":
		b.WriteString(`- **Generation Status**: SUCCESS

The code was generated successfully and passed syntax validation.

- **Next Steps**: the code is ready for execution and appears to be syntactically correct.`)
	default:
		fmt.Fprintf(b, "- **Execution Status**: FAILED\n\n**Error Message**: %s\n\n### Rectification Attempts:\n- **Attempts Made**: %d\n- **Status**: %s\n\n### Recommendations:\n%s",
			state.LastError(),
			state.RectificationAttempts,
			attemptStatus(state.RectificationAttempts),
			recommendation(state.RectificationAttempts),
		)
	}
}

func attemptStatus(attempts int) string {
	if attempts >= domain.MaxRectifications {
		return "Maximum attempts reached"
	}
	return "Rectification attempted"
}

func recommendation(attempts int) string {
	if attempts >= domain.MaxRectifications {
		return "The automatic rectification system reached its maximum attempts. Manual review may be required to resolve the remaining issues."
	}
	return "The code may require additional manual fixes to resolve the execution errors."
}

func pep8Status(syntaxErrors []string) string {
	if len(syntaxErrors) == 0 {
		return "Applied"
	}
	return "Partially applied"
}
