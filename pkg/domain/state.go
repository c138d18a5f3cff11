package domain

import "time"

// Node identifiers double as routing tokens: every node writes its proposed
// successor into State.CurrentNode and the engine validates the hop against
// the transition table.
const (
	NodeGenerator = "code_generator"
	NodeSyntax    = "syntax_checker"
	NodeRectifier = "code_rectifier"
	NodeExecutor  = "code_executor"
	NodeEnd       = "end"
)

// MaxRectifications is the ceiling on automated repair attempts per run.
// It is enforced twice: inside the rectifier node and again by the engine
// guard at the rectifier exit.
const MaxRectifications = 3

// ExecutionResult captures one attempt to run the generated code.
type ExecutionResult struct {
	Success       bool          `json:"success"`
	Output        string        `json:"output"`
	Error         string        `json:"error,omitempty"`
	ExecutionTime time.Duration `json:"execution_time"`
}

// ErrorKind classifies an execution or syntax failure.
type ErrorKind string

// The declaration order below is the classification priority: the first
// kind whose marker substring appears in the message wins.
const (
	KindSyntaxError    ErrorKind = "SyntaxError"
	KindNameError      ErrorKind = "NameError"
	KindImportError    ErrorKind = "ImportError"
	KindIndentation    ErrorKind = "IndentationError"
	KindAttributeError ErrorKind = "AttributeError"
	KindTypeError      ErrorKind = "TypeError"
	KindValueError     ErrorKind = "ValueError"
	KindUnknown        ErrorKind = "Unknown"
)

// ErrorAnalysis is the structured classification of the most recent error.
type ErrorAnalysis struct {
	Kind        ErrorKind `json:"kind"`
	Line        int       `json:"line,omitempty"`
	Description string    `json:"description"`
}

// State is the record threaded through every pipeline node. It is treated
// as an immutable value: nodes return a Delta, and the engine derives the
// next State via Delta.Apply.
type State struct {
	RunID        string `json:"run_id"`
	UserPrompt   string `json:"user_prompt"`
	Requirements string `json:"requirements,omitempty"`

	GeneratedCode string `json:"generated_code"`
	RectifiedCode string `json:"rectified_code"`

	SyntaxErrors    []string        `json:"syntax_errors"`
	ExecutionErrors []string        `json:"execution_errors"`
	Execution       ExecutionResult `json:"execution_results"`

	// Executed is set once the executor node has actually attempted a run.
	// Once set, only a successful execution counts as a completed workflow.
	Executed bool `json:"executed"`

	RectificationAttempts int           `json:"rectification_attempts"`
	Analysis              ErrorAnalysis `json:"error_analysis"`

	// CurrentNode is the routing token written by the most recently
	// executed node.
	CurrentNode string `json:"current_node"`

	// History records the visited nodes in order.
	History []string `json:"history"`
}

// NewState creates the initial state for a run with all counters at zero.
func NewState(runID, prompt, requirements string) State {
	return State{
		RunID:        runID,
		UserPrompt:   prompt,
		Requirements: requirements,
		CurrentNode:  NodeGenerator,
		History:      []string{NodeGenerator},
	}
}

// ActiveCode returns the code currently considered canonical: the rectified
// version when present, the generated version otherwise.
func (s State) ActiveCode() string {
	if s.RectifiedCode != "" {
		return s.RectifiedCode
	}
	return s.GeneratedCode
}

// LastError returns the most recent failure message: the execution error if
// one was recorded, otherwise the joined syntax diagnostics.
func (s State) LastError() string {
	if s.Execution.Error != "" {
		return s.Execution.Error
	}
	if len(s.SyntaxErrors) > 0 {
		return joinDiagnostics(s.SyntaxErrors)
	}
	return ""
}

func joinDiagnostics(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "; "
		}
		out += l
	}
	return out
}
