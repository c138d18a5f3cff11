package domain

// WorkflowStatus is the terminal outcome of a run.
type WorkflowStatus string

const (
	StatusCompleted WorkflowStatus = "completed"
	StatusFailed    WorkflowStatus = "failed"
)

// Report is the human-readable summary handed back to the caller when the
// state machine reaches the terminal node.
type Report struct {
	RunID       string         `json:"run_id"`
	FinalResult string         `json:"final_result"`
	Status      WorkflowStatus `json:"workflow_status"`
}
