package domain

import (
	"context"
	"time"
)

// NodeEvent represents entry into or exit from a pipeline node.
type NodeEvent struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	NodeID    string    `json:"node_id"`
}

// RunEvent summarizes a finished run.
type RunEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	RunID     string         `json:"run_id"`
	Status    WorkflowStatus `json:"workflow_status"`
	Attempts  int            `json:"rectification_attempts"`
	Duration  time.Duration  `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability. Any field may
// be nil.
type LifecycleHooks struct {
	OnNodeEnter func(context.Context, *NodeEvent)
	OnNodeLeave func(context.Context, *NodeEvent)
	OnRunEnd    func(context.Context, *RunEvent)
}
