package domain

// Delta is the partial update a node returns. Only non-nil fields are
// applied, so a node can never produce a torn write: Apply merges the delta
// into a copy of the previous state and returns the new value.
type Delta struct {
	GeneratedCode *string
	RectifiedCode *string

	SyntaxErrors    []string // replaces the diagnostic list when non-nil
	AppendExecError *string  // appended to ExecutionErrors

	Execution *ExecutionResult
	Executed  *bool

	RectificationAttempts *int
	Analysis              *ErrorAnalysis

	// Next is the routing token the node proposes. Empty means "end".
	Next string
}

// Apply merges the delta into a copy of prev and returns the result.
// Slices are re-sliced with full capacity cut off so that two states never
// alias a growable backing array.
func (d Delta) Apply(prev State) State {
	next := prev
	next.SyntaxErrors = prev.SyntaxErrors[:len(prev.SyntaxErrors):len(prev.SyntaxErrors)]
	next.ExecutionErrors = prev.ExecutionErrors[:len(prev.ExecutionErrors):len(prev.ExecutionErrors)]
	next.History = prev.History[:len(prev.History):len(prev.History)]

	if d.GeneratedCode != nil {
		next.GeneratedCode = *d.GeneratedCode
	}
	if d.RectifiedCode != nil {
		next.RectifiedCode = *d.RectifiedCode
	}
	if d.SyntaxErrors != nil {
		next.SyntaxErrors = d.SyntaxErrors
	}
	if d.AppendExecError != nil {
		next.ExecutionErrors = append(next.ExecutionErrors, *d.AppendExecError)
	}
	if d.Execution != nil {
		next.Execution = *d.Execution
	}
	if d.Executed != nil {
		next.Executed = *d.Executed
	}
	if d.RectificationAttempts != nil {
		next.RectificationAttempts = *d.RectificationAttempts
	}
	if d.Analysis != nil {
		next.Analysis = *d.Analysis
	}

	token := d.Next
	if token == "" {
		token = NodeEnd
	}
	next.CurrentNode = token
	next.History = append(next.History, token)

	return next
}

// Ptr is a small helper for building deltas from literals.
func Ptr[T any](v T) *T { return &v }
