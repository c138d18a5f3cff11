package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewState_StartsAtGenerator(t *testing.T) {
	state := NewState("r1", "make a thing", "use stdlib")

	assert.Equal(t, NodeGenerator, state.CurrentNode)
	assert.Equal(t, []string{NodeGenerator}, state.History)
	assert.Zero(t, state.RectificationAttempts)
	assert.False(t, state.Executed)
}

func TestActiveCode_PrefersRectified(t *testing.T) {
	state := State{GeneratedCode: "old"}
	assert.Equal(t, "old", state.ActiveCode())

	state.RectifiedCode = "new"
	assert.Equal(t, "new", state.ActiveCode())
}

func TestLastError_Precedence(t *testing.T) {
	state := State{}
	assert.Equal(t, "", state.LastError())

	state.SyntaxErrors = []string{"1:1: E999 SyntaxError", "2:5: E225 missing whitespace"}
	assert.Equal(t, "1:1: E999 SyntaxError; 2:5: E225 missing whitespace", state.LastError())

	state.Execution.Error = "ZeroDivisionError: division by zero"
	assert.Equal(t, "ZeroDivisionError: division by zero", state.LastError())
}

func TestDeltaApply_DoesNotMutatePrevious(t *testing.T) {
	prev := NewState("r1", "p", "")
	prev.SyntaxErrors = []string{"a"}
	prev.ExecutionErrors = []string{"e1"}

	next := Delta{
		GeneratedCode:   Ptr("print(1)"),
		AppendExecError: Ptr("e2"),
		Next:            NodeSyntax,
	}.Apply(prev)

	assert.Equal(t, "", prev.GeneratedCode)
	assert.Equal(t, []string{"e1"}, prev.ExecutionErrors)
	assert.Equal(t, []string{NodeGenerator}, prev.History)

	assert.Equal(t, "print(1)", next.GeneratedCode)
	assert.Equal(t, []string{"e1", "e2"}, next.ExecutionErrors)
	assert.Equal(t, NodeSyntax, next.CurrentNode)
	assert.Equal(t, []string{NodeGenerator, NodeSyntax}, next.History)
}

func TestDeltaApply_SlicesDoNotAlias(t *testing.T) {
	prev := NewState("r1", "p", "")
	prev.ExecutionErrors = []string{"e1"}

	a := Delta{AppendExecError: Ptr("from-a"), Next: NodeSyntax}.Apply(prev)
	b := Delta{AppendExecError: Ptr("from-b"), Next: NodeExecutor}.Apply(prev)

	assert.Equal(t, []string{"e1", "from-a"}, a.ExecutionErrors)
	assert.Equal(t, []string{"e1", "from-b"}, b.ExecutionErrors)
	assert.Equal(t, []string{"e1"}, prev.ExecutionErrors)
}

func TestDeltaApply_EmptyNextMeansEnd(t *testing.T) {
	prev := NewState("r1", "p", "")
	next := Delta{}.Apply(prev)

	assert.Equal(t, NodeEnd, next.CurrentNode)
	assert.Equal(t, NodeEnd, next.History[len(next.History)-1])
}

func TestDeltaApply_ClearsRectifiedCode(t *testing.T) {
	prev := NewState("r1", "p", "")
	prev.RectifiedCode = "stale()"
	prev.GeneratedCode = "fresh()"

	next := Delta{RectifiedCode: Ptr(""), Next: NodeGenerator}.Apply(prev)

	assert.Equal(t, "", next.RectifiedCode)
	assert.Equal(t, "fresh()", next.ActiveCode())
}
