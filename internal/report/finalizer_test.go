package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lmeira/codemend/pkg/domain"
)

func terminalState(mutate func(*domain.State)) domain.State {
	state := domain.NewState("run-final", "prompt", "")
	state.CurrentNode = domain.NodeEnd
	if mutate != nil {
		mutate(&state)
	}
	return state
}

func TestFinalize_StatusTruthTable(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.State)
		want   domain.WorkflowStatus
	}{
		{
			name: "execution succeeded",
			mutate: func(s *domain.State) {
				s.GeneratedCode = "print(1)"
				s.Executed = true
				s.Execution = domain.ExecutionResult{Success: true, Output: "1\n"}
			},
			want: domain.StatusCompleted,
		},
		{
			name: "unexecuted code without error",
			mutate: func(s *domain.State) {
				s.GeneratedCode = "print(1)"
			},
			want: domain.StatusCompleted,
		},
		{
			name: "code present with execution error",
			mutate: func(s *domain.State) {
				s.GeneratedCode = "print(1)"
				s.Executed = true
				s.Execution = domain.ExecutionResult{Success: false, Error: "boom"}
			},
			want: domain.StatusFailed,
		},
		{
			name: "executed failure without recorded error",
			mutate: func(s *domain.State) {
				s.GeneratedCode = "print(1)"
				s.Executed = true
				s.Execution = domain.ExecutionResult{Success: false}
			},
			want: domain.StatusFailed,
		},
		{
			name:   "no code at all",
			mutate: nil,
			want:   domain.StatusFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := Finalize(terminalState(tc.mutate))
			assert.Equal(t, tc.want, rep.Status)
			assert.Equal(t, "run-final", rep.RunID)
		})
	}
}

func TestFinalize_IsIdempotent(t *testing.T) {
	state := terminalState(func(s *domain.State) {
		s.GeneratedCode = "print('x')"
		s.Execution = domain.ExecutionResult{
			Success:       true,
			Output:        "x\n",
			ExecutionTime: 120 * time.Millisecond,
		}
	})

	first := Finalize(state)
	second := Finalize(state)
	assert.Equal(t, first, second)
}

func TestFinalize_ExtractsModuleDocstring(t *testing.T) {
	state := terminalState(func(s *domain.State) {
		s.GeneratedCode = "\"\"\"\nComputes the answer.\nHandles edge cases.\n\"\"\"\nprint(42)"
		s.Execution = domain.ExecutionResult{Success: true, Output: "42\n"}
	})

	rep := Finalize(state)
	assert.Contains(t, rep.FinalResult, "Computes the answer.\nHandles edge cases.")
}

func TestFinalize_FallsBackToGenericExplanation(t *testing.T) {
	state := terminalState(func(s *domain.State) {
		s.GeneratedCode = "print(42)"
		s.Execution = domain.ExecutionResult{Success: true}
	})

	rep := Finalize(state)
	assert.Contains(t, rep.FinalResult, genericExplanation)
}

func TestFinalize_ReportsCeilingWhenAttemptsExhausted(t *testing.T) {
	state := terminalState(func(s *domain.State) {
		s.GeneratedCode = "broken()"
		s.RectificationAttempts = domain.MaxRectifications
		s.Execution = domain.ExecutionResult{
			Success: false,
			Error:   "Maximum rectification attempts reached. Final error: boom",
		}
	})

	rep := Finalize(state)
	assert.Equal(t, domain.StatusFailed, rep.Status)
	assert.Contains(t, rep.FinalResult, "Maximum attempts reached")
	assert.Contains(t, rep.FinalResult, "Manual review may be required")
}

func TestFinalize_PrefersRectifiedCode(t *testing.T) {
	state := terminalState(func(s *domain.State) {
		s.GeneratedCode = "old()"
		s.RectifiedCode = "new()"
		s.Execution = domain.ExecutionResult{Success: true}
	})

	rep := Finalize(state)
	assert.Contains(t, rep.FinalResult, "new()")
	assert.NotContains(t, rep.FinalResult, "old()")
}
