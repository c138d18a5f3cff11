package codemend_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmeira/codemend"
	"github.com/lmeira/codemend/pkg/domain"
	"github.com/lmeira/codemend/pkg/ports"
)

type fixedBackend struct {
	result domain.ExecutionResult
}

func (b *fixedBackend) Name() string { return "fixed" }

func (b *fixedBackend) Execute(_ context.Context, _ string) (domain.ExecutionResult, error) {
	return b.result, nil
}

type noopLinter struct{}

func (noopLinter) Lint(_ context.Context, _ string) ([]string, error) { return nil, nil }

type noopFormat struct{}

func (noopFormat) Format(_ context.Context, code string) string { return code }

func TestNew_RequiresModel(t *testing.T) {
	_, err := codemend.New(nil)
	assert.Error(t, err)
}

func TestRun_ProducesReportAndState(t *testing.T) {
	model := ports.ModelFunc(func(_ context.Context, _ string) (string, error) {
		return "```python\nprint('hi')\n```", nil
	})
	backend := &fixedBackend{
		result: domain.ExecutionResult{Success: true, Output: "hi\n"},
	}

	engine, err := codemend.New(model,
		codemend.WithBackend(backend),
		codemend.WithLinter(noopLinter{}),
		codemend.WithFormatter(noopFormat{}),
	)
	require.NoError(t, err)

	report, state := engine.Run(context.Background(), "say hi", "")

	assert.Equal(t, domain.StatusCompleted, report.Status)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, report.RunID, state.RunID)
	assert.Contains(t, report.FinalResult, "print('hi')")
	assert.Equal(t, domain.NodeEnd, state.CurrentNode)
	assert.True(t, state.Execution.Success)
}

func TestRun_DistinctRunsGetDistinctIDs(t *testing.T) {
	model := ports.ModelFunc(func(_ context.Context, _ string) (string, error) {
		return "print(1)", nil
	})
	engine, err := codemend.New(model,
		codemend.WithBackend(&fixedBackend{result: domain.ExecutionResult{Success: true}}),
		codemend.WithLinter(noopLinter{}),
		codemend.WithFormatter(noopFormat{}),
	)
	require.NoError(t, err)

	first, _ := engine.Run(context.Background(), "one", "")
	second, _ := engine.Run(context.Background(), "one", "")
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestBackend_ReportsInjectedBackend(t *testing.T) {
	model := ports.ModelFunc(func(_ context.Context, _ string) (string, error) {
		return "", nil
	})
	backend := &fixedBackend{}
	engine, err := codemend.New(model, codemend.WithBackend(backend))
	require.NoError(t, err)

	assert.Equal(t, "fixed", engine.Backend().Name())
}
