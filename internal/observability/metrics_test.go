package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/lmeira/codemend/pkg/domain"
)

func TestHooks_RecordNodeVisitsAndRuns(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnNodeEnter(ctx, &domain.NodeEvent{NodeID: domain.NodeGenerator})
	hooks.OnNodeEnter(ctx, &domain.NodeEvent{NodeID: domain.NodeRectifier})
	hooks.OnNodeEnter(ctx, &domain.NodeEvent{NodeID: domain.NodeRectifier})
	hooks.OnRunEnd(ctx, &domain.RunEvent{
		Status:   domain.StatusCompleted,
		Duration: 2 * time.Second,
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NodeVisits.WithLabelValues(domain.NodeGenerator)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NodeVisits.WithLabelValues(domain.NodeRectifier)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Rectifications))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(string(domain.StatusCompleted))))
}

func TestMerge_CallsBothSides(t *testing.T) {
	var aCalls, bCalls int
	merged := Merge(
		domain.LifecycleHooks{
			OnNodeEnter: func(context.Context, *domain.NodeEvent) { aCalls++ },
			OnRunEnd:    func(context.Context, *domain.RunEvent) { aCalls++ },
		},
		domain.LifecycleHooks{
			OnNodeEnter: func(context.Context, *domain.NodeEvent) { bCalls++ },
		},
	)

	ctx := context.Background()
	merged.OnNodeEnter(ctx, &domain.NodeEvent{NodeID: domain.NodeGenerator})
	merged.OnRunEnd(ctx, &domain.RunEvent{})

	assert.Equal(t, 2, aCalls)
	assert.Equal(t, 1, bCalls)
	assert.Nil(t, merged.OnNodeLeave)
}
