package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-logo-ai-api/internal/domain/entity"
)

func TestRegistrySnapshotIsolation(t *testing.T) {
	r := newRegistry()
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	progress := entity.NewGenerationProgress("wf-1", 3)
	r.add("wf-1", progress, nil, cancel)

	snap, ok := r.snapshot("wf-1")
	require.True(t, ok)
	require.NotNil(t, snap)

	// 快照与内部状态隔离
	snap.Percentage = 99
	again, ok := r.snapshot("wf-1")
	require.True(t, ok)
	assert.NotEqual(t, 99, again.Percentage)
}

func TestRegistryUpdateReturnsSnapshotAndCallback(t *testing.T) {
	r := newRegistry()
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	var received *entity.GenerationProgress
	callback := func(p *entity.GenerationProgress) { received = p }

	r.add("wf-1", entity.NewGenerationProgress("wf-1", 1), callback, cancel)

	snap, cb := r.update("wf-1", func(p *entity.GenerationProgress) {
		p.UpdatePercentage(42)
	})
	require.NotNil(t, snap)
	require.NotNil(t, cb)
	assert.Equal(t, 42, snap.Percentage)

	cb(snap)
	assert.Same(t, snap, received)
}

func TestRegistryUpdateAfterCancel(t *testing.T) {
	r := newRegistry()
	ctx, cancel := context.WithCancel(context.Background())

	r.add("wf-1", entity.NewGenerationProgress("wf-1", 1), nil, cancel)

	require.True(t, r.cancel("wf-1"))
	assert.Error(t, ctx.Err(), "cancelling must cancel the run context")

	// 取消后条目被摘除，更新静默跳过
	snap, cb := r.update("wf-1", func(p *entity.GenerationProgress) {
		p.UpdatePercentage(50)
	})
	assert.Nil(t, snap)
	assert.Nil(t, cb)

	_, ok := r.snapshot("wf-1")
	assert.False(t, ok)

	// 重复取消无效果
	assert.False(t, r.cancel("wf-1"))
}

func TestRegistryRemove(t *testing.T) {
	r := newRegistry()
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.add("wf-1", entity.NewGenerationProgress("wf-1", 1), nil, cancel)
	r.remove("wf-1")

	_, ok := r.snapshot("wf-1")
	assert.False(t, ok)
}
