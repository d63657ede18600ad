package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePercentageMonotone(t *testing.T) {
	p := NewGenerationProgress("wf-1", 3)

	p.UpdatePercentage(40)
	assert.Equal(t, 40, p.Percentage)

	// 回退被忽略
	p.UpdatePercentage(20)
	assert.Equal(t, 40, p.Percentage)

	// 超过 100 封顶
	p.UpdatePercentage(150)
	assert.Equal(t, 100, p.Percentage)
}

func TestProgressTerminalStates(t *testing.T) {
	p := NewGenerationProgress("wf-1", 1)
	assert.False(t, p.IsTerminal())

	p.Complete("done")
	assert.True(t, p.IsTerminal())
	assert.Equal(t, 100, p.Percentage)

	q := NewGenerationProgress("wf-2", 1)
	q.UpdatePercentage(35)
	q.Fail("provider exploded")
	assert.True(t, q.IsTerminal())
	// 失败时百分比冻结在最后上报值
	assert.Equal(t, 35, q.Percentage)
	assert.Equal(t, "provider exploded", q.Error)
}

func TestProgressClone(t *testing.T) {
	p := NewGenerationProgress("wf-1", 2)
	p.AddLogo(&GeneratedLogo{ID: "logo-1"})

	snap := p.Clone()
	require.NotNil(t, snap)

	snap.Percentage = 77
	snap.Logos = append(snap.Logos, &GeneratedLogo{ID: "logo-2"})

	assert.NotEqual(t, 77, p.Percentage)
	assert.Len(t, p.Logos, 1)

	var nilProgress *GenerationProgress
	assert.Nil(t, nilProgress.Clone())
}

func TestEditingSessionAppendOperation(t *testing.T) {
	original := &GeneratedLogo{ID: "orig"}
	s := NewEditingSession("sess-1", original)

	assert.Same(t, original, s.OriginalLogo)
	assert.Same(t, original, s.CurrentLogo)

	edited := &GeneratedLogo{ID: "edited"}
	s.AppendOperation(&EditOperation{Status: EditStatusCompleted}, edited)
	assert.Same(t, edited, s.CurrentLogo)
	assert.Equal(t, 1, s.OperationCount())

	// 失败操作入史但不推进当前 Logo
	s.AppendOperation(&EditOperation{Status: EditStatusFailed}, nil)
	assert.Same(t, edited, s.CurrentLogo)
	assert.Equal(t, 2, s.OperationCount())

	// 原始 Logo 始终不变
	assert.Same(t, original, s.OriginalLogo)
}

func TestSelectLogoIgnoresNil(t *testing.T) {
	s := NewEditingSession("sess-1", &GeneratedLogo{ID: "orig"})

	s.SelectLogo(nil)
	assert.Equal(t, "orig", s.CurrentLogo.ID)

	s.SelectLogo(&GeneratedLogo{ID: "candidate"})
	assert.Equal(t, "candidate", s.CurrentLogo.ID)
}
