package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-logo-ai-api/internal/domain/entity"
)

func logoWith(id string, status entity.LogoStatus, processingMs int64) *entity.GeneratedLogo {
	return &entity.GeneratedLogo{
		ID:       id,
		Status:   status,
		Metadata: entity.LogoMetadata{ProcessingMs: processingMs},
	}
}

func TestSortLogosCompletedFirstThenLatency(t *testing.T) {
	logos := []*entity.GeneratedLogo{
		logoWith("slow-fail", entity.LogoStatusFailed, 900),
		logoWith("slow-ok", entity.LogoStatusCompleted, 800),
		logoWith("fast-fail", entity.LogoStatusFailed, 100),
		logoWith("fast-ok", entity.LogoStatusCompleted, 200),
	}

	sortLogos(logos)

	ids := make([]string, 0, len(logos))
	for _, l := range logos {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"fast-ok", "slow-ok", "fast-fail", "slow-fail"}, ids)
}

func TestSortLogosStableOnEqualLatency(t *testing.T) {
	logos := []*entity.GeneratedLogo{
		logoWith("a", entity.LogoStatusCompleted, 100),
		logoWith("b", entity.LogoStatusCompleted, 100),
		logoWith("c", entity.LogoStatusCompleted, 100),
	}

	sortLogos(logos)

	assert.Equal(t, "a", logos[0].ID)
	assert.Equal(t, "b", logos[1].ID)
	assert.Equal(t, "c", logos[2].ID)
}

func TestBuildResultCounts(t *testing.T) {
	logos := []*entity.GeneratedLogo{
		logoWith("ok-1", entity.LogoStatusCompleted, 100),
		logoWith("fail-1", entity.LogoStatusFailed, 50),
		logoWith("ok-2", entity.LogoStatusCompleted, 300),
	}

	result := buildResult("wf-1", logos, 450)
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, "wf-1", result.WorkflowID)
	assert.Equal(t, 2, result.TotalGenerated)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, int64(450), result.TotalProcessingMs)
	assert.Len(t, result.Logos, 3)
}

func TestFailedResult(t *testing.T) {
	result := failedResult("wf-1", errors.New("prompt compilation failed"), 12)

	assert.False(t, result.Success)
	assert.NotNil(t, result.Logos)
	assert.Empty(t, result.Logos)
	assert.Equal(t, "prompt compilation failed", result.Error)
	assert.Equal(t, "wf-1", result.WorkflowID)
}
