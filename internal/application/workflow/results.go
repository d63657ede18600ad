package workflow

import (
	"sort"

	"z-logo-ai-api/internal/domain/entity"
)

// sortLogos 结果整理：成功项排在失败项之前，同类按处理耗时升序。
// 使用稳定排序保持同耗时项的产出顺序。
func sortLogos(logos []*entity.GeneratedLogo) {
	sort.SliceStable(logos, func(i, j int) bool {
		a, b := logos[i], logos[j]
		if a.Status != b.Status {
			return a.Status == entity.LogoStatusCompleted
		}
		return a.Metadata.ProcessingMs < b.Metadata.ProcessingMs
	})
}

// buildResult 将进度中的产出聚合为结果
func buildResult(workflowID string, logos []*entity.GeneratedLogo, elapsedMs int64) *entity.GenerationResult {
	sortLogos(logos)

	var generated, failed int
	for _, logo := range logos {
		if logo.Status == entity.LogoStatusCompleted {
			generated++
		} else {
			failed++
		}
	}

	return &entity.GenerationResult{
		Success:           true,
		Logos:             logos,
		TotalGenerated:    generated,
		FailedCount:       failed,
		TotalProcessingMs: elapsedMs,
		WorkflowID:        workflowID,
	}
}

// failedResult 结构性失败的聚合结果
func failedResult(workflowID string, err error, elapsedMs int64) *entity.GenerationResult {
	return &entity.GenerationResult{
		Success:           false,
		Logos:             []*entity.GeneratedLogo{},
		TotalProcessingMs: elapsedMs,
		Error:             err.Error(),
		WorkflowID:        workflowID,
	}
}
