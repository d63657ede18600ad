// Package workflow 提供 Logo 生成/编辑工作流协调器
package workflow

import (
	"context"

	"z-logo-ai-api/internal/domain/entity"
)

// GenerateParams 图像生成调用参数
type GenerateParams struct {
	Prompt         string
	NegativePrompt string
	AspectRatio    string
	OutputFormat   string
	Steps          int
	Guidance       float64
}

// EditParams 图像编辑调用参数
type EditParams struct {
	Prompt       string
	AspectRatio  string
	OutputFormat string
	// Strength 重绘强度 [0.1, 1.0]
	Strength float64
}

// ProviderResult 提供商调用结果
type ProviderResult struct {
	// ImageURL 结果图像地址
	ImageURL string
	// ImageData base64 内联图像数据
	ImageData string
	// RequestID 提供商请求标识
	RequestID string
}

// ImageGenerator 图像生成网关端口，协调器不关心提供商内部协议
type ImageGenerator interface {
	GenerateImage(ctx context.Context, params GenerateParams) (*ProviderResult, error)
	EditImage(ctx context.Context, inputImageData string, params EditParams) (*ProviderResult, error)
}

// ImageResolver 将图像地址解析为 base64 内联数据
type ImageResolver interface {
	Resolve(ctx context.Context, imageURL string) (string, error)
}

// ProgressCallback 进度回调。每次状态转移至少调用一次，
// 并以恰好一次终态（completed/error）调用收尾；取消后不再调用。
type ProgressCallback func(progress *entity.GenerationProgress)
