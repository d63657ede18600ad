// Package embedding 提供基于 Eino 的文本向量化接入
package embedding

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"

	"z-logo-ai-api/internal/config"
)

// NewEinoEmbedder 创建基于 Eino 的 Embedder
func NewEinoEmbedder(ctx context.Context, cfg *config.EmbeddingConfig) (embedding.Embedder, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("embedding endpoint is required")
	}

	embedder, err := openai.NewEmbedder(ctx, &openai.EmbeddingConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.Endpoint,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino embedder: %w", err)
	}

	return embedder, nil
}

// Client 将 Eino Embedder 适配为领域侧的单文本向量化端口，
// 输出 float32 向量以便直接写入向量索引。
type Client struct {
	embedder  embedding.Embedder
	dimension int
}

// NewClient 创建向量化客户端
func NewClient(embedder embedding.Embedder, dimension int) *Client {
	return &Client{
		embedder:  embedder,
		dimension: dimension,
	}
}

// EmbedText 向量化单条文本
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("embedding service returned empty vector")
	}

	v := vectors[0]
	if c.dimension > 0 && len(v) != c.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(v), c.dimension)
	}

	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out, nil
}
