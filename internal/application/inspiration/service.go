// Package inspiration 提供灵感 Logo 的索引与相似检索
package inspiration

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"z-logo-ai-api/internal/domain/entity"
	"z-logo-ai-api/internal/domain/repository"
	apperrors "z-logo-ai-api/pkg/errors"
	"z-logo-ai-api/pkg/logger"
)

// defaultTopK 相似检索默认返回条数
const defaultTopK = 5

// Embedder 文本向量化端口
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// VectorHit 向量检索命中项
type VectorHit struct {
	ID    string
	Score float32
}

// VectorIndex 向量索引端口
type VectorIndex interface {
	Insert(ctx context.Context, id string, vector []float32) error
	Search(ctx context.Context, vector []float32, topK int) ([]VectorHit, error)
}

// Service 灵感检索服务：描述文本向量化后入库，
// 检索时按向量相似度召回并回填完整灵感记录。
type Service struct {
	embedder Embedder
	index    VectorIndex
	repo     repository.InspirationRepository
}

// NewService 创建灵感检索服务
func NewService(embedder Embedder, index VectorIndex, repo repository.InspirationRepository) *Service {
	return &Service{
		embedder: embedder,
		index:    index,
		repo:     repo,
	}
}

// Index 索引一条灵感 Logo：持久化记录并写入向量索引
func (s *Service) Index(ctx context.Context, logo *entity.InspirationLogo) (*entity.InspirationLogo, error) {
	if logo == nil || strings.TrimSpace(logo.Description) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "inspiration description is required")
	}
	if logo.ID == "" {
		logo.ID = uuid.New().String()
	}

	vector, err := s.embedder.EmbedText(ctx, embeddingText(logo))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeEmbeddingFailed, "failed to embed inspiration description")
	}

	if err := s.repo.Save(ctx, logo); err != nil {
		return nil, err
	}
	if err := s.index.Insert(ctx, logo.ID, vector); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeVectorDBError, "failed to index inspiration vector")
	}

	logger.Info(ctx, "inspiration indexed", "inspiration_id", logo.ID)
	return logo, nil
}

// Search 按描述文本检索相似灵感 Logo
func (s *Service) Search(ctx context.Context, query string, topK int) ([]*entity.InspirationMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "search query is required")
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeEmbeddingFailed, "failed to embed search query")
	}

	hits, err := s.index.Search(ctx, vector, topK)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeVectorDBError, "vector search failed")
	}
	if len(hits) == 0 {
		return []*entity.InspirationMatch{}, nil
	}

	ids := make([]string, 0, len(hits))
	scores := make(map[string]float32, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ID)
		scores[hit.ID] = hit.Score
	}

	logos, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entity.InspirationLogo, len(logos))
	for _, logo := range logos {
		byID[logo.ID] = logo
	}

	// 保持检索召回顺序
	matches := make([]*entity.InspirationMatch, 0, len(hits))
	for _, hit := range hits {
		logo, ok := byID[hit.ID]
		if !ok {
			continue
		}
		matches = append(matches, &entity.InspirationMatch{
			Logo:  logo,
			Score: scores[hit.ID],
		})
	}
	return matches, nil
}

// embeddingText 拼接用于向量化的文本：标题、描述、行业与标签
func embeddingText(logo *entity.InspirationLogo) string {
	parts := make([]string, 0, 4)
	if logo.Title != "" {
		parts = append(parts, logo.Title)
	}
	parts = append(parts, logo.Description)
	if logo.Industry != "" {
		parts = append(parts, logo.Industry)
	}
	if len(logo.Tags) > 0 {
		parts = append(parts, strings.Join(logo.Tags, " "))
	}
	return strings.Join(parts, ". ")
}
