package inspiration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-logo-ai-api/internal/domain/entity"
)

// stubEmbedder 固定向量的文本向量化替身
type stubEmbedder struct {
	vector []float32
	err    error
	texts  []string
}

func (s *stubEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	s.texts = append(s.texts, text)
	return s.vector, s.err
}

// memIndex 内存向量索引替身
type memIndex struct {
	inserted  map[string][]float32
	hits      []VectorHit
	searchErr error
	insertErr error
}

func newMemIndex() *memIndex {
	return &memIndex{inserted: make(map[string][]float32)}
}

func (m *memIndex) Insert(_ context.Context, id string, vector []float32) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted[id] = vector
	return nil
}

func (m *memIndex) Search(_ context.Context, _ []float32, _ int) ([]VectorHit, error) {
	return m.hits, m.searchErr
}

// memInspirationRepo 内存灵感仓储
type memInspirationRepo struct {
	logos map[string]*entity.InspirationLogo
}

func newMemInspirationRepo() *memInspirationRepo {
	return &memInspirationRepo{logos: make(map[string]*entity.InspirationLogo)}
}

func (r *memInspirationRepo) Save(_ context.Context, logo *entity.InspirationLogo) error {
	r.logos[logo.ID] = logo
	return nil
}

func (r *memInspirationRepo) GetByID(_ context.Context, id string) (*entity.InspirationLogo, error) {
	return r.logos[id], nil
}

func (r *memInspirationRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.InspirationLogo, error) {
	out := make([]*entity.InspirationLogo, 0, len(ids))
	for _, id := range ids {
		if logo, ok := r.logos[id]; ok {
			out = append(out, logo)
		}
	}
	return out, nil
}

func TestIndexRequiresDescription(t *testing.T) {
	s := NewService(&stubEmbedder{}, newMemIndex(), newMemInspirationRepo())

	_, err := s.Index(context.Background(), nil)
	assert.Error(t, err)

	_, err = s.Index(context.Background(), &entity.InspirationLogo{Description: "   "})
	assert.Error(t, err)
}

func TestIndexAssignsIDAndStoresVector(t *testing.T) {
	embedder := &stubEmbedder{vector: []float32{0.1, 0.2}}
	index := newMemIndex()
	repo := newMemInspirationRepo()
	s := NewService(embedder, index, repo)

	logo, err := s.Index(context.Background(), &entity.InspirationLogo{
		Title:       "Mountain Mark",
		Description: "a minimalist mountain logo",
		Industry:    "outdoor",
		Tags:        []string{"minimal", "nature"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, logo.ID)
	assert.Contains(t, repo.logos, logo.ID)
	assert.Contains(t, index.inserted, logo.ID)

	// 向量化文本拼接标题、描述、行业与标签
	require.Len(t, embedder.texts, 1)
	assert.Equal(t, "Mountain Mark. a minimalist mountain logo. outdoor. minimal nature", embedder.texts[0])
}

func TestIndexEmbeddingFailure(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("embedding service down")}
	s := NewService(embedder, newMemIndex(), newMemInspirationRepo())

	_, err := s.Index(context.Background(), &entity.InspirationLogo{Description: "a logo"})
	assert.Error(t, err)
}

func TestSearchRequiresQuery(t *testing.T) {
	s := NewService(&stubEmbedder{vector: []float32{0.1}}, newMemIndex(), newMemInspirationRepo())

	_, err := s.Search(context.Background(), "   ", 5)
	assert.Error(t, err)
}

func TestSearchPreservesHitOrder(t *testing.T) {
	embedder := &stubEmbedder{vector: []float32{0.1}}
	index := newMemIndex()
	repo := newMemInspirationRepo()
	s := NewService(embedder, index, repo)

	repo.logos["a"] = &entity.InspirationLogo{ID: "a", Description: "first"}
	repo.logos["b"] = &entity.InspirationLogo{ID: "b", Description: "second"}
	index.hits = []VectorHit{
		{ID: "b", Score: 0.95},
		{ID: "a", Score: 0.80},
		{ID: "missing", Score: 0.50},
	}

	matches, err := s.Search(context.Background(), "minimalist mountain", 5)
	require.NoError(t, err)

	// 保持召回顺序；仓储缺失的命中被跳过
	require.Len(t, matches, 2)
	assert.Equal(t, "b", matches[0].Logo.ID)
	assert.InDelta(t, 0.95, float64(matches[0].Score), 1e-6)
	assert.Equal(t, "a", matches[1].Logo.ID)
}

func TestSearchNoHits(t *testing.T) {
	s := NewService(&stubEmbedder{vector: []float32{0.1}}, newMemIndex(), newMemInspirationRepo())

	matches, err := s.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}
