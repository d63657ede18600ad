// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"z-logo-ai-api/internal/application/inspiration"
	"z-logo-ai-api/pkg/metrics"
)

// searchEf HNSW 检索期 ef 参数
const searchEf = 128

// Repository 灵感向量索引实现，实现 inspiration.VectorIndex 端口
type Repository struct {
	client    *Client
	dimension int
}

// NewRepository 创建向量索引仓储
func NewRepository(client *Client, dimension int) *Repository {
	if dimension <= 0 {
		dimension = DefaultVectorDimension
	}
	return &Repository{
		client:    client,
		dimension: dimension,
	}
}

// EnsureCollection 确保灵感集合存在并已建立索引和加载
func (r *Repository) EnsureCollection(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.EnsureCollection",
		trace.WithAttributes(attribute.String("collection", CollectionInspirations)))
	defer span.End()

	collName := r.client.CollectionName(CollectionInspirations)

	has, err := r.client.milvus.HasCollection(ctx, collName)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if !has {
		schema := InspirationsSchema(r.dimension)
		schema.CollectionName = collName
		if err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to create collection: %w", err)
		}
		if err := r.createIndex(ctx, collName); err != nil {
			span.RecordError(err)
			return err
		}
	}

	if err := r.client.milvus.LoadCollection(ctx, collName, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to load collection: %w", err)
	}
	return nil
}

// createIndex 创建 HNSW 索引
func (r *Repository) createIndex(ctx context.Context, collName string) error {
	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	if err := r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// Insert 写入一条灵感向量
func (r *Repository) Insert(ctx context.Context, id string, vector []float32) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Insert",
		trace.WithAttributes(attribute.String("inspiration_id", id)))
	defer span.End()

	if len(vector) != r.dimension {
		return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(vector), r.dimension)
	}

	collName := r.client.CollectionName(CollectionInspirations)

	idCol := entity.NewColumnVarChar("id", []string{id})
	vectorCol := entity.NewColumnFloatVector("vector", r.dimension, [][]float32{vector})

	if _, err := r.client.milvus.Insert(ctx, collName, "", idCol, vectorCol); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert vector: %w", err)
	}
	return nil
}

// Search 按向量相似度检索灵感 ID
func (r *Repository) Search(ctx context.Context, vector []float32, topK int) ([]inspiration.VectorHit, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Search",
		trace.WithAttributes(attribute.Int("top_k", topK)))
	defer span.End()

	collName := r.client.CollectionName(CollectionInspirations)
	start := time.Now()

	sp, err := entity.NewIndexHNSWSearchParam(searchEf)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	results, err := r.client.milvus.Search(ctx,
		collName,
		nil,
		"",
		[]string{"id"},
		[]entity.Vector{entity.FloatVector(vector)},
		"vector",
		entity.COSINE,
		topK,
		sp,
	)

	metrics.MilvusSearchDuration.WithLabelValues(CollectionInspirations).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MilvusSearchTotal.WithLabelValues(CollectionInspirations, "error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	metrics.MilvusSearchTotal.WithLabelValues(CollectionInspirations, "success").Inc()

	var hits []inspiration.VectorHit
	for _, result := range results {
		idCol, ok := result.Fields.GetColumn("id").(*entity.ColumnVarChar)
		if !ok {
			continue
		}
		for i := 0; i < result.ResultCount; i++ {
			hits = append(hits, inspiration.VectorHit{
				ID:    idCol.Data()[i],
				Score: result.Scores[i],
			})
		}
	}

	span.SetAttributes(attribute.Int("result_count", len(hits)))
	return hits, nil
}
