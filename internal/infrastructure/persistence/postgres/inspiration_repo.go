// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"z-logo-ai-api/internal/domain/entity"
)

// InspirationRepository 灵感 Logo 仓储实现
type InspirationRepository struct {
	client *Client
}

// NewInspirationRepository 创建灵感仓储
func NewInspirationRepository(client *Client) *InspirationRepository {
	return &InspirationRepository{client: client}
}

// Save 保存灵感 Logo（按 ID upsert）
func (r *InspirationRepository) Save(ctx context.Context, logo *entity.InspirationLogo) error {
	ctx, span := tracer.Start(ctx, "postgres.InspirationRepository.Save")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		INSERT INTO inspiration_logos (id, title, description, image_url, industry, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			industry = EXCLUDED.industry,
			tags = EXCLUDED.tags
		RETURNING created_at
	`

	err := q.QueryRowContext(ctx, query,
		logo.ID, logo.Title, logo.Description, logo.ImageURL, logo.Industry, pq.Array(logo.Tags),
	).Scan(&logo.CreatedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save inspiration: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取灵感 Logo，未找到返回 nil
func (r *InspirationRepository) GetByID(ctx context.Context, id string) (*entity.InspirationLogo, error) {
	ctx, span := tracer.Start(ctx, "postgres.InspirationRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		SELECT id, title, description, image_url, industry, tags, created_at
		FROM inspiration_logos
		WHERE id = $1
	`

	var logo entity.InspirationLogo
	var tags pq.StringArray

	err := q.QueryRowContext(ctx, query, id).Scan(
		&logo.ID, &logo.Title, &logo.Description, &logo.ImageURL,
		&logo.Industry, &tags, &logo.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get inspiration: %w", err)
	}

	logo.Tags = tags
	return &logo, nil
}

// GetByIDs 批量获取灵感 Logo，缺失的 ID 静默跳过
func (r *InspirationRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.InspirationLogo, error) {
	ctx, span := tracer.Start(ctx, "postgres.InspirationRepository.GetByIDs")
	defer span.End()

	if len(ids) == 0 {
		return []*entity.InspirationLogo{}, nil
	}

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		SELECT id, title, description, image_url, industry, tags, created_at
		FROM inspiration_logos
		WHERE id = ANY($1)
	`

	rows, err := q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get inspirations: %w", err)
	}
	defer rows.Close()

	var logos []*entity.InspirationLogo
	for rows.Next() {
		var logo entity.InspirationLogo
		var tags pq.StringArray
		if err := rows.Scan(
			&logo.ID, &logo.Title, &logo.Description, &logo.ImageURL,
			&logo.Industry, &tags, &logo.CreatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan inspiration: %w", err)
		}
		logo.Tags = tags
		logos = append(logos, &logo)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate inspirations: %w", err)
	}
	return logos, nil
}
