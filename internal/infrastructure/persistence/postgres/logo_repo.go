// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"z-logo-ai-api/internal/domain/entity"
)

// LogoRepository Logo 画廊仓储实现
type LogoRepository struct {
	client *Client
}

// NewLogoRepository 创建 Logo 仓储
func NewLogoRepository(client *Client) *LogoRepository {
	return &LogoRepository{client: client}
}

// Save 保存 Logo（按 ID upsert）
func (r *LogoRepository) Save(ctx context.Context, logo *entity.GeneratedLogo) error {
	ctx, span := tracer.Start(ctx, "postgres.LogoRepository.Save")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	promptJSON, _ := json.Marshal(logo.Prompt)
	metadataJSON, _ := json.Marshal(logo.Metadata)

	query := `
		INSERT INTO logos (id, image_url, image_data, prompt, provider_request_id, metadata, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET image_url = EXCLUDED.image_url,
			image_data = EXCLUDED.image_data,
			prompt = EXCLUDED.prompt,
			provider_request_id = EXCLUDED.provider_request_id,
			metadata = EXCLUDED.metadata,
			status = EXCLUDED.status,
			error = EXCLUDED.error
	`

	_, err := q.ExecContext(ctx, query,
		logo.ID, logo.ImageURL, logo.ImageData, promptJSON, logo.ProviderRequestID,
		metadataJSON, logo.Status, logo.Error, logo.Metadata.CreatedAt,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save logo: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取 Logo，未找到返回 nil
func (r *LogoRepository) GetByID(ctx context.Context, id string) (*entity.GeneratedLogo, error) {
	ctx, span := tracer.Start(ctx, "postgres.LogoRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		SELECT id, image_url, image_data, prompt, provider_request_id, metadata, status, error
		FROM logos
		WHERE id = $1
	`

	logo, err := scanLogo(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get logo: %w", err)
	}
	return logo, nil
}

// List 按创建时间倒序列出 Logo
func (r *LogoRepository) List(ctx context.Context, limit, offset int) ([]*entity.GeneratedLogo, int, error) {
	ctx, span := tracer.Start(ctx, "postgres.LogoRepository.List")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM logos`).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to count logos: %w", err)
	}

	query := `
		SELECT id, image_url, image_data, prompt, provider_request_id, metadata, status, error
		FROM logos
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := q.QueryContext(ctx, query, limit, offset)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to list logos: %w", err)
	}
	defer rows.Close()

	var logos []*entity.GeneratedLogo
	for rows.Next() {
		logo, err := scanLogo(rows)
		if err != nil {
			span.RecordError(err)
			return nil, 0, fmt.Errorf("failed to scan logo: %w", err)
		}
		logos = append(logos, logo)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to iterate logos: %w", err)
	}
	return logos, total, nil
}

// Delete 删除 Logo
func (r *LogoRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.LogoRepository.Delete")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if _, err := q.ExecContext(ctx, `DELETE FROM logos WHERE id = $1`, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete logo: %w", err)
	}
	return nil
}

// rowScanner sql.Row 与 sql.Rows 的公共扫描接口
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanLogo 从查询结果扫描一条 Logo
func scanLogo(row rowScanner) (*entity.GeneratedLogo, error) {
	var logo entity.GeneratedLogo
	var promptJSON, metadataJSON []byte

	err := row.Scan(
		&logo.ID, &logo.ImageURL, &logo.ImageData, &promptJSON,
		&logo.ProviderRequestID, &metadataJSON, &logo.Status, &logo.Error,
	)
	if err != nil {
		return nil, err
	}

	if len(promptJSON) > 0 {
		json.Unmarshal(promptJSON, &logo.Prompt)
	}
	json.Unmarshal(metadataJSON, &logo.Metadata)
	return &logo, nil
}
