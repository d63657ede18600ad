// Package repository 定义领域仓储接口
package repository

import (
	"context"

	"z-logo-ai-api/internal/domain/entity"
)

// LogoRepository Logo 画廊仓储接口
type LogoRepository interface {
	// Save 保存一个已生成的 Logo（幂等：按 ID upsert）
	Save(ctx context.Context, logo *entity.GeneratedLogo) error
	// GetByID 按 ID 获取 Logo，未找到返回 nil
	GetByID(ctx context.Context, id string) (*entity.GeneratedLogo, error)
	// List 按创建时间倒序列出 Logo
	List(ctx context.Context, limit, offset int) ([]*entity.GeneratedLogo, int, error)
	// Delete 删除 Logo
	Delete(ctx context.Context, id string) error
}

// InspirationRepository 灵感 Logo 仓储接口
type InspirationRepository interface {
	Save(ctx context.Context, logo *entity.InspirationLogo) error
	GetByID(ctx context.Context, id string) (*entity.InspirationLogo, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.InspirationLogo, error)
}
