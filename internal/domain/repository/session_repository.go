// Package repository 定义领域仓储接口
package repository

import (
	"context"

	"z-logo-ai-api/internal/domain/entity"
)

// SessionRepository 编辑会话仓储接口
type SessionRepository interface {
	// Create 创建编辑会话
	Create(ctx context.Context, session *entity.EditingSession) error
	// GetByID 获取编辑会话（含完整操作历史），未找到返回 nil
	GetByID(ctx context.Context, id string) (*entity.EditingSession, error)
	// AppendOperation 追加一条操作记录并更新当前 Logo
	AppendOperation(ctx context.Context, session *entity.EditingSession, op *entity.EditOperation) error
	// UpdateCurrentLogo 更新会话的当前 Logo
	UpdateCurrentLogo(ctx context.Context, sessionID string, logo *entity.GeneratedLogo) error
}
