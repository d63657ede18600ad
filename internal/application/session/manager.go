// Package session 提供编辑会话管理
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"z-logo-ai-api/internal/application/command"
	"z-logo-ai-api/internal/application/prompt"
	"z-logo-ai-api/internal/application/workflow"
	"z-logo-ai-api/internal/domain/entity"
	"z-logo-ai-api/internal/domain/repository"
	apperrors "z-logo-ai-api/pkg/errors"
	"z-logo-ai-api/pkg/logger"
)

// Manager 编辑会话管理器。会话锚定原始 Logo，
// 每次成功编辑以新的当前 Logo 推进会话，历史仅追加。
type Manager struct {
	coordinator *workflow.Coordinator
	parser      *command.Parser
	sessions    repository.SessionRepository
	logos       repository.LogoRepository
}

// NewManager 创建会话管理器
func NewManager(coordinator *workflow.Coordinator, parser *command.Parser, sessions repository.SessionRepository, logos repository.LogoRepository) *Manager {
	return &Manager{
		coordinator: coordinator,
		parser:      parser,
		sessions:    sessions,
		logos:       logos,
	}
}

// StartSession 基于一个已存在的 Logo 开启编辑会话
func (m *Manager) StartSession(ctx context.Context, logoID string) (*entity.EditingSession, error) {
	logo, err := m.logos.GetByID(ctx, logoID)
	if err != nil {
		return nil, err
	}
	if logo == nil {
		return nil, apperrors.ErrLogoNotFound.WithDetail(logoID)
	}

	session := entity.NewEditingSession(uuid.New().String(), logo)
	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	logger.Info(ctx, "editing session started", "session_id", session.ID, "logo_id", logoID)
	return session, nil
}

// GetSession 获取会话（含完整操作历史）
func (m *Manager) GetSession(ctx context.Context, sessionID string) (*entity.EditingSession, error) {
	session, err := m.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound.WithDetail(sessionID)
	}
	return session, nil
}

// ExecuteCommand 在会话内执行一条自然语言编辑指令。
// 解析永不失败；编辑调用失败时操作以 failed 入史，当前 Logo 不变。
func (m *Manager) ExecuteCommand(ctx context.Context, sessionID string, text string) (*entity.EditingSession, *entity.EditOperation, error) {
	session, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	ctx = logger.WithContext(ctx, logger.SessionIDKey, sessionID)

	cmd := m.parser.Parse(ctx, text, session.CurrentLogo)

	op := &entity.EditOperation{
		ID:          uuid.New().String(),
		Command:     cmd,
		BeforeImage: imageRef(session.CurrentLogo),
		Status:      entity.EditStatusPending,
		CreatedAt:   time.Now(),
	}

	if cmd.Prompt == nil {
		// 指令编译失败（通用兜底指令没有可派发的提示词）
		op.Status = entity.EditStatusFailed
		op.Error = "command could not be compiled into an edit prompt"
		if err := m.sessions.AppendOperation(ctx, session, op); err != nil {
			return nil, nil, err
		}
		session.AppendOperation(op, nil)
		return session, op, nil
	}

	result, err := m.coordinator.EditLogo(ctx, session.CurrentLogo, cmd.Prompt, nil)
	edited := firstCompleted(result)

	switch {
	case err != nil:
		op.Status = entity.EditStatusFailed
		op.Error = err.Error()
	case edited == nil:
		op.Status = entity.EditStatusFailed
		op.Error = firstError(result)
	default:
		op.Status = entity.EditStatusCompleted
		op.AfterImage = imageRef(edited)
	}

	if err := m.sessions.AppendOperation(ctx, session, op); err != nil {
		return nil, nil, err
	}
	session.AppendOperation(op, edited)

	if edited != nil {
		if err := m.logos.Save(ctx, edited); err != nil {
			logger.Warn(ctx, "failed to persist edited logo", "logo_id", edited.ID, "error", err.Error())
		}
	}

	logger.Info(ctx, "edit command executed",
		"session_id", sessionID,
		"kind", string(cmd.Kind),
		"status", string(op.Status),
	)
	return session, op, nil
}

// GenerateEditingVariations 在会话内按同一指令生成多个候选编辑，
// 措辞轮换产生差异。候选不替换当前 Logo，由调用方经 SelectLogo 选定。
func (m *Manager) GenerateEditingVariations(ctx context.Context, sessionID string, text string, count int) (*entity.GenerationResult, error) {
	session, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithContext(ctx, logger.SessionIDKey, sessionID)

	if count <= 0 {
		count = 3
	}

	phrasings := prompt.EditPhrasings()
	logos := make([]*entity.GeneratedLogo, 0, count)
	var totalMs int64

	for i := 0; i < count; i++ {
		phrased := fmt.Sprintf("%s, %s", strings.TrimSpace(text), phrasings[i%len(phrasings)])
		cmd := m.parser.Parse(ctx, phrased, session.CurrentLogo)
		if cmd.Prompt == nil {
			logos = append(logos, failedCandidate("variation command could not be compiled into an edit prompt"))
			continue
		}

		result, err := m.coordinator.EditLogo(ctx, session.CurrentLogo, cmd.Prompt, nil)
		if err != nil {
			// 结构性失败也要在结果里占一席，候选不凭空消失
			logger.Warn(ctx, "editing variation failed", "index", i, "error", err.Error())
			logos = append(logos, failedCandidate(err.Error()))
			continue
		}
		logos = append(logos, result.Logos...)
		totalMs += result.TotalProcessingMs
	}

	var generated, failed int
	for _, logo := range logos {
		if logo.Status == entity.LogoStatusCompleted {
			generated++
			if err := m.logos.Save(ctx, logo); err != nil {
				logger.Warn(ctx, "failed to persist variation logo", "logo_id", logo.ID, "error", err.Error())
			}
		} else {
			failed++
		}
	}

	return &entity.GenerationResult{
		Success:           true,
		Logos:             logos,
		TotalGenerated:    generated,
		FailedCount:       failed,
		TotalProcessingMs: totalMs,
	}, nil
}

// SelectLogo 将某个候选 Logo 显式选为会话当前 Logo
func (m *Manager) SelectLogo(ctx context.Context, sessionID string, logoID string) (*entity.EditingSession, error) {
	session, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	logo, err := m.logos.GetByID(ctx, logoID)
	if err != nil {
		return nil, err
	}
	if logo == nil {
		return nil, apperrors.ErrLogoNotFound.WithDetail(logoID)
	}

	session.SelectLogo(logo)
	if err := m.sessions.UpdateCurrentLogo(ctx, sessionID, logo); err != nil {
		return nil, err
	}

	logger.Info(ctx, "session logo selected", "session_id", sessionID, "logo_id", logoID)
	return session, nil
}

// failedCandidate 未能派发的变体候选占位失败项
func failedCandidate(reason string) *entity.GeneratedLogo {
	return &entity.GeneratedLogo{
		ID:     uuid.New().String(),
		Status: entity.LogoStatusFailed,
		Error:  reason,
		Metadata: entity.LogoMetadata{
			CreatedAt: time.Now(),
			Kind:      entity.KindEdit,
		},
	}
}

// imageRef 操作历史中记录的图像引用：优先地址，其次内联数据
func imageRef(logo *entity.GeneratedLogo) string {
	if logo == nil {
		return ""
	}
	if logo.ImageURL != "" {
		return logo.ImageURL
	}
	return logo.ImageData
}

// firstCompleted 返回结果中第一个成功项
func firstCompleted(result *entity.GenerationResult) *entity.GeneratedLogo {
	if result == nil {
		return nil
	}
	for _, logo := range result.Logos {
		if logo.Status == entity.LogoStatusCompleted {
			return logo
		}
	}
	return nil
}

// firstError 返回结果中第一个失败项的错误描述
func firstError(result *entity.GenerationResult) string {
	if result == nil {
		return "edit produced no result"
	}
	for _, logo := range result.Logos {
		if logo.Error != "" {
			return logo.Error
		}
	}
	if result.Error != "" {
		return result.Error
	}
	return "edit produced no completed logo"
}
