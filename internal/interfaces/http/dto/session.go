package dto

import (
	"time"

	"z-logo-ai-api/internal/domain/entity"
)

// StartSessionRequest 开启编辑会话请求
type StartSessionRequest struct {
	LogoID string `json:"logo_id" binding:"required,uuid"`
}

// ExecuteCommandRequest 会话内执行编辑指令请求
type ExecuteCommandRequest struct {
	Text string `json:"text" binding:"required,max=512"`
}

// SessionVariationsRequest 会话内生成候选编辑请求
type SessionVariationsRequest struct {
	Text  string `json:"text" binding:"required,max=512"`
	Count int    `json:"count" binding:"min=0,max=8"`
}

// SelectLogoRequest 选定候选 Logo 请求
type SelectLogoRequest struct {
	LogoID string `json:"logo_id" binding:"required,uuid"`
}

// EditOperationResponse 操作历史记录响应
type EditOperationResponse struct {
	ID          string               `json:"id"`
	Command     *EditCommandResponse `json:"command,omitempty"`
	BeforeImage string               `json:"before_image,omitempty"`
	AfterImage  string               `json:"after_image,omitempty"`
	Status      string               `json:"status"`
	Error       string               `json:"error,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// NewEditOperationResponse 从领域操作记录构建响应
func NewEditOperationResponse(op *entity.EditOperation) *EditOperationResponse {
	if op == nil {
		return nil
	}
	resp := &EditOperationResponse{
		ID:          op.ID,
		BeforeImage: op.BeforeImage,
		AfterImage:  op.AfterImage,
		Status:      string(op.Status),
		Error:       op.Error,
		CreatedAt:   op.CreatedAt,
	}
	if op.Command != nil {
		resp.Command = NewEditCommandResponse(op.Command)
	}
	return resp
}

// SessionResponse 编辑会话响应
type SessionResponse struct {
	ID           string                   `json:"id"`
	OriginalLogo *LogoResponse            `json:"original_logo"`
	CurrentLogo  *LogoResponse            `json:"current_logo"`
	History      []*EditOperationResponse `json:"history"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// NewSessionResponse 从领域会话构建响应
func NewSessionResponse(session *entity.EditingSession) *SessionResponse {
	history := make([]*EditOperationResponse, 0, len(session.History))
	for _, op := range session.History {
		history = append(history, NewEditOperationResponse(op))
	}
	return &SessionResponse{
		ID:           session.ID,
		OriginalLogo: NewLogoResponse(session.OriginalLogo),
		CurrentLogo:  NewLogoResponse(session.CurrentLogo),
		History:      history,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	}
}

// ExecuteCommandResponse 指令执行结果响应
type ExecuteCommandResponse struct {
	Session   *SessionResponse       `json:"session"`
	Operation *EditOperationResponse `json:"operation"`
}
