// Package entity 定义领域实体
package entity

import (
	"time"
)

// CommandKind 编辑指令类型
type CommandKind string

const (
	CommandColorChange        CommandKind = "color_change"
	CommandStyleChange        CommandKind = "style_change"
	CommandTextEdit           CommandKind = "text_edit"
	CommandLayoutAdjustment   CommandKind = "layout_adjustment"
	CommandSizeChange         CommandKind = "size_change"
	CommandShapeModification  CommandKind = "shape_modification"
	CommandEffectAddition     CommandKind = "effect_addition"
	CommandElementRemoval     CommandKind = "element_removal"
	CommandSeasonalAdaptation CommandKind = "seasonal_adaptation"
)

// StructuredCommand LLM 或兜底逻辑抽取的结构化三元组
type StructuredCommand struct {
	Action    string   `json:"action"`
	Target    string   `json:"target"`
	Value     string   `json:"value"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// EditCommand 解析后的编辑指令，产出后不可变
type EditCommand struct {
	Kind       CommandKind       `json:"kind"`
	Confidence float64           `json:"confidence"`
	InputText  string            `json:"input_text"`
	Structured StructuredCommand `json:"structured"`
	// Prompt 面向提供商的编译产物
	Prompt *GeneratedPrompt `json:"prompt,omitempty"`
	// Strength 编辑强度，始终在 [0.1, 1.0] 内
	Strength        float64   `json:"strength"`
	ParsedAt        time.Time `json:"parsed_at"`
	ParseDurationMs int64     `json:"parse_duration_ms"`
	// Alternatives 备选解释（来自 LLM 建议）
	Alternatives []string `json:"alternatives,omitempty"`
}

// EditStatus 编辑操作状态
type EditStatus string

const (
	EditStatusPending   EditStatus = "pending"
	EditStatusCompleted EditStatus = "completed"
	EditStatusFailed    EditStatus = "failed"
)

// EditOperation 编辑会话历史中的一条操作记录，仅追加
type EditOperation struct {
	ID          string       `json:"id"`
	Command     *EditCommand `json:"command"`
	BeforeImage string       `json:"before_image,omitempty"`
	AfterImage  string       `json:"after_image,omitempty"`
	Status      EditStatus   `json:"status"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// EditingSession 一条连续的编辑线程，锚定原始 Logo
type EditingSession struct {
	ID string `json:"id"`
	// OriginalLogo 原始 Logo，会话生命周期内不变
	OriginalLogo *GeneratedLogo `json:"original_logo"`
	// CurrentLogo 当前 Logo，每次成功编辑后被替换
	CurrentLogo *GeneratedLogo `json:"current_logo"`
	// History 按时间排序的操作历史，仅追加
	History   []*EditOperation `json:"history"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewEditingSession 基于一个 Logo 开启编辑会话
func NewEditingSession(id string, logo *GeneratedLogo) *EditingSession {
	now := time.Now()
	return &EditingSession{
		ID:           id,
		OriginalLogo: logo,
		CurrentLogo:  logo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AppendOperation 追加一条操作记录；成功操作携带结果时替换当前 Logo
func (s *EditingSession) AppendOperation(op *EditOperation, result *GeneratedLogo) {
	s.History = append(s.History, op)
	if op.Status == EditStatusCompleted && result != nil {
		s.CurrentLogo = result
	}
	s.UpdatedAt = time.Now()
}

// SelectLogo 显式将某个变体选为当前 Logo
func (s *EditingSession) SelectLogo(logo *GeneratedLogo) {
	if logo == nil {
		return
	}
	s.CurrentLogo = logo
	s.UpdatedAt = time.Now()
}

// OperationCount 历史操作数
func (s *EditingSession) OperationCount() int {
	return len(s.History)
}
