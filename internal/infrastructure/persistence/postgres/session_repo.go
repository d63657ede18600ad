// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"z-logo-ai-api/internal/domain/entity"
)

// SessionRepository 编辑会话仓储实现。
// 会话内的 Logo 以 JSON 快照存储，操作历史独立成表以保证仅追加语义。
type SessionRepository struct {
	client *Client
	tx     *TxManager
}

// NewSessionRepository 创建会话仓储
func NewSessionRepository(client *Client, tx *TxManager) *SessionRepository {
	return &SessionRepository{client: client, tx: tx}
}

// Create 创建编辑会话
func (r *SessionRepository) Create(ctx context.Context, session *entity.EditingSession) error {
	ctx, span := tracer.Start(ctx, "postgres.SessionRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	originalJSON, _ := json.Marshal(session.OriginalLogo)
	currentJSON, _ := json.Marshal(session.CurrentLogo)

	query := `
		INSERT INTO editing_sessions (id, original_logo, current_logo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := q.ExecContext(ctx, query,
		session.ID, originalJSON, currentJSON, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID 获取编辑会话（含完整操作历史），未找到返回 nil
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*entity.EditingSession, error) {
	ctx, span := tracer.Start(ctx, "postgres.SessionRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		SELECT id, original_logo, current_logo, created_at, updated_at
		FROM editing_sessions
		WHERE id = $1
	`

	var session entity.EditingSession
	var originalJSON, currentJSON []byte

	err := q.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &originalJSON, &currentJSON, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	json.Unmarshal(originalJSON, &session.OriginalLogo)
	json.Unmarshal(currentJSON, &session.CurrentLogo)

	history, err := r.loadHistory(ctx, q, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	session.History = history
	return &session, nil
}

// AppendOperation 追加一条操作记录并同步当前 Logo，两步在同一事务内完成
func (r *SessionRepository) AppendOperation(ctx context.Context, session *entity.EditingSession, op *entity.EditOperation) error {
	ctx, span := tracer.Start(ctx, "postgres.SessionRepository.AppendOperation")
	defer span.End()

	return r.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		q := getQuerier(txCtx, r.client.sqlDB)

		commandJSON, _ := json.Marshal(op.Command)

		query := `
			INSERT INTO edit_operations (id, session_id, command, before_image, after_image, status, error, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := q.ExecContext(txCtx, query,
			op.ID, session.ID, commandJSON, op.BeforeImage, op.AfterImage, op.Status, op.Error, op.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to append operation: %w", err)
		}

		_, err = q.ExecContext(txCtx,
			`UPDATE editing_sessions SET updated_at = NOW() WHERE id = $1`, session.ID)
		if err != nil {
			return fmt.Errorf("failed to touch session: %w", err)
		}
		return nil
	})
}

// UpdateCurrentLogo 更新会话的当前 Logo
func (r *SessionRepository) UpdateCurrentLogo(ctx context.Context, sessionID string, logo *entity.GeneratedLogo) error {
	ctx, span := tracer.Start(ctx, "postgres.SessionRepository.UpdateCurrentLogo")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	currentJSON, _ := json.Marshal(logo)

	query := `
		UPDATE editing_sessions
		SET current_logo = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := q.ExecContext(ctx, query, currentJSON, sessionID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update current logo: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("session %s not found", sessionID)
	}
	return nil
}

// loadHistory 按时间顺序加载操作历史
func (r *SessionRepository) loadHistory(ctx context.Context, q Querier, sessionID string) ([]*entity.EditOperation, error) {
	query := `
		SELECT id, command, before_image, after_image, status, error, created_at
		FROM edit_operations
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var history []*entity.EditOperation
	for rows.Next() {
		var op entity.EditOperation
		var commandJSON []byte
		if err := rows.Scan(
			&op.ID, &commandJSON, &op.BeforeImage, &op.AfterImage, &op.Status, &op.Error, &op.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		if len(commandJSON) > 0 {
			json.Unmarshal(commandJSON, &op.Command)
		}
		history = append(history, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return history, nil
}
