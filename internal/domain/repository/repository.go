// Package repository 定义领域仓储接口
package repository

import (
	"context"
)

// TxKey 事务上下文键
type TxKey struct{}

// Transactor 事务管理接口
type Transactor interface {
	// WithTransaction 在事务中执行操作，fn 返回错误时回滚
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
