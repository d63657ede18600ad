package workflow

import (
	"context"
	"sync"

	"z-logo-ai-api/internal/domain/entity"
)

// progressEntry 注册表中的一条活动工作流
type progressEntry struct {
	progress   *entity.GenerationProgress
	onProgress ProgressCallback
	cancel     context.CancelFunc
}

// registry 活动工作流注册表。进度对象只在持锁时修改，
// 对外只暴露快照，回调在锁外执行。
type registry struct {
	mu      sync.RWMutex
	entries map[string]*progressEntry
}

func newRegistry() *registry {
	return &registry{
		entries: make(map[string]*progressEntry),
	}
}

// add 注册一条活动工作流
func (r *registry) add(workflowID string, progress *entity.GenerationProgress, onProgress ProgressCallback, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[workflowID] = &progressEntry{
		progress:   progress,
		onProgress: onProgress,
		cancel:     cancel,
	}
}

// snapshot 返回指定工作流的进度快照
func (r *registry) snapshot(workflowID string) (*entity.GenerationProgress, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[workflowID]
	if !ok {
		return nil, false
	}
	return entry.progress.Clone(), true
}

// update 持锁修改进度并返回快照与回调。
// 工作流已被取消（条目不存在）时返回 nil，调用方据此跳过回调。
func (r *registry) update(workflowID string, mutate func(p *entity.GenerationProgress)) (*entity.GenerationProgress, ProgressCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[workflowID]
	if !ok {
		return nil, nil
	}
	mutate(entry.progress)
	return entry.progress.Clone(), entry.onProgress
}

// remove 摘除工作流，返回是否存在
func (r *registry) remove(workflowID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[workflowID]; !ok {
		return false
	}
	delete(r.entries, workflowID)
	return true
}

// cancel 摘除工作流并取消其上下文，后续进度更新与回调均被抑制
func (r *registry) cancel(workflowID string) bool {
	r.mu.Lock()
	entry, ok := r.entries[workflowID]
	if ok {
		delete(r.entries, workflowID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	if entry.cancel != nil {
		entry.cancel()
	}
	return true
}
