package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"z-logo-ai-api/internal/application/prompt"
	"z-logo-ai-api/internal/domain/entity"
	apperrors "z-logo-ai-api/pkg/errors"
	"z-logo-ai-api/pkg/logger"
	"z-logo-ai-api/pkg/metrics"
)

// 阶段百分比锚点。单项进度在 [pctItemsBase, pctProcessing) 区间内按完成数线性插值。
const (
	pctPrompts    = 5
	pctItemsBase  = 10
	pctProcessing = 90
	pctDone       = 100
)

// Coordinator 生成工作流协调器。驱动
// generating_prompts -> creating_logos -> processing_results -> completed/error
// 状态机，对批量操作的单项失败就地恢复，只有结构性错误才会终止整个流程。
type Coordinator struct {
	compiler *prompt.Compiler
	provider ImageGenerator
	resolver ImageResolver
	registry *registry

	outputFormat string
}

// NewCoordinator 创建协调器
func NewCoordinator(compiler *prompt.Compiler, provider ImageGenerator, resolver ImageResolver, outputFormat string) *Coordinator {
	if outputFormat == "" {
		outputFormat = "png"
	}
	return &Coordinator{
		compiler:     compiler,
		provider:     provider,
		resolver:     resolver,
		registry:     newRegistry(),
		outputFormat: outputFormat,
	}
}

// GenerateLogos 执行一次完整的生成工作流。
// 返回的结果永远非 nil；error 仅在结构性失败（提示词编译失败等）时非空，
// 单项提供商失败计入 FailedCount 而不会中止批次。
func (c *Coordinator) GenerateLogos(ctx context.Context, req *entity.GenerationRequest, onProgress ProgressCallback) (*entity.GenerationResult, error) {
	count := 1
	if req != nil && req.VariationCount > 0 {
		count = req.VariationCount
	}

	workflowID := uuid.New().String()
	ctx = logger.WithContext(ctx, logger.WorkflowIDKey, workflowID)
	start := time.Now()

	runCtx, finish := c.begin(ctx, workflowID, count, onProgress)
	defer finish()

	c.advance(workflowID, entity.StatusGeneratingPrompts, "compile_prompts", "compiling prompts", pctPrompts)

	prompts, err := c.compiler.CompileVariations(req, count)
	if err != nil {
		return c.fail(ctx, workflowID, entity.KindNew, apperrors.Wrap(err, apperrors.CodePromptCompileFailed, "prompt compilation failed"), start)
	}

	c.advance(workflowID, entity.StatusCreatingLogos, "create_logos", "dispatching provider calls", pctItemsBase)

	logos := make([]*entity.GeneratedLogo, 0, len(prompts))
	for i, p := range prompts {
		logo := c.createLogo(runCtx, p, req, entity.KindNew)
		logos = append(logos, logo)
		c.recordItem(workflowID, logo, itemPercentage(i+1, len(prompts)))
	}

	return c.complete(ctx, workflowID, entity.KindNew, logos, start), nil
}

// GenerateVariations 基于既有 Logo 生成变体。
// 每个变体独立解析参考图像并独立失败，互不影响。
func (c *Coordinator) GenerateVariations(ctx context.Context, original *entity.GeneratedLogo, count int, onProgress ProgressCallback) (*entity.GenerationResult, error) {
	if count <= 0 {
		count = 1
	}

	workflowID := uuid.New().String()
	ctx = logger.WithContext(ctx, logger.WorkflowIDKey, workflowID)
	start := time.Now()

	runCtx, finish := c.begin(ctx, workflowID, count, onProgress)
	defer finish()

	if original == nil {
		return c.fail(ctx, workflowID, entity.KindVariation,
			apperrors.New(apperrors.CodeInvalidParam, "original logo is required"), start)
	}

	c.advance(workflowID, entity.StatusGeneratingPrompts, "compile_prompts", "compiling variation prompts", pctPrompts)

	templates := prompt.TransformTemplates()
	c.advance(workflowID, entity.StatusCreatingLogos, "create_logos", "dispatching provider calls", pctItemsBase)

	logos := make([]*entity.GeneratedLogo, 0, count)
	for i := 0; i < count; i++ {
		tpl := templates[i%len(templates)]
		logo := c.createVariation(runCtx, original, tpl)
		logos = append(logos, logo)
		c.recordItem(workflowID, logo, itemPercentage(i+1, count))
	}

	return c.complete(ctx, workflowID, entity.KindVariation, logos, start), nil
}

// EditLogo 将编辑指令应用到既有 Logo，产出单项结果。
// 参考图像解析失败对单项编辑是致命的，作为结构性失败上报。
func (c *Coordinator) EditLogo(ctx context.Context, original *entity.GeneratedLogo, compiled *entity.GeneratedPrompt, onProgress ProgressCallback) (*entity.GenerationResult, error) {
	workflowID := uuid.New().String()
	ctx = logger.WithContext(ctx, logger.WorkflowIDKey, workflowID)
	start := time.Now()

	runCtx, finish := c.begin(ctx, workflowID, 1, onProgress)
	defer finish()

	if original == nil || compiled == nil {
		return c.fail(ctx, workflowID, entity.KindEdit,
			apperrors.New(apperrors.CodeInvalidParam, "original logo and compiled prompt are required"), start)
	}

	c.advance(workflowID, entity.StatusGeneratingPrompts, "compile_prompts", "preparing edit", pctPrompts)

	inline, err := c.resolveInline(runCtx, original)
	if err != nil {
		return c.fail(ctx, workflowID, entity.KindEdit,
			apperrors.Wrap(err, apperrors.CodeImageFetchFailed, "failed to resolve source image"), start)
	}

	c.advance(workflowID, entity.StatusCreatingLogos, "create_logos", "dispatching provider call", pctItemsBase)

	logo := c.editLogo(runCtx, original, compiled, inline)
	c.recordItem(workflowID, logo, itemPercentage(1, 1))

	return c.complete(ctx, workflowID, entity.KindEdit, []*entity.GeneratedLogo{logo}, start), nil
}

// GetGenerationProgress 查询活动工作流的进度快照
func (c *Coordinator) GetGenerationProgress(workflowID string) (*entity.GenerationProgress, error) {
	snapshot, ok := c.registry.snapshot(workflowID)
	if !ok {
		return nil, apperrors.New(apperrors.CodeWorkflowNotFound, "workflow not found").WithDetail(workflowID)
	}
	return snapshot, nil
}

// CancelGeneration 取消工作流：摘除进度条目并取消其上下文。
// 已派发的提供商调用随上下文终止，后续进度回调被抑制。
func (c *Coordinator) CancelGeneration(ctx context.Context, workflowID string) bool {
	cancelled := c.registry.cancel(workflowID)
	if cancelled {
		logger.Info(ctx, "generation workflow cancelled", "workflow_id", workflowID)
	}
	return cancelled
}

// begin 注册工作流并返回可取消的运行上下文
func (c *Coordinator) begin(ctx context.Context, workflowID string, totalSteps int, onProgress ProgressCallback) (context.Context, func()) {
	runCtx, cancel := context.WithCancel(ctx)
	progress := entity.NewGenerationProgress(workflowID, totalSteps)
	c.registry.add(workflowID, progress, onProgress, cancel)
	metrics.ActiveWorkflows.Inc()

	return runCtx, func() {
		c.registry.remove(workflowID)
		metrics.ActiveWorkflows.Dec()
		cancel()
	}
}

// advance 推进状态并通知订阅方
func (c *Coordinator) advance(workflowID string, status entity.GenerationStatus, step, message string, percentage int) {
	c.notify(workflowID, func(p *entity.GenerationProgress) {
		p.Advance(status, step, message)
		p.UpdatePercentage(percentage)
	})
}

// recordItem 记录一条单项产出并通知订阅方
func (c *Coordinator) recordItem(workflowID string, logo *entity.GeneratedLogo, percentage int) {
	c.notify(workflowID, func(p *entity.GenerationProgress) {
		p.AddLogo(logo)
		p.UpdatePercentage(percentage)
	})
}

// notify 持锁修改进度，随后在锁外执行回调。
// 工作流已被取消时 update 返回 nil，静默跳过。
func (c *Coordinator) notify(workflowID string, mutate func(p *entity.GenerationProgress)) {
	snapshot, callback := c.registry.update(workflowID, mutate)
	if snapshot == nil || callback == nil {
		return
	}
	callback(snapshot)
}

// complete 收尾：整理结果、推进终态并上报指标
func (c *Coordinator) complete(ctx context.Context, workflowID string, kind entity.GenerationKind, logos []*entity.GeneratedLogo, start time.Time) *entity.GenerationResult {
	c.advance(workflowID, entity.StatusProcessingResults, "process_results", "sorting results", pctProcessing)

	result := buildResult(workflowID, logos, time.Since(start).Milliseconds())

	c.notify(workflowID, func(p *entity.GenerationProgress) {
		p.Complete(fmt.Sprintf("generated %d logos, %d failed", result.TotalGenerated, result.FailedCount))
	})

	metrics.GenerationTotal.WithLabelValues(string(kind), "completed").Inc()
	metrics.GenerationDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	logger.Info(ctx, "generation workflow completed",
		"kind", string(kind),
		"generated", result.TotalGenerated,
		"failed", result.FailedCount,
		"duration_ms", result.TotalProcessingMs,
	)
	return result
}

// fail 结构性失败收尾：终态 error，百分比冻结在最后上报值
func (c *Coordinator) fail(ctx context.Context, workflowID string, kind entity.GenerationKind, err error, start time.Time) (*entity.GenerationResult, error) {
	c.notify(workflowID, func(p *entity.GenerationProgress) {
		p.Fail(err.Error())
	})

	metrics.GenerationTotal.WithLabelValues(string(kind), "error").Inc()
	metrics.GenerationDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	logger.Error(ctx, "generation workflow failed", err, "kind", string(kind))
	return failedResult(workflowID, err, time.Since(start).Milliseconds()), err
}

// createLogo 执行一次生成调用，失败只标记该项
func (c *Coordinator) createLogo(ctx context.Context, p *entity.GeneratedPrompt, req *entity.GenerationRequest, kind entity.GenerationKind) *entity.GeneratedLogo {
	itemStart := time.Now()
	logo := &entity.GeneratedLogo{
		ID:     uuid.New().String(),
		Prompt: p,
		Status: entity.LogoStatusGenerating,
		Metadata: entity.LogoMetadata{
			CreatedAt:       itemStart,
			Kind:            kind,
			CompanyName:     req.CompanyName,
			Industry:        req.Industry,
			BusinessType:    req.BusinessType,
			StyleTags:       req.StylePreferences,
			ColorTags:       req.ColorPreferences,
			UsedInspiration: req.InspirationImageURL != "",
		},
	}

	result, err := c.provider.GenerateImage(ctx, GenerateParams{
		Prompt:         p.MainPrompt,
		NegativePrompt: p.NegativePrompt,
		AspectRatio:    p.AspectRatio,
		OutputFormat:   c.outputFormat,
		Steps:          p.Quality.Steps,
		Guidance:       p.Quality.Guidance,
	})
	c.finishItem(ctx, logo, result, err, kind, itemStart)
	return logo
}

// createVariation 执行一次变体编辑调用。参考图像解析失败只标记该变体。
func (c *Coordinator) createVariation(ctx context.Context, original *entity.GeneratedLogo, tpl prompt.TransformTemplate) *entity.GeneratedLogo {
	itemStart := time.Now()
	meta := original.Metadata
	meta.CreatedAt = itemStart
	meta.Kind = entity.KindVariation
	meta.ProcessingMs = 0

	logo := &entity.GeneratedLogo{
		ID:       uuid.New().String(),
		Status:   entity.LogoStatusGenerating,
		Metadata: meta,
	}

	compiled, err := c.compiler.CompileEdit(tpl.Instructions, original.Metadata)
	if err != nil {
		c.finishItem(ctx, logo, nil, err, entity.KindVariation, itemStart)
		return logo
	}
	compiled.Quality.Strength = prompt.ClampStrength(tpl.Strength)
	logo.Prompt = compiled

	inline, err := c.resolveInline(ctx, original)
	if err != nil {
		c.finishItem(ctx, logo, nil, err, entity.KindVariation, itemStart)
		return logo
	}

	result, err := c.provider.EditImage(ctx, inline, EditParams{
		Prompt:       compiled.MainPrompt,
		AspectRatio:  compiled.AspectRatio,
		OutputFormat: c.outputFormat,
		Strength:     compiled.Quality.Strength,
	})
	c.finishItem(ctx, logo, result, err, entity.KindVariation, itemStart)
	return logo
}

// editLogo 执行一次编辑调用，inline 已由调用方解析
func (c *Coordinator) editLogo(ctx context.Context, original *entity.GeneratedLogo, compiled *entity.GeneratedPrompt, inline string) *entity.GeneratedLogo {
	itemStart := time.Now()
	meta := original.Metadata
	meta.CreatedAt = itemStart
	meta.Kind = entity.KindEdit
	meta.ProcessingMs = 0

	logo := &entity.GeneratedLogo{
		ID:       uuid.New().String(),
		Prompt:   compiled,
		Status:   entity.LogoStatusGenerating,
		Metadata: meta,
	}

	strength := compiled.Quality.Strength
	if strength == 0 {
		strength = prompt.ClampStrength(0.75)
	}

	result, err := c.provider.EditImage(ctx, inline, EditParams{
		Prompt:       compiled.MainPrompt,
		AspectRatio:  compiled.AspectRatio,
		OutputFormat: c.outputFormat,
		Strength:     strength,
	})
	c.finishItem(ctx, logo, result, err, entity.KindEdit, itemStart)
	return logo
}

// finishItem 统一的单项收尾：写入产物或失败原因并上报单项指标
func (c *Coordinator) finishItem(ctx context.Context, logo *entity.GeneratedLogo, result *ProviderResult, err error, kind entity.GenerationKind, itemStart time.Time) {
	logo.Metadata.ProcessingMs = time.Since(itemStart).Milliseconds()

	if err != nil {
		logo.Status = entity.LogoStatusFailed
		logo.Error = err.Error()
		metrics.GenerationItemsTotal.WithLabelValues(string(kind), "failed").Inc()
		logger.Warn(ctx, "logo item failed", "logo_id", logo.ID, "kind", string(kind), "error", err.Error())
		return
	}

	logo.Status = entity.LogoStatusCompleted
	logo.ImageURL = result.ImageURL
	logo.ImageData = result.ImageData
	logo.ProviderRequestID = result.RequestID
	metrics.GenerationItemsTotal.WithLabelValues(string(kind), "completed").Inc()
}

// resolveInline 取得参考图像的内联数据：优先使用已持有的数据，否则经解析器抓取
func (c *Coordinator) resolveInline(ctx context.Context, original *entity.GeneratedLogo) (string, error) {
	if original.HasInlineData() {
		return original.ImageData, nil
	}
	if original.ImageURL == "" {
		return "", fmt.Errorf("logo has neither inline data nor an image url")
	}
	return c.resolver.Resolve(ctx, original.ImageURL)
}

// itemPercentage 单项完成后的批次百分比
func itemPercentage(done, total int) int {
	if total <= 0 {
		return pctProcessing
	}
	return pctItemsBase + (pctProcessing-pctItemsBase)*done/total
}
