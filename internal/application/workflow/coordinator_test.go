package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-logo-ai-api/internal/application/prompt"
	"z-logo-ai-api/internal/domain/entity"
)

// fakeProvider 可编程的图像生成提供商替身
type fakeProvider struct {
	genCalls  int
	editCalls int
	genFunc   func(call int, params GenerateParams) (*ProviderResult, error)
	editFunc  func(call int, inline string, params EditParams) (*ProviderResult, error)
}

func (f *fakeProvider) GenerateImage(_ context.Context, params GenerateParams) (*ProviderResult, error) {
	f.genCalls++
	if f.genFunc != nil {
		return f.genFunc(f.genCalls, params)
	}
	return &ProviderResult{ImageURL: "https://img.example/gen.png", RequestID: "req-gen"}, nil
}

func (f *fakeProvider) EditImage(_ context.Context, inline string, params EditParams) (*ProviderResult, error) {
	f.editCalls++
	if f.editFunc != nil {
		return f.editFunc(f.editCalls, inline, params)
	}
	return &ProviderResult{ImageURL: "https://img.example/edit.png", RequestID: "req-edit"}, nil
}

// fakeResolver 可编程的图像解析器替身
type fakeResolver struct {
	calls int
	data  string
	err   error
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.data, f.err
}

// progressRecorder 收集进度回调快照
type progressRecorder struct {
	snapshots []*entity.GenerationProgress
}

func (r *progressRecorder) callback() ProgressCallback {
	return func(p *entity.GenerationProgress) {
		r.snapshots = append(r.snapshots, p)
	}
}

func (r *progressRecorder) terminalCount() int {
	n := 0
	for _, p := range r.snapshots {
		if p.IsTerminal() {
			n++
		}
	}
	return n
}

func newTestCoordinator(provider ImageGenerator, resolver ImageResolver) *Coordinator {
	return NewCoordinator(prompt.NewCompiler(), provider, resolver, "png")
}

func TestGenerateLogosSuccess(t *testing.T) {
	provider := &fakeProvider{}
	rec := &progressRecorder{}
	c := newTestCoordinator(provider, &fakeResolver{})

	req := &entity.GenerationRequest{
		CompanyName:    "Acme",
		Industry:       "technology",
		VariationCount: 3,
	}

	result, err := c.GenerateLogos(context.Background(), req, rec.callback())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.TotalGenerated)
	assert.Equal(t, 0, result.FailedCount)
	assert.Len(t, result.Logos, 3)
	assert.Equal(t, 3, provider.genCalls)

	for _, logo := range result.Logos {
		assert.Equal(t, entity.LogoStatusCompleted, logo.Status)
		assert.NotEmpty(t, logo.ID)
		assert.Equal(t, "https://img.example/gen.png", logo.ImageURL)
		assert.Equal(t, entity.KindNew, logo.Metadata.Kind)
	}
}

func TestGenerateLogosProgressMonotone(t *testing.T) {
	rec := &progressRecorder{}
	c := newTestCoordinator(&fakeProvider{}, &fakeResolver{})

	_, err := c.GenerateLogos(context.Background(), &entity.GenerationRequest{
		CompanyName:    "Acme",
		VariationCount: 4,
	}, rec.callback())
	require.NoError(t, err)
	require.NotEmpty(t, rec.snapshots)

	last := -1
	for i, p := range rec.snapshots {
		assert.GreaterOrEqual(t, p.Percentage, last, "snapshot %d went backwards", i)
		last = p.Percentage
	}

	final := rec.snapshots[len(rec.snapshots)-1]
	assert.Equal(t, entity.StatusCompleted, final.Status)
	assert.Equal(t, 100, final.Percentage)
	assert.Equal(t, 1, rec.terminalCount())
}

func TestGenerateLogosPartialFailure(t *testing.T) {
	provider := &fakeProvider{
		genFunc: func(call int, _ GenerateParams) (*ProviderResult, error) {
			if call == 2 {
				return nil, errors.New("provider overloaded")
			}
			return &ProviderResult{ImageURL: "https://img.example/ok.png"}, nil
		},
	}
	c := newTestCoordinator(provider, &fakeResolver{})

	result, err := c.GenerateLogos(context.Background(), &entity.GenerationRequest{
		CompanyName:    "Acme",
		VariationCount: 3,
	}, nil)
	require.NoError(t, err, "per-item provider failures must not fail the run")
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalGenerated)
	assert.Equal(t, 1, result.FailedCount)
	assert.Len(t, result.Logos, 3)

	// 成功项排在失败项之前
	assert.Equal(t, entity.LogoStatusCompleted, result.Logos[0].Status)
	assert.Equal(t, entity.LogoStatusCompleted, result.Logos[1].Status)
	assert.Equal(t, entity.LogoStatusFailed, result.Logos[2].Status)
	assert.Contains(t, result.Logos[2].Error, "provider overloaded")
}

func TestGenerateLogosStructuralFailure(t *testing.T) {
	rec := &progressRecorder{}
	c := newTestCoordinator(&fakeProvider{}, &fakeResolver{})

	// 公司名缺失导致提示词编译失败，属于结构性错误
	result, err := c.GenerateLogos(context.Background(), &entity.GenerationRequest{}, rec.callback())
	require.Error(t, err)
	require.NotNil(t, result)

	assert.False(t, result.Success)
	assert.Empty(t, result.Logos)
	assert.NotEmpty(t, result.Error)

	require.NotEmpty(t, rec.snapshots)
	final := rec.snapshots[len(rec.snapshots)-1]
	assert.Equal(t, entity.StatusError, final.Status)
}

func TestGenerateVariationsResolveFailurePerItem(t *testing.T) {
	provider := &fakeProvider{}
	resolver := &fakeResolver{err: errors.New("image unreachable")}
	c := newTestCoordinator(provider, resolver)

	original := &entity.GeneratedLogo{
		ID:       "orig",
		ImageURL: "https://img.example/orig.png",
		Status:   entity.LogoStatusCompleted,
		Metadata: entity.LogoMetadata{CompanyName: "Acme"},
	}

	result, err := c.GenerateVariations(context.Background(), original, 2, nil)
	require.NoError(t, err, "per-variation resolve failures must not fail the run")
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.TotalGenerated)
	assert.Equal(t, 2, result.FailedCount)
	assert.Equal(t, 0, provider.editCalls)
	// 每个变体各自解析一次参考图像
	assert.Equal(t, 2, resolver.calls)
	for _, logo := range result.Logos {
		assert.Equal(t, entity.LogoStatusFailed, logo.Status)
		assert.Equal(t, entity.KindVariation, logo.Metadata.Kind)
	}
}

func TestGenerateVariationsUsesInlineData(t *testing.T) {
	provider := &fakeProvider{}
	resolver := &fakeResolver{err: errors.New("should not be called")}
	c := newTestCoordinator(provider, resolver)

	original := &entity.GeneratedLogo{
		ID:        "orig",
		ImageData: "aW1hZ2U=",
		Status:    entity.LogoStatusCompleted,
		Metadata:  entity.LogoMetadata{CompanyName: "Acme"},
	}

	result, err := c.GenerateVariations(context.Background(), original, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, resolver.calls, "inline data must short-circuit the resolver")
	assert.Equal(t, 3, result.TotalGenerated)
	assert.Equal(t, 3, provider.editCalls)
}

func TestGenerateVariationsNilOriginal(t *testing.T) {
	c := newTestCoordinator(&fakeProvider{}, &fakeResolver{})

	result, err := c.GenerateVariations(context.Background(), nil, 2, nil)
	require.Error(t, err)
	assert.False(t, result.Success)
}

func TestEditLogoSuccess(t *testing.T) {
	var gotStrength float64
	provider := &fakeProvider{
		editFunc: func(_ int, inline string, params EditParams) (*ProviderResult, error) {
			gotStrength = params.Strength
			assert.Equal(t, "aW1hZ2U=", inline)
			return &ProviderResult{ImageURL: "https://img.example/edited.png"}, nil
		},
	}
	c := newTestCoordinator(provider, &fakeResolver{})

	original := &entity.GeneratedLogo{
		ID:        "orig",
		ImageData: "aW1hZ2U=",
		Status:    entity.LogoStatusCompleted,
		Metadata:  entity.LogoMetadata{CompanyName: "Acme"},
	}
	compiled, err := prompt.NewCompiler().CompileEdit("make it bluer", original.Metadata)
	require.NoError(t, err)
	compiled.Quality.Strength = 0.7

	result, err := c.EditLogo(context.Background(), original, compiled, nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.TotalGenerated)
	require.Len(t, result.Logos, 1)
	assert.Equal(t, entity.LogoStatusCompleted, result.Logos[0].Status)
	assert.Equal(t, entity.KindEdit, result.Logos[0].Metadata.Kind)
	assert.InDelta(t, 0.7, gotStrength, 1e-9)
}

func TestEditLogoResolveFailureIsStructural(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("image unreachable")}
	c := newTestCoordinator(&fakeProvider{}, resolver)

	original := &entity.GeneratedLogo{
		ID:       "orig",
		ImageURL: "https://img.example/orig.png",
		Status:   entity.LogoStatusCompleted,
	}
	compiled, err := prompt.NewCompiler().CompileEdit("make it bluer", entity.LogoMetadata{})
	require.NoError(t, err)

	result, err := c.EditLogo(context.Background(), original, compiled, nil)
	require.Error(t, err)
	require.NotNil(t, result)

	assert.False(t, result.Success)
	assert.Empty(t, result.Logos)
	assert.NotEmpty(t, result.Error)
}

func TestEditLogoProviderFailurePerItem(t *testing.T) {
	provider := &fakeProvider{
		editFunc: func(_ int, _ string, _ EditParams) (*ProviderResult, error) {
			return nil, errors.New("provider error")
		},
	}
	c := newTestCoordinator(provider, &fakeResolver{})

	original := &entity.GeneratedLogo{ID: "orig", ImageData: "aW1hZ2U="}
	compiled, err := prompt.NewCompiler().CompileEdit("make it bluer", entity.LogoMetadata{})
	require.NoError(t, err)

	result, err := c.EditLogo(context.Background(), original, compiled, nil)
	require.NoError(t, err, "provider failure on the single item must not fail the run")

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.TotalGenerated)
	assert.Equal(t, 1, result.FailedCount)
}

func TestGetGenerationProgressUnknownWorkflow(t *testing.T) {
	c := newTestCoordinator(&fakeProvider{}, &fakeResolver{})

	_, err := c.GetGenerationProgress("no-such-workflow")
	assert.Error(t, err)
}

func TestCancelGenerationUnknownWorkflow(t *testing.T) {
	c := newTestCoordinator(&fakeProvider{}, &fakeResolver{})
	assert.False(t, c.CancelGeneration(context.Background(), "no-such-workflow"))
}

func TestCancelSuppressesProgressCallbacks(t *testing.T) {
	rec := &progressRecorder{}
	c := newTestCoordinator(nil, &fakeResolver{})

	var workflowID string
	cancelled := false
	provider := &fakeProvider{
		genFunc: func(call int, _ GenerateParams) (*ProviderResult, error) {
			if call == 1 {
				// 第一项派发后取消：后续进度更新必须被抑制
				cancelled = c.CancelGeneration(context.Background(), workflowID)
			}
			return &ProviderResult{ImageURL: "https://img.example/ok.png"}, nil
		},
	}
	c.provider = provider

	callback := func(p *entity.GenerationProgress) {
		workflowID = p.WorkflowID
		rec.snapshots = append(rec.snapshots, p)
	}

	result, err := c.GenerateLogos(context.Background(), &entity.GenerationRequest{
		CompanyName:    "Acme",
		VariationCount: 3,
	}, callback)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, cancelled)
	assert.Equal(t, 0, rec.terminalCount(), "no terminal snapshot may arrive after cancellation")
	for _, p := range rec.snapshots {
		assert.False(t, p.IsTerminal())
	}
}

func TestItemPercentageInterpolation(t *testing.T) {
	assert.Equal(t, pctProcessing, itemPercentage(1, 0))
	assert.Equal(t, pctItemsBase+(pctProcessing-pctItemsBase)/2, itemPercentage(1, 2))
	assert.Equal(t, pctProcessing, itemPercentage(4, 4))
}
