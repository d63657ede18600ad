package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-logo-ai-api/internal/application/command"
	"z-logo-ai-api/internal/application/prompt"
	"z-logo-ai-api/internal/application/workflow"
	"z-logo-ai-api/internal/domain/entity"
)

// memLogoRepo 内存 Logo 仓储
type memLogoRepo struct {
	logos map[string]*entity.GeneratedLogo
}

func newMemLogoRepo() *memLogoRepo {
	return &memLogoRepo{logos: make(map[string]*entity.GeneratedLogo)}
}

func (r *memLogoRepo) Save(_ context.Context, logo *entity.GeneratedLogo) error {
	r.logos[logo.ID] = logo
	return nil
}

func (r *memLogoRepo) GetByID(_ context.Context, id string) (*entity.GeneratedLogo, error) {
	return r.logos[id], nil
}

func (r *memLogoRepo) List(_ context.Context, limit, offset int) ([]*entity.GeneratedLogo, int, error) {
	ids := make([]string, 0, len(r.logos))
	for id := range r.logos {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*entity.GeneratedLogo, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.logos[id])
	}
	return out, len(out), nil
}

func (r *memLogoRepo) Delete(_ context.Context, id string) error {
	delete(r.logos, id)
	return nil
}

// memSessionRepo 内存会话仓储
type memSessionRepo struct {
	sessions   map[string]*entity.EditingSession
	appendErr  error
	appendOps  int
	currentSet int
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*entity.EditingSession)}
}

func (r *memSessionRepo) Create(_ context.Context, session *entity.EditingSession) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id string) (*entity.EditingSession, error) {
	return r.sessions[id], nil
}

func (r *memSessionRepo) AppendOperation(_ context.Context, _ *entity.EditingSession, _ *entity.EditOperation) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.appendOps++
	return nil
}

func (r *memSessionRepo) UpdateCurrentLogo(_ context.Context, _ string, _ *entity.GeneratedLogo) error {
	r.currentSet++
	return nil
}

// stubProvider 可编程的图像生成提供商替身
type stubProvider struct {
	editErr   error
	editCalls int
}

func (s *stubProvider) GenerateImage(_ context.Context, _ workflow.GenerateParams) (*workflow.ProviderResult, error) {
	return &workflow.ProviderResult{ImageURL: "https://img.example/gen.png"}, nil
}

func (s *stubProvider) EditImage(_ context.Context, _ string, _ workflow.EditParams) (*workflow.ProviderResult, error) {
	s.editCalls++
	if s.editErr != nil {
		return nil, s.editErr
	}
	return &workflow.ProviderResult{ImageURL: fmt.Sprintf("https://img.example/edited-%d.png", s.editCalls)}, nil
}

// stubResolver 固定返回的图像解析器替身
type stubResolver struct {
	err error
}

func (s stubResolver) Resolve(_ context.Context, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "aW1hZ2U=", nil
}

func newTestManager(provider *stubProvider) (*Manager, *memLogoRepo, *memSessionRepo) {
	return newTestManagerWithResolver(provider, stubResolver{})
}

func newTestManagerWithResolver(provider *stubProvider, resolver stubResolver) (*Manager, *memLogoRepo, *memSessionRepo) {
	logos := newMemLogoRepo()
	sessions := newMemSessionRepo()
	compiler := prompt.NewCompiler()
	coordinator := workflow.NewCoordinator(compiler, provider, resolver, "png")
	parser := command.NewParser(compiler, nil)
	return NewManager(coordinator, parser, sessions, logos), logos, sessions
}

func seedLogo(t *testing.T, logos *memLogoRepo, id string) *entity.GeneratedLogo {
	t.Helper()
	logo := &entity.GeneratedLogo{
		ID:        id,
		ImageURL:  "https://img.example/" + id + ".png",
		ImageData: "aW1hZ2U=",
		Status:    entity.LogoStatusCompleted,
		Metadata:  entity.LogoMetadata{CompanyName: "Acme", Industry: "technology"},
	}
	require.NoError(t, logos.Save(context.Background(), logo))
	return logo
}

func TestStartSession(t *testing.T) {
	m, logos, _ := newTestManager(&stubProvider{})
	original := seedLogo(t, logos, "logo-1")

	session, err := m.StartSession(context.Background(), "logo-1")
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.NotEmpty(t, session.ID)
	assert.Same(t, original, session.OriginalLogo)
	assert.Same(t, original, session.CurrentLogo)
	assert.Empty(t, session.History)
}

func TestStartSessionUnknownLogo(t *testing.T) {
	m, _, _ := newTestManager(&stubProvider{})

	_, err := m.StartSession(context.Background(), "missing")
	assert.Error(t, err)
}

func TestGetSessionUnknown(t *testing.T) {
	m, _, _ := newTestManager(&stubProvider{})

	_, err := m.GetSession(context.Background(), "missing")
	assert.Error(t, err)
}

func TestExecuteCommandReplacesCurrentLogo(t *testing.T) {
	provider := &stubProvider{}
	m, logos, sessions := newTestManager(provider)
	original := seedLogo(t, logos, "logo-1")

	session, err := m.StartSession(context.Background(), "logo-1")
	require.NoError(t, err)

	updated, op, err := m.ExecuteCommand(context.Background(), session.ID, "make it more blue")
	require.NoError(t, err)
	require.NotNil(t, op)

	assert.Equal(t, entity.EditStatusCompleted, op.Status)
	assert.Equal(t, 1, provider.editCalls)
	assert.Equal(t, 1, sessions.appendOps)

	// 当前 Logo 被替换，原始 Logo 不变
	assert.NotEqual(t, original.ID, updated.CurrentLogo.ID)
	assert.Same(t, original, updated.OriginalLogo)
	assert.Len(t, updated.History, 1)

	// 编辑产物已持久化
	saved, err := logos.GetByID(context.Background(), updated.CurrentLogo.ID)
	require.NoError(t, err)
	assert.NotNil(t, saved)
}

func TestExecuteCommandSequentialEditsTrackAfterImage(t *testing.T) {
	provider := &stubProvider{}
	m, logos, _ := newTestManager(provider)
	seedLogo(t, logos, "logo-1")

	session, err := m.StartSession(context.Background(), "logo-1")
	require.NoError(t, err)

	commands := []string{"make it more blue", "add a subtle gradient", "make the text bolder"}
	prevRef := session.CurrentLogo.ImageURL

	for i, text := range commands {
		updated, op, err := m.ExecuteCommand(context.Background(), session.ID, text)
		require.NoError(t, err)
		require.Equal(t, entity.EditStatusCompleted, op.Status)

		// 操作记录的前后图像与会话推进一致
		assert.Equal(t, prevRef, op.BeforeImage)
		assert.Equal(t, updated.CurrentLogo.ImageURL, op.AfterImage)
		assert.Len(t, updated.History, i+1)

		prevRef = updated.CurrentLogo.ImageURL
	}

	assert.Equal(t, 3, provider.editCalls)
}

func TestExecuteCommandFailureKeepsCurrentLogo(t *testing.T) {
	provider := &stubProvider{editErr: errors.New("provider down")}
	m, logos, _ := newTestManager(provider)
	original := seedLogo(t, logos, "logo-1")

	session, err := m.StartSession(context.Background(), "logo-1")
	require.NoError(t, err)

	updated, op, err := m.ExecuteCommand(context.Background(), session.ID, "make it more blue")
	require.NoError(t, err, "edit failures are recorded in history, not returned")
	require.NotNil(t, op)

	assert.Equal(t, entity.EditStatusFailed, op.Status)
	assert.NotEmpty(t, op.Error)
	assert.Same(t, original, updated.CurrentLogo, "failed edits must not advance the session")
	assert.Len(t, updated.History, 1)
}

func TestExecuteCommandEmptyTextFailsOperation(t *testing.T) {
	provider := &stubProvider{}
	m, logos, _ := newTestManager(provider)
	seedLogo(t, logos, "logo-1")

	session, err := m.StartSession(context.Background(), "logo-1")
	require.NoError(t, err)

	updated, op, err := m.ExecuteCommand(context.Background(), session.ID, "   ")
	require.NoError(t, err)
	require.NotNil(t, op)

	assert.Equal(t, entity.EditStatusFailed, op.Status)
	assert.Equal(t, 0, provider.editCalls, "uncompilable commands must not reach the provider")
	assert.Len(t, updated.History, 1)
}

func TestExecuteCommandUnknownSession(t *testing.T) {
	m, _, _ := newTestManager(&stubProvider{})

	_, _, err := m.ExecuteCommand(context.Background(), "missing", "make it blue")
	assert.Error(t, err)
}

func TestGenerateEditingVariations(t *testing.T) {
	provider := &stubProvider{}
	m, logos, _ := newTestManager(provider)
	original := seedLogo(t, logos, "logo-1")

	session, err := m.StartSession(context.Background(), "logo-1")
	require.NoError(t, err)

	result, err := m.GenerateEditingVariations(context.Background(), session.ID, "make it warmer", 0)
	require.NoError(t, err)
	require.NotNil(t, result)

	// count <= 0 默认生成 3 个候选
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.TotalGenerated)
	assert.Equal(t, 3, provider.editCalls)

	// 候选不替换当前 Logo
	reloaded, err := m.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Same(t, original, reloaded.CurrentLogo)

	// 候选全部已持久化
	for _, logo := range result.Logos {
		saved, err := logos.GetByID(context.Background(), logo.ID)
		require.NoError(t, err)
		assert.NotNil(t, saved)
	}
}

func TestGenerateEditingVariationsAccountsForStructuralFailures(t *testing.T) {
	provider := &stubProvider{}
	m, logos, _ := newTestManagerWithResolver(provider, stubResolver{err: errors.New("image unreachable")})

	// 原始 Logo 没有内联数据，编辑前必须经解析器取图
	original := &entity.GeneratedLogo{
		ID:       "logo-1",
		ImageURL: "https://img.example/logo-1.png",
		Status:   entity.LogoStatusCompleted,
		Metadata: entity.LogoMetadata{CompanyName: "Acme"},
	}
	require.NoError(t, logos.Save(context.Background(), original))

	session, err := m.StartSession(context.Background(), "logo-1")
	require.NoError(t, err)

	result, err := m.GenerateEditingVariations(context.Background(), session.ID, "make it warmer", 3)
	require.NoError(t, err)
	require.NotNil(t, result)

	// 每个候选在结果中占位，失败的不会凭空消失
	require.Len(t, result.Logos, 3)
	assert.Equal(t, 0, result.TotalGenerated)
	assert.Equal(t, 3, result.FailedCount)
	assert.Equal(t, 0, provider.editCalls)
	for _, logo := range result.Logos {
		assert.Equal(t, entity.LogoStatusFailed, logo.Status)
		assert.NotEmpty(t, logo.Error)
	}
}

func TestSelectLogo(t *testing.T) {
	m, logos, sessions := newTestManager(&stubProvider{})
	seedLogo(t, logos, "logo-1")
	candidate := seedLogo(t, logos, "logo-2")

	session, err := m.StartSession(context.Background(), "logo-1")
	require.NoError(t, err)

	updated, err := m.SelectLogo(context.Background(), session.ID, "logo-2")
	require.NoError(t, err)

	assert.Same(t, candidate, updated.CurrentLogo)
	assert.Equal(t, 1, sessions.currentSet)
}

func TestSelectLogoUnknownLogo(t *testing.T) {
	m, logos, _ := newTestManager(&stubProvider{})
	seedLogo(t, logos, "logo-1")

	session, err := m.StartSession(context.Background(), "logo-1")
	require.NoError(t, err)

	_, err = m.SelectLogo(context.Background(), session.ID, "missing")
	assert.Error(t, err)
}
