package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagesync/internal/core/domain"
)

// mockPageSource implements driven.PageSource for testing.
type mockPageSource struct {
	pages      []domain.Page
	content    string
	fetchErr   error
	lastToken  string
	lastPageID string
}

func (m *mockPageSource) FetchWorkspacePages(_ context.Context, accessToken, _ string) ([]domain.Page, error) {
	m.lastToken = accessToken
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.pages, nil
}

func (m *mockPageSource) FetchPageContent(
	_ context.Context,
	accessToken, _, pageID string,
	_ domain.PageType,
) (string, error) {
	m.lastToken = accessToken
	m.lastPageID = pageID
	if m.fetchErr != nil {
		return "", m.fetchErr
	}
	return m.content, nil
}

func reconcilerFixture(t *testing.T) (*ReconcilerService, *memory.BindingStore, *memory.DatasetStore) {
	t.Helper()
	bindings := memory.NewBindingStore()
	datasets := memory.NewDatasetStore()
	return NewReconcilerService(bindings, datasets, nil), bindings, datasets
}

func seedWorkspace(t *testing.T, store *memory.BindingStore, bindingID, workspaceID string, pageIDs ...string) {
	t.Helper()
	pages := make([]domain.Page, 0, len(pageIDs))
	for _, id := range pageIDs {
		pages = append(pages, domain.Page{PageID: id, PageName: "Page " + id, Type: domain.PageTypePage})
	}
	require.NoError(t, store.Save(context.Background(), domain.Binding{
		ID:       bindingID,
		TenantID: "t-1",
		Provider: domain.ProviderNotion,
		SourceInfo: domain.SourceInfo{
			WorkspaceID:   workspaceID,
			WorkspaceName: "Workspace " + workspaceID,
			Pages:         pages,
		},
	}))
}

func seedNotionDataset(t *testing.T, store *memory.DatasetStore, datasetID string, importedPageIDs ...string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveDataset(ctx, domain.Dataset{
		ID:             datasetID,
		TenantID:       "t-1",
		DataSourceType: domain.ProviderNotion.ImportType(),
	}))
	for _, pageID := range importedPageIDs {
		require.NoError(t, store.SaveDocument(ctx, domain.Document{
			ID:             datasetID + "-doc-" + pageID,
			DatasetID:      datasetID,
			TenantID:       "t-1",
			DataSourceType: domain.ProviderNotion.ImportType(),
			SourceInfo:     domain.DocumentSourceInfo{NotionPageID: pageID},
			Enabled:        true,
		}))
	}
}

func TestReconciler_AnnotatesImportedPages(t *testing.T) {
	service, bindings, datasets := reconcilerFixture(t)
	ctx := context.Background()

	// Tenant T, one notion binding for workspace W with pages p1, p2;
	// dataset D has one enabled document sourced from p1.
	seedWorkspace(t, bindings, "b-1", "ws-1", "p1", "p2")
	seedNotionDataset(t, datasets, "d-1", "p1")

	views, err := service.ListImportablePages(ctx, "t-1", "d-1")
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "ws-1", views[0].WorkspaceID)
	require.Len(t, views[0].Pages, 2)
	assert.Equal(t, "p1", views[0].Pages[0].PageID)
	assert.True(t, views[0].Pages[0].IsBound)
	assert.Equal(t, "p2", views[0].Pages[1].PageID)
	assert.False(t, views[0].Pages[1].IsBound)
}

func TestReconciler_NoDataset_NothingBound(t *testing.T) {
	service, bindings, _ := reconcilerFixture(t)

	seedWorkspace(t, bindings, "b-1", "ws-1", "p1", "p2")

	views, err := service.ListImportablePages(context.Background(), "t-1", "")
	require.NoError(t, err)

	require.Len(t, views, 1)
	for _, page := range views[0].Pages {
		assert.False(t, page.IsBound)
	}
}

func TestReconciler_NoBindings_EmptyResult(t *testing.T) {
	service, _, datasets := reconcilerFixture(t)

	seedNotionDataset(t, datasets, "d-1", "p1")

	views, err := service.ListImportablePages(context.Background(), "t-1", "d-1")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestReconciler_DatasetNotFound(t *testing.T) {
	service, bindings, _ := reconcilerFixture(t)

	seedWorkspace(t, bindings, "b-1", "ws-1", "p1")

	_, err := service.ListImportablePages(context.Background(), "t-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconciler_UnsupportedSourceType(t *testing.T) {
	service, bindings, datasets := reconcilerFixture(t)
	ctx := context.Background()

	seedWorkspace(t, bindings, "b-1", "ws-1", "p1")
	require.NoError(t, datasets.SaveDataset(ctx, domain.Dataset{
		ID:             "d-1",
		TenantID:       "t-1",
		DataSourceType: "upload",
	}))

	_, err := service.ListImportablePages(ctx, "t-1", "d-1")
	assert.ErrorIs(t, err, domain.ErrUnsupportedSourceType)
}

func TestReconciler_DisabledDocumentNotBound(t *testing.T) {
	service, bindings, datasets := reconcilerFixture(t)
	ctx := context.Background()

	seedWorkspace(t, bindings, "b-1", "ws-1", "p1")
	seedNotionDataset(t, datasets, "d-1")
	require.NoError(t, datasets.SaveDocument(ctx, domain.Document{
		ID:             "doc-1",
		DatasetID:      "d-1",
		TenantID:       "t-1",
		DataSourceType: domain.ProviderNotion.ImportType(),
		SourceInfo:     domain.DocumentSourceInfo{NotionPageID: "p1"},
		Enabled:        false,
	}))

	views, err := service.ListImportablePages(ctx, "t-1", "d-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].Pages[0].IsBound)
}

func TestReconciler_RepeatedCallsStable(t *testing.T) {
	service, bindings, datasets := reconcilerFixture(t)
	ctx := context.Background()

	seedWorkspace(t, bindings, "b-1", "ws-1", "p1", "p2", "p3")
	seedWorkspace(t, bindings, "b-2", "ws-2", "p4")
	seedNotionDataset(t, datasets, "d-1", "p2", "p4")

	first, err := service.ListImportablePages(ctx, "t-1", "d-1")
	require.NoError(t, err)
	second, err := service.ListImportablePages(ctx, "t-1", "d-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReconciler_DoesNotMutateStoredBinding(t *testing.T) {
	service, bindings, datasets := reconcilerFixture(t)
	ctx := context.Background()

	seedWorkspace(t, bindings, "b-1", "ws-1", "p1")
	seedNotionDataset(t, datasets, "d-1", "p1")

	_, err := service.ListImportablePages(ctx, "t-1", "d-1")
	require.NoError(t, err)

	stored, err := bindings.Get(ctx, "b-1")
	require.NoError(t, err)
	// The stored page carries no bound flag; annotation happens on a copy.
	assert.Equal(t, "p1", stored.SourceInfo.Pages[0].PageID)
}

func TestReconciler_BindingOrderPreserved(t *testing.T) {
	service, bindings, _ := reconcilerFixture(t)

	seedWorkspace(t, bindings, "b-2", "ws-2", "p1")
	seedWorkspace(t, bindings, "b-1", "ws-1", "p2")

	views, err := service.ListImportablePages(context.Background(), "t-1", "")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "ws-2", views[0].WorkspaceID)
	assert.Equal(t, "ws-1", views[1].WorkspaceID)
}

func TestReconciler_EmptyTenant(t *testing.T) {
	service, _, _ := reconcilerFixture(t)

	_, err := service.ListImportablePages(context.Background(), "", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReconciler_RefreshSourceInfo(t *testing.T) {
	bindings := memory.NewBindingStore()
	datasets := memory.NewDatasetStore()
	source := &mockPageSource{pages: []domain.Page{
		{PageID: "p1", PageName: "One", Type: domain.PageTypePage},
		{PageID: "p2", PageName: "Two", Type: domain.PageTypeDatabase},
	}}
	service := NewReconcilerService(bindings, datasets, source)
	ctx := context.Background()

	require.NoError(t, bindings.Save(ctx, domain.Binding{
		ID:          "b-1",
		TenantID:    "t-1",
		Provider:    domain.ProviderNotion,
		AccessToken: "secret",
		SourceInfo:  domain.SourceInfo{WorkspaceID: "ws-1"},
	}))

	require.NoError(t, service.RefreshSourceInfo(ctx, "b-1"))

	assert.Equal(t, "secret", source.lastToken)
	binding, err := bindings.Get(ctx, "b-1")
	require.NoError(t, err)
	require.Len(t, binding.SourceInfo.Pages, 2)
	assert.Equal(t, "p1", binding.SourceInfo.Pages[0].PageID)
}

func TestReconciler_RefreshSourceInfo_FetchError(t *testing.T) {
	bindings := memory.NewBindingStore()
	source := &mockPageSource{fetchErr: errors.New("provider unavailable")}
	service := NewReconcilerService(bindings, memory.NewDatasetStore(), source)
	ctx := context.Background()

	require.NoError(t, bindings.Save(ctx, domain.Binding{
		ID: "b-1", TenantID: "t-1", Provider: domain.ProviderNotion,
	}))

	err := service.RefreshSourceInfo(ctx, "b-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, source.fetchErr)
}

func TestReconciler_RefreshSourceInfo_NoPageSource(t *testing.T) {
	service, bindings, _ := reconcilerFixture(t)

	seedWorkspace(t, bindings, "b-1", "ws-1")

	err := service.RefreshSourceInfo(context.Background(), "b-1")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
