package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/pagesync/internal/core/domain"
	"github.com/custodia-labs/pagesync/internal/core/ports/driven"
	"github.com/custodia-labs/pagesync/internal/core/ports/driving"
	"github.com/custodia-labs/pagesync/internal/logger"
)

// Ensure ReconcilerService implements the interface.
var _ driving.PageReconciler = (*ReconcilerService)(nil)

// ReconcilerService computes which authorized workspace pages already
// have an ingested document in a target dataset. The annotation is a
// pure function of the binding set and the imported-page-id set; stored
// bindings are never mutated.
type ReconcilerService struct {
	bindings driven.BindingStore
	datasets driven.DatasetStore
	pages    driven.PageSource
}

// NewReconcilerService creates a new page reconciler.
// pages is optional; without it RefreshSourceInfo is disabled.
func NewReconcilerService(
	bindings driven.BindingStore,
	datasets driven.DatasetStore,
	pages driven.PageSource,
) *ReconcilerService {
	return &ReconcilerService{
		bindings: bindings,
		datasets: datasets,
		pages:    pages,
	}
}

// ListImportablePages returns the annotated page listing of every
// active notion binding of the tenant, preserving the store's binding
// order and each binding's page order.
func (s *ReconcilerService) ListImportablePages(
	ctx context.Context,
	tenantID, datasetID string,
) ([]domain.WorkspacePages, error) {
	if s.bindings == nil || s.datasets == nil {
		return nil, domain.ErrNotImplemented
	}
	if tenantID == "" {
		return nil, domain.ErrInvalidInput
	}

	imported, err := s.importedPageIDs(ctx, tenantID, datasetID)
	if err != nil {
		return nil, err
	}

	bindings, err := s.bindings.ListActiveByProvider(ctx, tenantID, domain.ProviderNotion)
	if err != nil {
		return nil, fmt.Errorf("list bindings: %w", err)
	}

	// No authorized workspaces is an empty listing, not an error.
	views := make([]domain.WorkspacePages, 0, len(bindings))
	for _, binding := range bindings {
		pages := make([]domain.ImportablePage, 0, len(binding.SourceInfo.Pages))
		for _, page := range binding.SourceInfo.Pages {
			_, bound := imported[page.PageID]
			pages = append(pages, domain.ImportablePage{Page: page, IsBound: bound})
		}
		views = append(views, domain.WorkspacePages{
			WorkspaceID:   binding.SourceInfo.WorkspaceID,
			WorkspaceName: binding.SourceInfo.WorkspaceName,
			WorkspaceIcon: binding.SourceInfo.WorkspaceIcon,
			Pages:         pages,
		})
	}

	return views, nil
}

// importedPageIDs materialises the set of page ids already represented
// by an enabled document in the dataset. An empty datasetID yields an
// empty set.
func (s *ReconcilerService) importedPageIDs(
	ctx context.Context,
	tenantID, datasetID string,
) (map[string]struct{}, error) {
	imported := make(map[string]struct{})
	if datasetID == "" {
		return imported, nil
	}

	dataset, err := s.datasets.GetDataset(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	if dataset.DataSourceType != domain.ProviderNotion.ImportType() {
		return nil, domain.ErrUnsupportedSourceType
	}

	docs, err := s.datasets.ListEnabledDocuments(ctx, datasetID, tenantID, domain.ProviderNotion.ImportType())
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	for _, doc := range docs {
		if doc.SourceInfo.NotionPageID != "" {
			imported[doc.SourceInfo.NotionPageID] = struct{}{}
		}
	}

	return imported, nil
}

// RefreshSourceInfo re-fetches the workspace page listing for a binding
// and persists it into the binding's source info.
func (s *ReconcilerService) RefreshSourceInfo(ctx context.Context, bindingID string) error {
	if s.bindings == nil {
		return domain.ErrNotImplemented
	}
	if s.pages == nil {
		return domain.ErrNotImplemented
	}
	if bindingID == "" {
		return domain.ErrInvalidInput
	}

	binding, err := s.bindings.Get(ctx, bindingID)
	if err != nil {
		return fmt.Errorf("get binding: %w", err)
	}

	pages, err := s.pages.FetchWorkspacePages(ctx, binding.AccessToken, binding.SourceInfo.WorkspaceID)
	if err != nil {
		return fmt.Errorf("fetch workspace pages: %w", err)
	}

	binding.SourceInfo.Pages = pages
	binding.UpdatedAt = time.Now().UTC()
	if err := s.bindings.Save(ctx, *binding); err != nil {
		return fmt.Errorf("save binding: %w", err)
	}

	logger.Debug("Refreshed %d pages for binding %s", len(pages), bindingID)
	return nil
}
