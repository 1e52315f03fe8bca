package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pagesync/internal/core/domain"
	"github.com/custodia-labs/pagesync/internal/core/ports/driven"
	"github.com/custodia-labs/pagesync/internal/core/ports/driving"
)

// Ensure PreviewService implements the interface.
var _ driving.PagePreview = (*PreviewService)(nil)

// PreviewService fetches page content through a tenant's binding
// credentials for pre-import preview.
type PreviewService struct {
	bindings driven.BindingStore
	pages    driven.PageSource
}

// NewPreviewService creates a new page preview service.
func NewPreviewService(bindings driven.BindingStore, pages driven.PageSource) *PreviewService {
	return &PreviewService{bindings: bindings, pages: pages}
}

// Preview returns the text content of a workspace page. The tenant
// must hold an active notion binding for the workspace; the binding's
// access token is used for the fetch and never returned to the caller.
func (s *PreviewService) Preview(
	ctx context.Context,
	tenantID, workspaceID, pageID string,
	pageType domain.PageType,
) (string, error) {
	if s.bindings == nil || s.pages == nil {
		return "", domain.ErrNotImplemented
	}
	if tenantID == "" || workspaceID == "" || pageID == "" {
		return "", domain.ErrInvalidInput
	}

	binding, err := s.bindings.GetActiveByWorkspace(ctx, tenantID, domain.ProviderNotion, workspaceID)
	if err != nil {
		return "", fmt.Errorf("get binding: %w", err)
	}

	content, err := s.pages.FetchPageContent(ctx, binding.AccessToken, workspaceID, pageID, pageType)
	if err != nil {
		return "", fmt.Errorf("fetch page content: %w", err)
	}
	return content, nil
}
