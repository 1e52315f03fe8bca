package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pagesync/internal/core/domain"
	"github.com/custodia-labs/pagesync/internal/core/ports/driven"
	"github.com/custodia-labs/pagesync/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.IntegrationCatalog = (*CatalogService)(nil)

// DefaultAuthLinkBase is the default base for computed authorization
// links. The provider name is appended as the final path segment.
const DefaultAuthLinkBase = "/oauth/data-source"

// CatalogService answers which providers a tenant is connected to.
// It is read-only; bindings are created by the OAuth flow and mutated
// by the lifecycle service.
type CatalogService struct {
	bindings     driven.BindingStore
	authLinkBase string
}

// NewCatalogService creates a new integration catalog.
// authLinkBase is the URL prefix for authorization links; empty falls
// back to DefaultAuthLinkBase.
func NewCatalogService(bindings driven.BindingStore, authLinkBase string) *CatalogService {
	if authLinkBase == "" {
		authLinkBase = DefaultAuthLinkBase
	}
	return &CatalogService{
		bindings:     bindings,
		authLinkBase: strings.TrimSuffix(authLinkBase, "/"),
	}
}

// ListIntegrations returns one view per active binding of each
// configured provider, or one unbound placeholder per provider the
// tenant has no bindings for. Output follows the static provider list
// order, then the store's natural order within a provider.
func (s *CatalogService) ListIntegrations(ctx context.Context, tenantID string) ([]domain.IntegrationView, error) {
	if s.bindings == nil {
		return nil, domain.ErrNotImplemented
	}
	if tenantID == "" {
		return nil, domain.ErrInvalidInput
	}

	active, err := s.bindings.ListActive(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list bindings: %w", err)
	}

	views := make([]domain.IntegrationView, 0, len(domain.Providers))
	for _, provider := range domain.Providers {
		// Materialise the per-provider slice once; the filter result
		// is iterated and counted.
		matched := make([]domain.Binding, 0, len(active))
		for _, binding := range active {
			if binding.Provider == provider {
				matched = append(matched, binding)
			}
		}

		if len(matched) == 0 {
			views = append(views, domain.IntegrationView{
				Provider: provider,
				IsBound:  false,
				Link:     s.authLink(provider),
			})
			continue
		}

		for _, binding := range matched {
			info := binding.SourceInfo
			views = append(views, domain.IntegrationView{
				ID:         binding.ID,
				Provider:   provider,
				IsBound:    true,
				Disabled:   binding.Disabled,
				Link:       s.authLink(provider),
				CreatedAt:  binding.CreatedAt,
				SourceInfo: &info,
			})
		}
	}

	return views, nil
}

// authLink composes the authorization link for a provider.
// Pure string composition; no state involved.
func (s *CatalogService) authLink(provider domain.Provider) string {
	return s.authLinkBase + "/" + string(provider)
}
