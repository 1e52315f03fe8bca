package driving

import (
	"context"

	"github.com/custodia-labs/pagesync/internal/core/domain"
)

// IntegrationCatalog answers which providers a tenant is connected to,
// for presentation.
type IntegrationCatalog interface {
	// ListIntegrations returns one view per active binding of each
	// configured provider, or one unbound placeholder per provider
	// the tenant has no bindings for. Read-only.
	ListIntegrations(ctx context.Context, tenantID string) ([]domain.IntegrationView, error)
}
