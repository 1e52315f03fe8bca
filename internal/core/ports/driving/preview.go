package driving

import (
	"context"

	"github.com/custodia-labs/pagesync/internal/core/domain"
)

// PagePreview fetches one page's content through a tenant's binding
// credentials, for pre-import preview.
type PagePreview interface {
	// Preview returns the text content of a workspace page. The
	// tenant must hold an active binding for the workspace.
	Preview(ctx context.Context, tenantID, workspaceID, pageID string, pageType domain.PageType) (string, error)
}
