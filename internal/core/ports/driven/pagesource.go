package driven

import (
	"context"

	"github.com/custodia-labs/pagesync/internal/core/domain"
)

// PageSource is the content-source client capability: listing a
// workspace's importable pages and fetching one page's content using a
// binding's credentials.
type PageSource interface {
	// FetchWorkspacePages lists the importable pages of a workspace.
	FetchWorkspacePages(ctx context.Context, accessToken, workspaceID string) ([]domain.Page, error)

	// FetchPageContent retrieves the text content of one page.
	FetchPageContent(ctx context.Context, accessToken, workspaceID, pageID string, pageType domain.PageType) (string, error)
}
