package driving

import (
	"context"

	"github.com/custodia-labs/pagesync/internal/core/domain"
)

// PageReconciler computes which authorized workspace pages are already
// represented in a target dataset.
type PageReconciler interface {
	// ListImportablePages returns the annotated page listing of every
	// active notion binding of the tenant. datasetID is optional: when
	// empty, no page is considered bound.
	ListImportablePages(ctx context.Context, tenantID, datasetID string) ([]domain.WorkspacePages, error)

	// RefreshSourceInfo re-fetches the workspace page listing for a
	// binding and persists it into the binding's source info.
	RefreshSourceInfo(ctx context.Context, bindingID string) error
}
