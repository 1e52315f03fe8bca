package driving

import (
	"context"

	"github.com/custodia-labs/pagesync/internal/core/domain"
)

// SyncDispatcher requests re-synchronisation of ingested documents.
// Dispatch is fire-and-forget: the dispatcher only promises a
// well-formed hand-off, never execution.
type SyncDispatcher interface {
	// SyncDataset enqueues one sync request per document of the
	// dataset, regardless of document enabled state. Per-document
	// enqueue attempts are independent; the report carries the
	// succeeded/failed split.
	SyncDataset(ctx context.Context, datasetID string) (domain.DispatchReport, error)

	// SyncDocument enqueues exactly one sync request.
	SyncDocument(ctx context.Context, datasetID, documentID string) error
}
