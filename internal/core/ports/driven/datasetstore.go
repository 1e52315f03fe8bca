package driven

import (
	"context"

	"github.com/custodia-labs/pagesync/internal/core/domain"
)

// DatasetStore provides read access to datasets and their ingested
// documents. Documents are written by the indexing pipeline; this core
// only reads them for reconciliation and sync scheduling.
type DatasetStore interface {
	// GetDataset retrieves a dataset by ID.
	GetDataset(ctx context.Context, id string) (*domain.Dataset, error)

	// ListDatasets returns all datasets of a given data source type.
	ListDatasets(ctx context.Context, dataSourceType string) ([]domain.Dataset, error)

	// GetDocument retrieves a document scoped to a dataset.
	GetDocument(ctx context.Context, datasetID, documentID string) (*domain.Document, error)

	// ListDocuments returns all documents of a dataset, regardless of
	// enabled state.
	ListDocuments(ctx context.Context, datasetID string) ([]domain.Document, error)

	// ListEnabledDocuments returns the enabled documents of a dataset
	// for a tenant, filtered to one data source type.
	ListEnabledDocuments(ctx context.Context, datasetID, tenantID, dataSourceType string) ([]domain.Document, error)
}
