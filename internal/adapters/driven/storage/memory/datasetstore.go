package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/pagesync/internal/core/domain"
	"github.com/custodia-labs/pagesync/internal/core/ports/driven"
)

// Ensure DatasetStore implements the interface.
var _ driven.DatasetStore = (*DatasetStore)(nil)

// DatasetStore is an in-memory implementation of driven.DatasetStore.
// The write side (SaveDataset, SaveDocument) stands in for the indexing
// pipeline that owns these records in production.
type DatasetStore struct {
	mu        sync.RWMutex
	datasets  map[string]domain.Dataset
	dsOrder   []string
	documents map[string]domain.Document
	docOrder  []string
}

// NewDatasetStore creates a new in-memory dataset store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		datasets:  make(map[string]domain.Dataset),
		documents: make(map[string]domain.Document),
	}
}

// SaveDataset stores or updates a dataset.
func (s *DatasetStore) SaveDataset(_ context.Context, dataset domain.Dataset) error {
	if dataset.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.datasets[dataset.ID]; !exists {
		s.dsOrder = append(s.dsOrder, dataset.ID)
	}
	s.datasets[dataset.ID] = dataset
	return nil
}

// SaveDocument stores or updates a document.
func (s *DatasetStore) SaveDocument(_ context.Context, doc domain.Document) error {
	if doc.ID == "" || doc.DatasetID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.documents[doc.ID]; !exists {
		s.docOrder = append(s.docOrder, doc.ID)
	}
	s.documents[doc.ID] = doc
	return nil
}

// GetDataset retrieves a dataset by ID.
func (s *DatasetStore) GetDataset(_ context.Context, id string) (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dataset, ok := s.datasets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &dataset, nil
}

// ListDatasets returns all datasets of a given data source type in
// insertion order.
func (s *DatasetStore) ListDatasets(_ context.Context, dataSourceType string) ([]domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Dataset, 0)
	for _, id := range s.dsOrder {
		d := s.datasets[id]
		if d.DataSourceType == dataSourceType {
			result = append(result, d)
		}
	}
	return result, nil
}

// GetDocument retrieves a document scoped to a dataset.
func (s *DatasetStore) GetDocument(_ context.Context, datasetID, documentID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[documentID]
	if !ok || doc.DatasetID != datasetID {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents of a dataset in insertion order.
func (s *DatasetStore) ListDocuments(_ context.Context, datasetID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0)
	for _, id := range s.docOrder {
		doc := s.documents[id]
		if doc.DatasetID == datasetID {
			result = append(result, doc)
		}
	}
	return result, nil
}

// ListEnabledDocuments returns the enabled documents of a dataset for a
// tenant, filtered to one data source type.
func (s *DatasetStore) ListEnabledDocuments(
	_ context.Context,
	datasetID, tenantID, dataSourceType string,
) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0)
	for _, id := range s.docOrder {
		doc := s.documents[id]
		if doc.DatasetID == datasetID && doc.TenantID == tenantID &&
			doc.DataSourceType == dataSourceType && doc.Enabled {
			result = append(result, doc)
		}
	}
	return result, nil
}
