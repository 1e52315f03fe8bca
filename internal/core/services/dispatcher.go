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

// Ensure DispatcherService implements the interface.
var _ driving.SyncDispatcher = (*DispatcherService)(nil)

// DefaultEnqueueTimeout bounds a single hand-off to the task runner.
const DefaultEnqueueTimeout = 10 * time.Second

// DispatcherService requests re-synchronisation of ingested documents
// by handing work items to the task runner. It returns once the
// requests are accepted; execution happens asynchronously.
type DispatcherService struct {
	datasets       driven.DatasetStore
	runner         driven.TaskRunner
	enqueueTimeout time.Duration
}

// NewDispatcherService creates a new sync dispatcher.
func NewDispatcherService(datasets driven.DatasetStore, runner driven.TaskRunner) *DispatcherService {
	return &DispatcherService{
		datasets:       datasets,
		runner:         runner,
		enqueueTimeout: DefaultEnqueueTimeout,
	}
}

// SetEnqueueTimeout overrides the per-request hand-off timeout.
func (s *DispatcherService) SetEnqueueTimeout(d time.Duration) {
	if d > 0 {
		s.enqueueTimeout = d
	}
}

// SyncDataset enqueues one sync request per document of the dataset.
// Disabled documents are included: re-sync must be able to revive or
// refresh any tracked document. Enqueue attempts are independent, so a
// transient runner failure on one document does not block the rest;
// any failure surfaces as ErrDispatchFailure alongside the report.
func (s *DispatcherService) SyncDataset(ctx context.Context, datasetID string) (domain.DispatchReport, error) {
	var report domain.DispatchReport
	if s.datasets == nil || s.runner == nil {
		return report, domain.ErrNotImplemented
	}
	if datasetID == "" {
		return report, domain.ErrInvalidInput
	}

	if _, err := s.datasets.GetDataset(ctx, datasetID); err != nil {
		return report, fmt.Errorf("get dataset: %w", err)
	}

	docs, err := s.datasets.ListDocuments(ctx, datasetID)
	if err != nil {
		return report, fmt.Errorf("list documents: %w", err)
	}

	report.Requested = len(docs)
	for _, doc := range docs {
		if err := s.enqueue(ctx, domain.SyncRequest{DatasetID: datasetID, DocumentID: doc.ID}); err != nil {
			logger.Warn("Failed to enqueue sync for document %s: %v", doc.ID, err)
			report.Failed++
			continue
		}
		report.Enqueued++
	}

	if report.Failed > 0 {
		return report, fmt.Errorf("%d of %d sync requests not enqueued: %w",
			report.Failed, report.Requested, domain.ErrDispatchFailure)
	}

	logger.Info("Enqueued %d sync requests for dataset %s", report.Enqueued, datasetID)
	return report, nil
}

// SyncDocument enqueues exactly one sync request for a document of the
// dataset.
func (s *DispatcherService) SyncDocument(ctx context.Context, datasetID, documentID string) error {
	if s.datasets == nil || s.runner == nil {
		return domain.ErrNotImplemented
	}
	if datasetID == "" || documentID == "" {
		return domain.ErrInvalidInput
	}

	if _, err := s.datasets.GetDataset(ctx, datasetID); err != nil {
		return fmt.Errorf("get dataset: %w", err)
	}
	if _, err := s.datasets.GetDocument(ctx, datasetID, documentID); err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	return s.enqueue(ctx, domain.SyncRequest{DatasetID: datasetID, DocumentID: documentID})
}

// enqueue hands one request to the runner under the configured timeout.
// Runner errors are reported as dispatch failures so callers can tell
// them apart from caller-caused errors.
func (s *DispatcherService) enqueue(ctx context.Context, req domain.SyncRequest) error {
	enqueueCtx, cancel := context.WithTimeout(ctx, s.enqueueTimeout)
	defer cancel()

	if err := s.runner.Enqueue(enqueueCtx, req); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDispatchFailure, err)
	}
	return nil
}
