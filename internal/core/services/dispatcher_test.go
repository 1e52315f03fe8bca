package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesync/internal/adapters/driven/runner"
	"github.com/custodia-labs/pagesync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagesync/internal/core/domain"
)

func TestDispatcher_SyncDataset_EnqueuesEveryDocument(t *testing.T) {
	datasets := memory.NewDatasetStore()
	taskRunner := runner.NewMemoryRunner(0)
	service := NewDispatcherService(datasets, taskRunner)
	ctx := context.Background()

	seedNotionDataset(t, datasets, "d-1", "p1", "p2")
	// One disabled document; re-sync still covers it.
	require.NoError(t, datasets.SaveDocument(ctx, domain.Document{
		ID:             "doc-off",
		DatasetID:      "d-1",
		TenantID:       "t-1",
		DataSourceType: domain.ProviderNotion.ImportType(),
		SourceInfo:     domain.DocumentSourceInfo{NotionPageID: "p3"},
		Enabled:        false,
	}))

	report, err := service.SyncDataset(ctx, "d-1")
	require.NoError(t, err)

	assert.Equal(t, 3, report.Requested)
	assert.Equal(t, 3, report.Enqueued)
	assert.Equal(t, 0, report.Failed)

	accepted := taskRunner.Accepted()
	require.Len(t, accepted, 3)
	for _, item := range accepted {
		assert.Equal(t, "d-1", item.Request.DatasetID)
		assert.NotEmpty(t, item.Request.DocumentID)
	}
}

func TestDispatcher_SyncDataset_EmptyDataset(t *testing.T) {
	datasets := memory.NewDatasetStore()
	taskRunner := runner.NewMemoryRunner(0)
	service := NewDispatcherService(datasets, taskRunner)
	ctx := context.Background()

	seedNotionDataset(t, datasets, "d-1")

	report, err := service.SyncDataset(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DispatchReport{}, report)
	assert.Empty(t, taskRunner.Accepted())
}

func TestDispatcher_SyncDataset_NotFound(t *testing.T) {
	taskRunner := runner.NewMemoryRunner(0)
	service := NewDispatcherService(memory.NewDatasetStore(), taskRunner)

	_, err := service.SyncDataset(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, taskRunner.Accepted())
}

func TestDispatcher_SyncDataset_RunnerDown(t *testing.T) {
	datasets := memory.NewDatasetStore()
	taskRunner := runner.NewMemoryRunner(0)
	service := NewDispatcherService(datasets, taskRunner)
	ctx := context.Background()

	seedNotionDataset(t, datasets, "d-1", "p1", "p2")
	taskRunner.FailWith(errors.New("broker unreachable"))

	report, err := service.SyncDataset(ctx, "d-1")

	assert.ErrorIs(t, err, domain.ErrDispatchFailure)
	assert.Equal(t, 2, report.Requested)
	assert.Equal(t, 0, report.Enqueued)
	assert.Equal(t, 2, report.Failed)
}

func TestDispatcher_SyncDataset_PartialFailure(t *testing.T) {
	datasets := memory.NewDatasetStore()
	// Capacity one and no consumer: the first hand-off succeeds, the
	// rest time out.
	taskRunner := runner.NewMemoryRunner(1)
	service := NewDispatcherService(datasets, taskRunner)
	service.SetEnqueueTimeout(20 * time.Millisecond)
	ctx := context.Background()

	seedNotionDataset(t, datasets, "d-1", "p1", "p2", "p3")

	report, err := service.SyncDataset(ctx, "d-1")

	assert.ErrorIs(t, err, domain.ErrDispatchFailure)
	assert.Equal(t, 3, report.Requested)
	assert.Equal(t, 1, report.Enqueued)
	assert.Equal(t, 2, report.Failed)
}

func TestDispatcher_SyncDocument(t *testing.T) {
	datasets := memory.NewDatasetStore()
	taskRunner := runner.NewMemoryRunner(0)
	service := NewDispatcherService(datasets, taskRunner)
	ctx := context.Background()

	seedNotionDataset(t, datasets, "d-1", "p1")

	require.NoError(t, service.SyncDocument(ctx, "d-1", "d-1-doc-p1"))

	accepted := taskRunner.Accepted()
	require.Len(t, accepted, 1)
	assert.Equal(t, domain.SyncRequest{DatasetID: "d-1", DocumentID: "d-1-doc-p1"}, accepted[0].Request)
}

func TestDispatcher_SyncDocument_MissingDocument(t *testing.T) {
	datasets := memory.NewDatasetStore()
	taskRunner := runner.NewMemoryRunner(0)
	service := NewDispatcherService(datasets, taskRunner)
	ctx := context.Background()

	seedNotionDataset(t, datasets, "d-1", "p1")

	err := service.SyncDocument(ctx, "d-1", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, taskRunner.Accepted())
}

func TestDispatcher_SyncDocument_WrongDataset(t *testing.T) {
	datasets := memory.NewDatasetStore()
	service := NewDispatcherService(datasets, runner.NewMemoryRunner(0))
	ctx := context.Background()

	seedNotionDataset(t, datasets, "d-1", "p1")
	seedNotionDataset(t, datasets, "d-2")

	err := service.SyncDocument(ctx, "d-2", "d-1-doc-p1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDispatcher_EmptyInput(t *testing.T) {
	service := NewDispatcherService(memory.NewDatasetStore(), runner.NewMemoryRunner(0))
	ctx := context.Background()

	_, err := service.SyncDataset(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, service.SyncDocument(ctx, "", "doc"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.SyncDocument(ctx, "d-1", ""), domain.ErrInvalidInput)
}

func TestDispatcher_NilDependencies(t *testing.T) {
	service := NewDispatcherService(nil, nil)

	_, err := service.SyncDataset(context.Background(), "d-1")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, service.SyncDocument(context.Background(), "d-1", "doc"), domain.ErrNotImplemented)
}
