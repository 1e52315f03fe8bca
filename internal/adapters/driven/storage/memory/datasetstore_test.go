package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesync/internal/core/domain"
)

func testDocument(id, datasetID, pageID string, enabled bool) domain.Document {
	return domain.Document{
		ID:             id,
		DatasetID:      datasetID,
		TenantID:       "t-1",
		DataSourceType: domain.ProviderNotion.ImportType(),
		SourceInfo:     domain.DocumentSourceInfo{NotionPageID: pageID},
		Enabled:        enabled,
	}
}

func TestDatasetStore_SaveAndGetDataset(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()

	err := store.SaveDataset(ctx, domain.Dataset{
		ID:             "d-1",
		TenantID:       "t-1",
		Name:           "Engineering wiki",
		DataSourceType: domain.ProviderNotion.ImportType(),
	})
	require.NoError(t, err)

	dataset, err := store.GetDataset(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "Engineering wiki", dataset.Name)
}

func TestDatasetStore_GetDataset_NotFound(t *testing.T) {
	store := NewDatasetStore()

	_, err := store.GetDataset(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDatasetStore_SaveDataset_EmptyID(t *testing.T) {
	store := NewDatasetStore()

	err := store.SaveDataset(context.Background(), domain.Dataset{TenantID: "t-1"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDatasetStore_ListDatasets_FiltersByType(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDataset(ctx, domain.Dataset{
		ID: "d-1", DataSourceType: domain.ProviderNotion.ImportType(),
	}))
	require.NoError(t, store.SaveDataset(ctx, domain.Dataset{
		ID: "d-2", DataSourceType: "upload",
	}))

	datasets, err := store.ListDatasets(ctx, domain.ProviderNotion.ImportType())
	require.NoError(t, err)
	require.Len(t, datasets, 1)
	assert.Equal(t, "d-1", datasets[0].ID)
}

func TestDatasetStore_ListDatasets_InsertionOrder(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()

	for _, id := range []string{"d-3", "d-1", "d-2"} {
		require.NoError(t, store.SaveDataset(ctx, domain.Dataset{
			ID: id, DataSourceType: domain.ProviderNotion.ImportType(),
		}))
	}
	// Re-saving keeps the dataset's original position.
	require.NoError(t, store.SaveDataset(ctx, domain.Dataset{
		ID: "d-3", Name: "renamed", DataSourceType: domain.ProviderNotion.ImportType(),
	}))

	datasets, err := store.ListDatasets(ctx, domain.ProviderNotion.ImportType())
	require.NoError(t, err)
	require.Len(t, datasets, 3)
	assert.Equal(t, "d-3", datasets[0].ID)
	assert.Equal(t, "renamed", datasets[0].Name)
	assert.Equal(t, "d-1", datasets[1].ID)
	assert.Equal(t, "d-2", datasets[2].ID)
}

func TestDatasetStore_GetDocument_ScopedToDataset(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", "d-1", "p-1", true)))

	doc, err := store.GetDocument(ctx, "d-1", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", doc.SourceInfo.NotionPageID)

	// Same document ID against the wrong dataset is not found
	_, err = store.GetDocument(ctx, "d-2", "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDatasetStore_ListDocuments_AllStates(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", "d-1", "p-1", true)))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-2", "d-1", "p-2", false)))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-3", "d-2", "p-3", true)))

	docs, err := store.ListDocuments(ctx, "d-1")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDatasetStore_ListEnabledDocuments(t *testing.T) {
	store := NewDatasetStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1", "d-1", "p-1", true)))
	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-2", "d-1", "p-2", false)))

	uploaded := testDocument("doc-3", "d-1", "", true)
	uploaded.DataSourceType = "upload"
	require.NoError(t, store.SaveDocument(ctx, uploaded))

	docs, err := store.ListEnabledDocuments(ctx, "d-1", "t-1", domain.ProviderNotion.ImportType())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-1", docs[0].ID)
}
