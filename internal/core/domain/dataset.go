package domain

import "time"

// Dataset is a tenant-owned collection of ingested documents.
type Dataset struct {
	// ID is the unique identifier for the dataset.
	ID string

	// TenantID identifies the owning tenant.
	TenantID string

	// Name is the human-readable dataset name.
	Name string

	// DataSourceType records where the dataset's documents come from
	// (e.g. "notion_import").
	DataSourceType string

	// CreatedAt is when the dataset was created.
	CreatedAt time.Time
}

// DocumentSourceInfo records where an ingested document originated.
// The JSON keys are provider-specific and must match what the indexing
// pipeline writes at import time.
type DocumentSourceInfo struct {
	// NotionPageID is the originating page identifier.
	NotionPageID string `json:"notion_page_id"`

	// NotionWorkspaceID is the originating workspace identifier.
	NotionWorkspaceID string `json:"notion_workspace_id,omitempty"`
}

// Document is an ingested artifact inside a dataset. It is owned by the
// indexing subsystem; this core only reads it for reconciliation and
// sync scheduling.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// DatasetID links to the owning Dataset.
	DatasetID string

	// TenantID identifies the owning tenant.
	TenantID string

	// DataSourceType records the source kind this document was
	// imported from.
	DataSourceType string

	// SourceInfo records the originating page.
	SourceInfo DocumentSourceInfo

	// Enabled marks the document as live. Disabled documents are
	// excluded from reconciliation but still eligible for re-sync.
	Enabled bool

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}
