package domain

// SyncRequest is an ephemeral work item asking the task runner to
// re-run ingestion for one document. It has no identity beyond its
// pair; execution idempotency is the runner's responsibility.
type SyncRequest struct {
	// DatasetID identifies the dataset the document belongs to.
	DatasetID string

	// DocumentID identifies the document to re-synchronise.
	DocumentID string
}

// DispatchReport summarises a multi-document dispatch. Enqueue attempts
// are independent, so a partial failure is reported rather than
// aborting the remaining documents.
type DispatchReport struct {
	// Requested is the number of documents considered for sync.
	Requested int

	// Enqueued is the number of requests handed to the runner.
	Enqueued int

	// Failed is the number of enqueue attempts that did not succeed.
	Failed int
}
