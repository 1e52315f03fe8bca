package driven

import (
	"context"

	"github.com/custodia-labs/pagesync/internal/core/domain"
)

// TaskRunner accepts sync work items for asynchronous execution.
// Delivery is at-least-once; the runner owns execution idempotency.
// Enqueue returns once the request is handed off, not when it runs.
type TaskRunner interface {
	// Enqueue hands one sync request to the runner. Blocks until the
	// request is accepted or ctx expires.
	Enqueue(ctx context.Context, req domain.SyncRequest) error
}
