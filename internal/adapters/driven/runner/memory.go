// Package runner provides task runner adapters for asynchronous sync
// execution. The in-memory runner backs tests and single-process
// deployments; a queue-backed runner would implement the same port.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagesync/internal/core/domain"
	"github.com/custodia-labs/pagesync/internal/core/ports/driven"
)

// Ensure MemoryRunner implements the interface.
var _ driven.TaskRunner = (*MemoryRunner)(nil)

// DefaultCapacity is the default work queue capacity.
const DefaultCapacity = 1024

// Item is one accepted work item. The runner assigns each item its own
// identifier; the sync request itself has no identity.
type Item struct {
	// ID is the runner-assigned work item identifier.
	ID string

	// Request is the sync request to execute.
	Request domain.SyncRequest

	// EnqueuedAt is when the item was accepted.
	EnqueuedAt time.Time
}

// MemoryRunner is a channel-backed in-memory implementation of
// driven.TaskRunner. Enqueue blocks while the queue is full, so a
// caller-supplied deadline bounds the hand-off.
type MemoryRunner struct {
	items chan Item

	mu       sync.Mutex
	accepted []Item
	failWith error
}

// NewMemoryRunner creates a runner with the given queue capacity.
// A capacity of zero or less falls back to DefaultCapacity.
func NewMemoryRunner(capacity int) *MemoryRunner {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryRunner{
		items: make(chan Item, capacity),
	}
}

// Enqueue hands one sync request to the runner.
func (r *MemoryRunner) Enqueue(ctx context.Context, req domain.SyncRequest) error {
	r.mu.Lock()
	failWith := r.failWith
	r.mu.Unlock()
	if failWith != nil {
		return failWith
	}

	item := Item{
		ID:         uuid.NewString(),
		Request:    req,
		EnqueuedAt: time.Now().UTC(),
	}

	select {
	case r.items <- item:
	case <-ctx.Done():
		return ctx.Err()
	}

	r.mu.Lock()
	r.accepted = append(r.accepted, item)
	r.mu.Unlock()
	return nil
}

// Dequeue blocks until a work item is available or ctx expires.
func (r *MemoryRunner) Dequeue(ctx context.Context) (Item, error) {
	select {
	case item := <-r.items:
		return item, nil
	case <-ctx.Done():
		return Item{}, ctx.Err()
	}
}

// Accepted returns a copy of every item accepted so far.
func (r *MemoryRunner) Accepted() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, len(r.accepted))
	copy(out, r.accepted)
	return out
}

// FailWith makes subsequent Enqueue calls return err. Pass nil to
// restore normal operation. Used to simulate an unreachable runner.
func (r *MemoryRunner) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}
