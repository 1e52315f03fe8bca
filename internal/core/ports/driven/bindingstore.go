package driven

import (
	"context"

	"github.com/custodia-labs/pagesync/internal/core/domain"
)

// BindingStore persists data-source bindings.
//
// SetDisabled must be atomic: two concurrent transitions to the same
// state on one binding cannot both succeed.
type BindingStore interface {
	// Save stores or updates a binding.
	Save(ctx context.Context, binding domain.Binding) error

	// Get retrieves a binding by ID.
	Get(ctx context.Context, id string) (*domain.Binding, error)

	// Delete removes a binding.
	Delete(ctx context.Context, id string) error

	// ListActive returns all non-disabled bindings for a tenant, in
	// the store's natural order.
	ListActive(ctx context.Context, tenantID string) ([]domain.Binding, error)

	// ListActiveByProvider returns all non-disabled bindings for a
	// tenant and provider, in the store's natural order.
	ListActiveByProvider(ctx context.Context, tenantID string, provider domain.Provider) ([]domain.Binding, error)

	// GetActiveByWorkspace returns the non-disabled binding for a
	// tenant, provider and workspace, or domain.ErrNotFound.
	GetActiveByWorkspace(ctx context.Context, tenantID string, provider domain.Provider, workspaceID string) (*domain.Binding, error)

	// SetDisabled conditionally flips the disabled flag and refreshes
	// UpdatedAt. Returns domain.ErrInvalidStateTransition if the
	// binding is already in the requested state, domain.ErrNotFound if
	// it does not exist.
	SetDisabled(ctx context.Context, id string, disabled bool) error
}
