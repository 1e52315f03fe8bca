package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/pagesync/internal/core/domain"
	"github.com/custodia-labs/pagesync/internal/core/ports/driven"
)

// Ensure BindingStore implements the interface.
var _ driven.BindingStore = (*BindingStore)(nil)

// BindingStore is an in-memory implementation of driven.BindingStore.
// Bindings are returned in insertion order, matching the natural row
// order of the SQL store.
type BindingStore struct {
	mu       sync.RWMutex
	bindings map[string]domain.Binding
	order    []string
}

// NewBindingStore creates a new in-memory binding store.
func NewBindingStore() *BindingStore {
	return &BindingStore{
		bindings: make(map[string]domain.Binding),
	}
}

// Save stores or updates a binding.
func (s *BindingStore) Save(_ context.Context, binding domain.Binding) error {
	if binding.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bindings[binding.ID]; !exists {
		s.order = append(s.order, binding.ID)
	}
	s.bindings[binding.ID] = binding
	return nil
}

// Get retrieves a binding by ID.
func (s *BindingStore) Get(_ context.Context, id string) (*domain.Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	binding, ok := s.bindings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &binding, nil
}

// Delete removes a binding.
func (s *BindingStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bindings[id]; !ok {
		return nil
	}
	delete(s.bindings, id)
	for i, bid := range s.order {
		if bid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListActive returns all non-disabled bindings for a tenant.
func (s *BindingStore) ListActive(_ context.Context, tenantID string) ([]domain.Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Binding, 0)
	for _, id := range s.order {
		b := s.bindings[id]
		if b.TenantID == tenantID && !b.Disabled {
			result = append(result, b)
		}
	}
	return result, nil
}

// ListActiveByProvider returns all non-disabled bindings for a tenant and provider.
func (s *BindingStore) ListActiveByProvider(
	_ context.Context,
	tenantID string,
	provider domain.Provider,
) ([]domain.Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Binding, 0)
	for _, id := range s.order {
		b := s.bindings[id]
		if b.TenantID == tenantID && b.Provider == provider && !b.Disabled {
			result = append(result, b)
		}
	}
	return result, nil
}

// GetActiveByWorkspace returns the non-disabled binding for a tenant,
// provider and workspace.
func (s *BindingStore) GetActiveByWorkspace(
	_ context.Context,
	tenantID string,
	provider domain.Provider,
	workspaceID string,
) (*domain.Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		b := s.bindings[id]
		if b.TenantID == tenantID && b.Provider == provider &&
			b.SourceInfo.WorkspaceID == workspaceID && !b.Disabled {
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

// SetDisabled conditionally flips the disabled flag. The check and the
// write happen under one lock, so racing transitions to the same state
// cannot both succeed.
func (s *BindingStore) SetDisabled(_ context.Context, id string, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	binding, ok := s.bindings[id]
	if !ok {
		return domain.ErrNotFound
	}
	if binding.Disabled == disabled {
		return domain.ErrInvalidStateTransition
	}
	binding.Disabled = disabled
	binding.UpdatedAt = time.Now().UTC()
	s.bindings[id] = binding
	return nil
}
