package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pagesync/internal/core/domain"
	"github.com/custodia-labs/pagesync/internal/core/ports/driven"
	"github.com/custodia-labs/pagesync/internal/core/ports/driving"
	"github.com/custodia-labs/pagesync/internal/logger"
)

// Ensure LifecycleService implements the interface.
var _ driving.BindingLifecycle = (*LifecycleService)(nil)

// LifecycleService enforces the enable/disable state machine for
// bindings. Transitions are single atomic read-modify-writes against
// the binding store; a no-op transition is rejected, never absorbed.
type LifecycleService struct {
	bindings driven.BindingStore
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(bindings driven.BindingStore) *LifecycleService {
	return &LifecycleService{bindings: bindings}
}

// Enable re-activates a disabled binding.
func (s *LifecycleService) Enable(ctx context.Context, bindingID string) error {
	return s.transition(ctx, bindingID, false)
}

// Disable switches off an enabled binding.
func (s *LifecycleService) Disable(ctx context.Context, bindingID string) error {
	return s.transition(ctx, bindingID, true)
}

// transition moves a binding to the requested disabled state.
// Existence is checked before the transition is attempted; the
// conditional store update re-checks the state atomically, so two
// racing transitions to the same state cannot both succeed.
func (s *LifecycleService) transition(ctx context.Context, bindingID string, disabled bool) error {
	if s.bindings == nil {
		return domain.ErrNotImplemented
	}
	if bindingID == "" {
		return domain.ErrInvalidInput
	}

	binding, err := s.bindings.Get(ctx, bindingID)
	if err != nil {
		return fmt.Errorf("get binding: %w", err)
	}
	if binding.Disabled == disabled {
		return domain.ErrInvalidStateTransition
	}

	if err := s.bindings.SetDisabled(ctx, bindingID, disabled); err != nil {
		return fmt.Errorf("set disabled: %w", err)
	}

	logger.Info("Binding %s disabled=%t", bindingID, disabled)
	return nil
}
