package driving

import "context"

// BindingLifecycle enforces the enable/disable state machine for a
// single binding.
type BindingLifecycle interface {
	// Enable re-activates a disabled binding.
	// Returns domain.ErrInvalidStateTransition if already enabled.
	Enable(ctx context.Context, bindingID string) error

	// Disable switches off an enabled binding.
	// Returns domain.ErrInvalidStateTransition if already disabled.
	Disable(ctx context.Context, bindingID string) error
}
