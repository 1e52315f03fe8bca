// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - BindingStore: data-source binding persistence
//   - DatasetStore: dataset/document read access
//   - TaskRunner: asynchronous sync work hand-off
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PageSource: workspace page listing and content fetch. Without it,
//     preview and source-info refresh are disabled.
//   - SchedulerStore: scheduler persistence. Without it, the background
//     scheduler is disabled.
//   - ConfigStore: application configuration.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
