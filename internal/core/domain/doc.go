// Package domain defines the core business entities for pagesync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Binding: a tenant's authorization for one external workspace
//   - Page: one importable content unit within a workspace
//   - Dataset: a tenant-owned collection of ingested documents
//   - Document: an ingested artifact tracked for indexing
//   - SyncRequest: a re-synchronisation work item
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
