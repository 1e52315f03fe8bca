// Package services implements the driving ports: the binding
// lifecycle, the integration catalog, the page reconciler, the sync
// dispatcher, the page preview and the background scheduler.
//
// Services depend only on domain types and driven ports; adapters are
// injected at construction time.
package services
