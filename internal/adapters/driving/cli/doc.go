// Package cli implements the command-line driving adapter. Commands
// are thin wrappers over the driving ports: listing integrations and
// importable pages, controlling binding state, previewing page content
// and dispatching re-sync work.
package cli
