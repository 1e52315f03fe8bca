// Package file provides file-based implementations of driven port
// interfaces. The TOML config store holds deployment settings such as
// the auth link base, scheduler intervals and the data directory.
package file
