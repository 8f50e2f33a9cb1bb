// Package version exposes build metadata of the alarm-panel binaries.
//
// Version, Commit and BuildTime are injected with -ldflags at build time.
package version
