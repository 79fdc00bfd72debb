// Package version exposes build metadata for the rooster binaries.
//
// Version, Commit and BuildTime are injected via Go ldflags and default
// to sensible values for local builds. Short and Full render the version
// string for CLI output and logs.
package version
