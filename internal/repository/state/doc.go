// Package state implements persistence for the armed flag.
//
// The FileRepository stores and loads the flag as JSON on disk and exposes a
// Repository interface that the orchestrator depends on. The flag survives
// process restarts, which is what keeps the toggle consistent with the
// scheduler registration that also outlives the process.
package state
