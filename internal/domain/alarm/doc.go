// Package alarm contains core domain types for the wake-up alarm.
//
// It defines the fixed alarm Name, the persisted armed State and the Actor
// who last toggled it, with Clone helpers to avoid leaking internal
// references.
package alarm
