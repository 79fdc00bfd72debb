// Package wake runs the user-visible wake-up action when an alarm fires,
// either a configured command or a per-OS default sound.
package wake
