// Package orchestrator coordinates the sunrise alarm session: one position
// fix, one weather query, one persisted armed flag and one scheduler
// registration, bound to a single user-visible toggle.
//
// The session moves through AwaitingPermission, AwaitingFix,
// AwaitingSunrise and Ready; only in Ready does the toggle respond. The
// scheduler is always updated before the store so the persisted flag never
// disagrees with the registration the scheduler holds.
package orchestrator
