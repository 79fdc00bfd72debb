// Package scheduler arms and disarms the single named one-shot wake-up.
//
// Registrations are identified by a stable key derived from the alarm name,
// so arming and disarming work across process runs. The FileScheduler
// persists the registration set in a JSON registry file and drives pending
// registrations with in-process timers while the application is running.
package scheduler
