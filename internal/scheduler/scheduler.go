package scheduler

import (
	"context"
	"hash/fnv"
	"time"
)

// Key is the stable identifier of a registration, derived from the alarm
// name. The same name always yields the same key, so a later process run
// can cancel a registration armed by an earlier one.
type Key uint32

// KeyFor derives the registration key from an alarm name using FNV-1a.
func KeyFor(name string) Key {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))

	return Key(h.Sum32())
}

// Registration is a single armed one-shot wake-up held by the scheduler.
type Registration struct {
	// Name is the logical alarm name the key was derived from.
	Name string `json:"name"`
	// At is the instant the wake-up fires.
	At time.Time `json:"at"`
}

// Scheduler arms and disarms a single named one-shot wake-up.
// Arm replaces any prior registration with the same name; Disarm is a
// no-op when no registration exists.
type Scheduler interface {
	Arm(ctx context.Context, name string, at time.Time) error
	Disarm(ctx context.Context, name string) error
}

// WakeFunc is invoked when an armed registration reaches its instant.
type WakeFunc func(ctx context.Context, name string) error
