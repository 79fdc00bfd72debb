package alarm

import "time"

// Name is the logical name of the single wake-up alarm this application manages.
const Name = "Sunrise"

// Actor identifies who last changed the armed flag.
type Actor struct {
	// Hostname is the machine name where the action was performed.
	Hostname string
	// Username is the system user who triggered the action.
	Username string
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// State is the persisted armed flag with its audit trail.
//
// The flag is the one piece of state shared across process instances:
// Armed is true exactly when the scheduler holds an active wake-up
// registration under the key for Name.
type State struct {
	// Timestamp is when the armed flag was last changed.
	Timestamp time.Time
	// LastActor is the user who last toggled the alarm.
	LastActor *Actor
	// Armed indicates whether the wake-up alarm is currently set.
	Armed bool
}

// Clone returns a copy of the state to avoid leaking internal references.
func (s *State) Clone() *State {
	return &State{
		Timestamp: s.Timestamp,
		LastActor: s.LastActor.Clone(),
		Armed:     s.Armed,
	}
}
