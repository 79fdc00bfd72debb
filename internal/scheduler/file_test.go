package scheduler

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestKeyFor_Stability verifies the same name always yields the same key
// and different names yield different keys.
func TestKeyFor_Stability(t *testing.T) {
	t.Parallel()

	require.Equal(t, KeyFor("Sunrise"), KeyFor("Sunrise"))
	require.NotEqual(t, KeyFor("Sunrise"), KeyFor("Sunset"))
}

// TestFileScheduler_ArmReplacesAndDisarms checks the single-registration
// lifecycle: arm, replace, disarm.
func TestFileScheduler_ArmReplacesAndDisarms(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alarms.json")
	s := NewFileScheduler(path, nil)

	defer s.Close()

	ctx := context.Background()
	first := time.Now().Add(time.Hour)
	second := first.Add(time.Hour)

	require.NoError(t, s.Arm(ctx, "Sunrise", first))
	require.NoError(t, s.Arm(ctx, "Sunrise", second))

	registrations, err := s.Registrations()
	require.NoError(t, err)
	require.Len(t, registrations, 1)
	require.Equal(t, "Sunrise", registrations[0].Name)
	require.Equal(t, second.Unix(), registrations[0].At.Unix())

	require.NoError(t, s.Disarm(ctx, "Sunrise"))

	registrations, err = s.Registrations()
	require.NoError(t, err)
	require.Empty(t, registrations)
}

// TestFileScheduler_DisarmAbsentIsNoop verifies disarming with no
// registration present succeeds and changes nothing.
func TestFileScheduler_DisarmAbsentIsNoop(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alarms.json")
	s := NewFileScheduler(path, nil)

	defer s.Close()

	require.NoError(t, s.Disarm(context.Background(), "Sunrise"))

	registrations, err := s.Registrations()
	require.NoError(t, err)
	require.Empty(t, registrations)
}

// TestFileScheduler_KeySurvivesProcessRestart arms with one scheduler
// instance and disarms with a fresh one sharing the registry file, as two
// distinct process runs would.
func TestFileScheduler_KeySurvivesProcessRestart(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alarms.json")
	ctx := context.Background()

	first := NewFileScheduler(path, nil)
	require.NoError(t, first.Arm(ctx, "Sunrise", time.Now().Add(time.Hour)))
	first.Close()

	second := NewFileScheduler(path, nil)

	defer second.Close()

	registrations, err := second.Registrations()
	require.NoError(t, err)
	require.Len(t, registrations, 1)

	require.NoError(t, second.Disarm(ctx, "Sunrise"))

	registrations, err = second.Registrations()
	require.NoError(t, err)
	require.Empty(t, registrations)
}

// TestFileScheduler_FireConsumesRegistration verifies a due registration
// runs the wake action exactly once and disappears from the registry.
func TestFileScheduler_FireConsumesRegistration(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alarms.json")

	var fired atomic.Int32

	done := make(chan struct{})
	s := NewFileScheduler(path, func(_ context.Context, name string) error {
		require.Equal(t, "Sunrise", name)

		if fired.Add(1) == 1 {
			close(done)
		}

		return nil
	})

	defer s.Close()

	require.NoError(t, s.Arm(context.Background(), "Sunrise", time.Now().Add(10*time.Millisecond)))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("wake action was not invoked")
	}

	// The registration is destroyed by firing.
	require.Eventually(t, func() bool {
		registrations, err := s.Registrations()

		return err == nil && len(registrations) == 0
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, int32(1), fired.Load())
}

// TestFileScheduler_RestoreReArmsPending verifies Restore picks up a
// registration written by an earlier instance and fires it when due.
func TestFileScheduler_RestoreReArmsPending(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alarms.json")
	ctx := context.Background()

	first := NewFileScheduler(path, nil)
	require.NoError(t, first.Arm(ctx, "Sunrise", time.Now().Add(20*time.Millisecond)))
	first.Close()

	done := make(chan struct{})
	second := NewFileScheduler(path, func(context.Context, string) error {
		close(done)

		return nil
	})

	defer second.Close()

	require.NoError(t, second.Restore(ctx))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("restored registration did not fire")
	}
}

// TestFileScheduler_FireAfterDisarmIsNoop verifies a timer that reaches
// fire after its registration was disarmed does not run the wake action.
func TestFileScheduler_FireAfterDisarmIsNoop(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alarms.json")
	ctx := context.Background()

	var fired atomic.Int32

	s := NewFileScheduler(path, func(context.Context, string) error {
		fired.Add(1)

		return nil
	})

	defer s.Close()

	require.NoError(t, s.Arm(ctx, "Sunrise", time.Now().Add(time.Hour)))
	require.NoError(t, s.Disarm(ctx, "Sunrise"))

	// The timer goroutine losing the race to Disarm lands here: the
	// registration is already gone when fire runs.
	s.fire(KeyFor("Sunrise"), "Sunrise")

	require.Equal(t, int32(0), fired.Load())

	registrations, err := s.Registrations()
	require.NoError(t, err)
	require.Empty(t, registrations)
}
