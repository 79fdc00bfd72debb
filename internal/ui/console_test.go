package ui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thdelmas/Rooster/internal/domain/sunrise"
)

// TestConsole_Rendering checks the line formats of the sinks.
func TestConsole_Rendering(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	console := NewConsole(&out)
	console.SetLabel("Wake me at sunrise (2024/06/02 04:00)")
	console.SetPlace("Paris")
	console.SetFix(sunrise.Position{
		Altitude:   35,
		Latitude:   48.85,
		Longitude:  2.35,
		ObservedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	console.Advise("Location access denied")

	rendered := out.String()
	require.Contains(t, rendered, "[button] Wake me at sunrise (2024/06/02 04:00)")
	require.Contains(t, rendered, "[place] Paris")
	require.Contains(t, rendered, "latitude=48.85000")
	require.Contains(t, rendered, "[notice] Location access denied")
}

// TestReadToggles_PressesPerLine verifies one press per input line and
// termination on EOF.
func TestReadToggles_PressesPerLine(t *testing.T) {
	t.Parallel()

	presses := 0

	ReadToggles(context.Background(), strings.NewReader("\n\n\n"), func() {
		presses++
	})

	require.Equal(t, 3, presses)
}

// TestReadToggles_StopsOnCancel verifies cancellation unblocks the reader.
func TestReadToggles_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})

	// A reader that never produces input.
	blocked, writer := io.Pipe()
	defer writer.Close()

	go func() {
		defer close(done)

		ReadToggles(ctx, blocked, func() {})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ReadToggles did not stop on cancellation")
	}
}
