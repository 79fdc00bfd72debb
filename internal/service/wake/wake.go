package wake

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/thdelmas/Rooster/internal/logger"
)

// ErrUnsupportedOS indicates the current OS has no default wake command.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// Runner executes the wake-up action when an alarm fires.
type Runner struct {
	// command overrides the per-OS default when non-empty.
	command []string
}

// NewRunner creates a runner. When command is empty, a per-OS default
// sound command is used at fire time.
func NewRunner(command []string) *Runner {
	return &Runner{
		command: command,
	}
}

// Fire runs the wake-up command, using common, built-in tools when no
// command is configured:
//   - Linux:   `paplay` with the freedesktop alarm sound
//   - macOS:   `afplay` with a system sound
//   - Windows: `rundll32 user32.dll,MessageBeep`
//
// The command is started asynchronously; the OS takes over the rest.
func (r *Runner) Fire(ctx context.Context, name string) error {
	command := r.command
	if len(command) == 0 {
		var err error
		if command, err = defaultCommand(); err != nil {
			return err
		}
	}

	logger.InfoKV(ctx, "Alarm fired", "alarm", name, "command", command)

	if err := exec.CommandContext(ctx, command[0], command[1:]...).Start(); err != nil {
		return fmt.Errorf("start wake command: %w", err)
	}

	return nil
}

// defaultCommand picks the wake command for the host OS.
func defaultCommand() ([]string, error) {
	switch runtime.GOOS {
	case "linux":
		return []string{"paplay", "/usr/share/sounds/freedesktop/stereo/alarm-clock-elapsed.oga"}, nil
	case "darwin":
		return []string{"afplay", "/System/Library/Sounds/Glass.aiff"}, nil
	case "windows":
		return []string{"rundll32", "user32.dll,MessageBeep"}, nil
	default:
		return nil, fmt.Errorf("%s: %w", runtime.GOOS, ErrUnsupportedOS)
	}
}
