package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/thdelmas/Rooster/internal/domain/sunrise"
)

// Console renders the toggle surface on a terminal: the button label, the
// fix fields and the place name each become one rewritten line.
type Console struct {
	// out receives the rendered lines.
	out io.Writer
	// mu serializes writes from the orchestrator and the scheduler.
	mu sync.Mutex
}

// NewConsole creates a console front-end writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out: out,
	}
}

// SetLabel renders the button text.
func (c *Console) SetLabel(text string) {
	c.printf("[button] %s", text)
}

// SetFix renders the position fields.
func (c *Console) SetFix(fix sunrise.Position) {
	c.printf("[fix] altitude=%.1f latitude=%.5f longitude=%.5f observed=%s",
		fix.Altitude, fix.Latitude, fix.Longitude, fix.ObservedAt.Format("2006/01/02 15:04:05"))
}

// SetPlace renders the place name field.
func (c *Console) SetPlace(name string) {
	c.printf("[place] %s", name)
}

// Advise renders a user advisory, e.g. when location access was denied.
func (c *Console) Advise(message string) {
	c.printf("[notice] %s", message)
}

// printf writes one rendered line.
func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}

// ReadToggles turns every line read from in into one button press until in
// is exhausted or ctx is canceled. It blocks, so callers run it last.
func ReadToggles(ctx context.Context, in io.Reader, press func()) {
	lines := make(chan struct{})

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-lines:
			if !ok {
				return
			}

			press()
		}
	}
}
