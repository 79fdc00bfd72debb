package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/thdelmas/Rooster/internal/config"
	"github.com/thdelmas/Rooster/internal/logger"
)

// FileScheduler keeps the registration set in a JSON registry file so a
// wake-up armed by one process run survives into the next, and drives the
// pending registrations with in-process timers while running.
type FileScheduler struct {
	// path is the filesystem location of the registry file.
	path string
	// wake is the action executed when a registration fires.
	wake WakeFunc

	// mu protects the registry file and the timer table.
	mu sync.Mutex
	// timers holds the armed in-process timers by registration key.
	timers map[Key]*time.Timer
}

// NewFileScheduler creates a scheduler backed by the registry at path.
// Call Restore to re-arm registrations left behind by an earlier run.
func NewFileScheduler(path string, wake WakeFunc) *FileScheduler {
	return &FileScheduler{
		path:   filepath.Clean(path),
		wake:   wake,
		timers: make(map[Key]*time.Timer),
	}
}

// Arm registers a one-shot wake-up under the key derived from name,
// replacing any prior registration with the same key.
func (s *FileScheduler) Arm(ctx context.Context, name string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	registrations, err := s.readRegistry()
	if err != nil {
		return err
	}

	key := KeyFor(name)
	registrations[key] = Registration{
		Name: name,
		At:   at,
	}

	if err := s.writeRegistry(registrations); err != nil {
		return err
	}

	s.schedule(key, name, at)
	logger.InfoKV(ctx, "Alarm armed", "alarm", name, "key", uint32(key), "at", at.UTC().Format(time.RFC3339))

	return nil
}

// Disarm cancels the registration for name. Disarming an absent
// registration is a no-op.
func (s *FileScheduler) Disarm(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	registrations, err := s.readRegistry()
	if err != nil {
		return err
	}

	key := KeyFor(name)
	if _, ok := registrations[key]; !ok {
		logger.InfoKV(ctx, "No alarm to cancel", "alarm", name)

		return nil
	}

	delete(registrations, key)

	if err := s.writeRegistry(registrations); err != nil {
		return err
	}

	s.stopTimer(key)
	logger.InfoKV(ctx, "Alarm canceled", "alarm", name, "key", uint32(key))

	return nil
}

// Restore re-arms in-process timers for every registration left in the
// registry by an earlier run. Registrations whose instant has already
// passed fire immediately.
func (s *FileScheduler) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	registrations, err := s.readRegistry()
	if err != nil {
		return err
	}

	for key, registration := range registrations {
		s.schedule(key, registration.Name, registration.At)
	}

	if len(registrations) > 0 {
		logger.InfoKV(ctx, "Alarm registrations restored", "count", len(registrations))
	}

	return nil
}

// Registrations returns the currently armed registrations.
func (s *FileScheduler) Registrations() ([]Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	registrations, err := s.readRegistry()
	if err != nil {
		return nil, err
	}

	result := make([]Registration, 0, len(registrations))
	for _, registration := range registrations {
		result = append(result, registration)
	}

	return result, nil
}

// Close stops all in-process timers. Registrations stay in the registry,
// ready to be restored by the next run.
func (s *FileScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
}

// schedule arms the in-process timer for a registration.
// The caller must hold mu.
func (s *FileScheduler) schedule(key Key, name string, at time.Time) {
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
	}

	s.timers[key] = time.AfterFunc(time.Until(at), func() {
		s.fire(key, name)
	})
}

// stopTimer cancels the in-process timer for a key if one is armed.
// The caller must hold mu.
func (s *FileScheduler) stopTimer(key Key) {
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
}

// fire consumes a registration when its instant arrives: the registration
// is destroyed first, then the wake action runs.
func (s *FileScheduler) fire(key Key, name string) {
	ctx := logger.WithName(context.Background(), "scheduler")

	s.mu.Lock()

	delete(s.timers, key)

	registrations, err := s.readRegistry()
	if err == nil {
		// A concurrent Disarm may have won the race; a registration that
		// is already gone must not wake anyone.
		if _, ok := registrations[key]; !ok {
			s.mu.Unlock()

			return
		}

		delete(registrations, key)
		err = s.writeRegistry(registrations)
	}

	s.mu.Unlock()

	if err != nil {
		logger.ErrorKV(ctx, "Failed to consume fired registration", "alarm", name, "error", err)
	}

	if s.wake == nil {
		return
	}

	if err := s.wake(ctx, name); err != nil {
		logger.ErrorKV(ctx, "Wake action failed", "alarm", name, "error", err)
	}
}

// readRegistry loads the registration table from disk.
// A missing registry file means no registrations.
// The caller must hold mu.
func (s *FileScheduler) readRegistry() (map[Key]Registration, error) {
	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[Key]Registration), nil
		}

		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var stored map[string]Registration
	if err = json.Unmarshal(contents, &stored); err != nil {
		return nil, fmt.Errorf("decode registry file: %w", err)
	}

	registrations := make(map[Key]Registration, len(stored))

	for rawKey, registration := range stored {
		parsed, err := strconv.ParseUint(rawKey, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid registry key %q: %w", rawKey, err)
		}

		registrations[Key(parsed)] = registration
	}

	return registrations, nil
}

// writeRegistry stores the registration table to disk.
// The caller must hold mu.
func (s *FileScheduler) writeRegistry(registrations map[Key]Registration) error {
	stored := make(map[string]Registration, len(registrations))
	for key, registration := range registrations {
		stored[strconv.FormatUint(uint64(key), 10)] = registration
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	if err = os.WriteFile(s.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write registry file: %w", err)
	}

	return nil
}
