package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/thdelmas/Rooster/internal/config"
	domain "github.com/thdelmas/Rooster/internal/domain/alarm"
)

// Repository defines persistence operations for the armed flag.
type Repository interface {
	Load(ctx context.Context) (*domain.State, error)
	Save(ctx context.Context, state *domain.State) error
}

// FileRepository persists the armed flag to a JSON file on disk.
// The orchestrator is the only writer; reads and writes are still
// serialized so a concurrent reload observes a complete document.
type FileRepository struct {
	// path is the filesystem location of the JSON state file.
	path string
	// mu protects concurrent access to the state file.
	mu sync.Mutex
}

// ErrNotFound is returned when the state file does not exist yet.
var ErrNotFound = errors.New("state not found")

// persistedActor is the on-disk shape of the audit actor.
type persistedActor struct {
	Hostname string `json:"hostname"`
	Username string `json:"username"`
}

// persistedState is the on-disk shape of the armed flag.
// The flag keeps the key name of the original preference store.
type persistedState struct {
	IsAlarmSet bool            `json:"isAlarmSet"`
	Timestamp  time.Time       `json:"timestamp"`
	LastActor  *persistedActor `json:"lastActor,omitempty"`
}

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the state from disk.
func (r *FileRepository) Load(_ context.Context) (*domain.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	var stored persistedState
	if err = json.Unmarshal(contents, &stored); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	return fromPersisted(&stored), nil
}

// Save writes the state to disk using JSON representation.
func (r *FileRepository) Save(_ context.Context, state *domain.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(toPersisted(state), "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}

// fromPersisted converts the on-disk document into the domain State model.
func fromPersisted(stored *persistedState) *domain.State {
	var actor *domain.Actor
	if stored.LastActor != nil {
		actor = &domain.Actor{
			Hostname: stored.LastActor.Hostname,
			Username: stored.LastActor.Username,
		}
	}

	return &domain.State{
		Timestamp: stored.Timestamp,
		LastActor: actor,
		Armed:     stored.IsAlarmSet,
	}
}

// toPersisted converts the domain State model into its on-disk document.
func toPersisted(state *domain.State) *persistedState {
	var actor *persistedActor
	if state.LastActor != nil {
		actor = &persistedActor{
			Hostname: state.LastActor.Hostname,
			Username: state.LastActor.Username,
		}
	}

	return &persistedState{
		IsAlarmSet: state.Armed,
		Timestamp:  state.Timestamp,
		LastActor:  actor,
	}
}
