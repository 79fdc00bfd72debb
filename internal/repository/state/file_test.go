package state

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/thdelmas/Rooster/internal/domain/alarm"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))
	s, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, s)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns equal state.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "state.json")
	repo := NewFileRepository(file)

	ts := time.Now().UTC().Truncate(time.Second)
	want := &domain.State{
		Timestamp: ts,
		LastActor: &domain.Actor{
			Hostname: "bedside-pi",
			Username: "rooster",
		},
		Armed: true,
	}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.Armed, got.Armed)
	require.Equal(t, want.Timestamp.Unix(), got.Timestamp.Unix())
	require.Equal(t, want.LastActor, got.LastActor)

	_, err = os.Stat(file)
	require.NoError(t, err)
}

// TestFileRepository_FlagKeyName pins the on-disk key of the armed flag.
func TestFileRepository_FlagKeyName(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "state.json")
	repo := NewFileRepository(file)

	require.NoError(t, repo.Save(context.Background(), &domain.State{
		Timestamp: time.Now(),
		Armed:     true,
	}))

	contents, err := os.ReadFile(file)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(contents, &doc))
	require.Equal(t, true, doc["isAlarmSet"])
}
