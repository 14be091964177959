package store

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
)

func sampleState() models.PersistedState {
	return models.PersistedState{
		Quotes: []models.Quote{
			{ID: "b", Text: "Second first", Category: "Order", ModifiedAt: 4, Origin: models.OriginLocal},
			{ID: "a", Text: "Stay hungry", Category: "Life", ModifiedAt: 2, Origin: models.OriginRemote},
		},
		Tombstones: []models.Tombstone{{ID: "z", Text: "gone", Category: "Life", RemovedAt: 5}},
		SyncState:  models.SyncState{LastSyncedAt: 3, PendingUpload: []string{"b"}},
	}
}

func TestFileStateStorage_LoadMissing(t *testing.T) {
	s := NewFileStateStorage(filepath.Join(t.TempDir(), "nested", "state.json"), logger.Nop())

	state, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, state.Quotes)
	assert.Zero(t, state.SyncState.LastSyncedAt)
}

func TestFileStateStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := NewFileStateStorage(path, logger.Nop())
	want := sampleState()

	require.NoError(t, s.Save(context.Background(), want))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStateStorage_SaveOverwrites(t *testing.T) {
	s := NewFileStateStorage(filepath.Join(t.TempDir(), "state.json"), logger.Nop())

	require.NoError(t, s.Save(context.Background(), sampleState()))
	require.NoError(t, s.Save(context.Background(), models.PersistedState{}))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Quotes)
	assert.Empty(t, got.Tombstones)
}

func TestFileStateStorage_WritesLastSyncedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStateStorage(path, logger.Nop())

	require.NoError(t, s.Save(context.Background(), sampleState()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"lastSyncedAt": 3`)
	assert.Contains(t, string(raw), `"modifiedAt": 4`)
}

func TestFileStateStorage_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStateStorage(path, logger.Nop()).Load(context.Background())

	assert.ErrorIs(t, err, ErrCorruptedState)
}

func TestFileStateStorage_SaveFailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	s := NewFileStateStorage(path, logger.Nop())
	require.NoError(t, s.Save(context.Background(), sampleState()))

	// the parent of child.json is a regular file
	blocked := NewFileStateStorage(filepath.Join(path, "child.json"), logger.Nop())
	assert.Error(t, blocked.Save(context.Background(), models.PersistedState{}))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.Quotes, 2)
}

func TestFileStateStorage_CancelledContext(t *testing.T) {
	s := NewFileStateStorage(filepath.Join(t.TempDir(), "state.json"), logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Save(ctx, sampleState()), context.Canceled)
	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
