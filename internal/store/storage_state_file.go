package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
)

const (
	stateFileMode = 0o600
	stateDirMode  = 0o700
)

// fileStateStorage keeps the state as one indented JSON document. Writes go
// to a temporary file in the same directory which is then renamed over the
// target.
type fileStateStorage struct {
	path string

	mu     sync.Mutex
	logger *logger.Logger
}

// NewFileStateStorage returns a [StateStorage] writing to path.
func NewFileStateStorage(path string, logger *logger.Logger) StateStorage {
	return &fileStateStorage{path: path, logger: logger}
}

// Load implements [StateStorage].
func (f *fileStateStorage) Load(ctx context.Context) (models.PersistedState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return models.PersistedState{}, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.Debug().Str("func", "fileStateStorage.Load").Str("path", f.path).Msg("no saved state yet")
		return models.PersistedState{}, nil
	}
	if err != nil {
		return models.PersistedState{}, fmt.Errorf("read state file: %w", err)
	}

	var state models.PersistedState
	if err = json.Unmarshal(data, &state); err != nil {
		return models.PersistedState{}, fmt.Errorf("%w: %w", ErrCorruptedState, err)
	}

	return state, nil
}

// Save implements [StateStorage].
func (f *fileStateStorage) Save(ctx context.Context, state models.PersistedState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if state.Quotes == nil {
		state.Quotes = []models.Quote{}
	}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err = os.MkdirAll(dir, stateDirMode); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(append(payload, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err = os.Chmod(tmpName, stateFileMode); err != nil {
		return fmt.Errorf("chmod temp state file: %w", err)
	}
	if err = os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	f.logger.Debug().
		Str("func", "fileStateStorage.Save").
		Str("path", f.path).
		Int("quotes", len(state.Quotes)).
		Msg("state saved")
	return nil
}

// Close implements [StateStorage].
func (f *fileStateStorage) Close() error {
	return nil
}
