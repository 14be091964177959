// Package prefs remembers small UI preferences between runs in a TOML file.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/MKhiriev/go-quote-keeper/models"
)

// Prefs is the content of the preferences file.
type Prefs struct {
	SelectedCategory string `toml:"selected_category"`
}

// Store reads and writes one preferences file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the saved preferences. A missing file yields the defaults.
func (s *Store) Load() (Prefs, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults(), nil
	}
	if err != nil {
		return defaults(), fmt.Errorf("read prefs: %w", err)
	}

	var p Prefs
	if err = toml.Unmarshal(data, &p); err != nil {
		return defaults(), fmt.Errorf("parse prefs: %w", err)
	}
	p.SelectedCategory = strings.TrimSpace(p.SelectedCategory)
	if p.SelectedCategory == "" {
		p.SelectedCategory = models.CategoryAll
	}
	return p, nil
}

// Save writes p, creating the parent directory when needed.
func (s *Store) Save(p Prefs) error {
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	if err = os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func defaults() Prefs {
	return Prefs{SelectedCategory: models.CategoryAll}
}
