// Package tui is the terminal quote browser: a category-filtered list with
// random pick, add, edit, remove and copy, plus a live sync indicator fed by
// the sync engine's events.
package tui

import (
	"context"
	"errors"
	"iter"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/prefs"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// QuoteService is the part of the quote use cases the browser needs.
type QuoteService interface {
	Add(ctx context.Context, text, category string) (models.Quote, error)
	Update(ctx context.Context, id, text, category string) (models.Quote, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context, category string) iter.Seq[models.Quote]
	Categories(ctx context.Context) []string
	Random(ctx context.Context, category string) (models.Quote, error)
}

// SyncService starts manual cycles and reports the engine state.
type SyncService interface {
	RunOnce(ctx context.Context) (models.SyncReport, error)
	Status() models.SyncStatus
}

// Deps are the collaborators of the browser. Prefs and Events may be nil.
type Deps struct {
	Quotes    QuoteService
	Sync      SyncService
	Prefs     *prefs.Store
	Events    <-chan models.SyncEvent
	BuildInfo models.AppBuildInfo
}

type TUI struct {
	deps   Deps
	logger *logger.Logger
}

func New(deps Deps, logger *logger.Logger) *TUI {
	return &TUI{deps: deps, logger: logger}
}

// Run shows the browser until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	category := models.CategoryAll
	if t.deps.Prefs != nil {
		p, err := t.deps.Prefs.Load()
		if err != nil {
			t.logger.Warn().Err(err).Str("func", "TUI.Run").Msg("failed to load preferences, using defaults")
		}
		category = p.SelectedCategory
	}

	model := newBrowserModel(ctx, t.deps, category)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
