package tui

import (
	"context"
	"errors"
	"iter"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-quote-keeper/internal/mock"
	"github.com/MKhiriev/go-quote-keeper/internal/prefs"
	"github.com/MKhiriev/go-quote-keeper/models"
)

var browserQuotes = []models.Quote{
	{ID: "q1", Text: "Stay hungry, stay foolish.", Category: "Life"},
	{ID: "q2", Text: "Less is more.", Category: "Design"},
}

type browserFixture struct {
	quotes *mock.MockQuoteService
	sync   *mock.MockSyncService
	prefs  *prefs.Store
	model  browserModel
}

func newBrowserFixture(t *testing.T) *browserFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &browserFixture{
		quotes: mock.NewMockQuoteService(ctrl),
		sync:   mock.NewMockSyncService(ctrl),
		prefs:  prefs.NewStore(filepath.Join(t.TempDir(), "prefs.toml")),
	}
	f.sync.EXPECT().Status().Return(models.SyncStatus{Phase: models.SyncPhaseIdle}).AnyTimes()
	f.quotes.EXPECT().Categories(gomock.Any()).Return([]string{"Design", "Life"}).AnyTimes()
	f.quotes.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, category string) iter.Seq[models.Quote] {
			return slices.Values(slices.DeleteFunc(slices.Clone(browserQuotes), func(q models.Quote) bool {
				return category != models.CategoryAll && q.Category != category
			}))
		}).AnyTimes()

	f.model = newBrowserModel(context.Background(), Deps{
		Quotes:    f.quotes,
		Sync:      f.sync,
		Prefs:     f.prefs,
		BuildInfo: models.NewAppBuildInfo("1.0.0", "2026-01-01", "abc"),
	}, models.CategoryAll)
	f.model = f.send(t, f.model.cmdLoad()())
	return f
}

func (f *browserFixture) send(t *testing.T, msg tea.Msg) browserModel {
	t.Helper()
	next, _ := f.model.Update(msg)
	m, ok := next.(browserModel)
	require.True(t, ok)
	f.model = m
	return m
}

func (f *browserFixture) sendCmd(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.model.Update(msg)
	f.model = next.(browserModel)
	return cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes cmd and every command of a batch it returns.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// ── list ─────────────────────────────────────────────────────────────────────

func TestBrowser_LoadAndNavigate(t *testing.T) {
	f := newBrowserFixture(t)

	assert.Equal(t, []string{models.CategoryAll, "Design", "Life"}, f.model.categories)
	require.Len(t, f.model.items, 2)

	f.send(t, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, f.model.idx)
	f.send(t, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, f.model.idx)
	f.send(t, keyRunes("k"))
	assert.Equal(t, 0, f.model.idx)

	view := f.model.View()
	assert.Contains(t, view, "Stay hungry, stay foolish.")
	assert.Contains(t, view, "Less is more.")
}

func TestBrowser_SelectCategory_FiltersAndRemembers(t *testing.T) {
	f := newBrowserFixture(t)

	cmd := f.sendCmd(t, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "Design", f.model.category)

	for _, msg := range runCmd(cmd) {
		f.send(t, msg)
	}
	require.Len(t, f.model.items, 1)
	assert.Equal(t, "q2", f.model.items[0].ID)

	saved, err := f.prefs.Load()
	require.NoError(t, err)
	assert.Equal(t, "Design", saved.SelectedCategory)

	f.sendCmd(t, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, models.CategoryAll, f.model.category)
	f.sendCmd(t, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "Life", f.model.category, "left wraps around")
}

func TestBrowser_StaleLoadIgnored(t *testing.T) {
	f := newBrowserFixture(t)

	f.send(t, quotesLoadedMsg{category: "Life", items: nil})
	assert.Len(t, f.model.items, 2)
}

func TestBrowser_Random(t *testing.T) {
	f := newBrowserFixture(t)
	f.quotes.EXPECT().Random(gomock.Any(), models.CategoryAll).Return(browserQuotes[1], nil)

	cmd := f.sendCmd(t, keyRunes("r"))
	f.send(t, cmd())

	assert.Equal(t, 1, f.model.idx)
	assert.Empty(t, f.model.errMsg)
}

// ── mutations ────────────────────────────────────────────────────────────────

func TestBrowser_AddQuote(t *testing.T) {
	f := newBrowserFixture(t)
	f.quotes.EXPECT().Add(gomock.Any(), "Simplicity wins", "Design").
		Return(models.Quote{ID: "q3", Text: "Simplicity wins", Category: "Design"}, nil)

	f.send(t, keyRunes("n"))
	require.Equal(t, screenForm, f.model.screen)

	f.send(t, keyRunes("Simplicity wins"))
	f.send(t, tea.KeyMsg{Type: tea.KeyTab})
	f.send(t, keyRunes("Design"))

	cmd := f.sendCmd(t, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	f.send(t, cmd())

	assert.Equal(t, screenList, f.model.screen)
	assert.Equal(t, "Quote added", f.model.status)
}

func TestBrowser_AddQuote_ValidationKeepsForm(t *testing.T) {
	f := newBrowserFixture(t)
	f.quotes.EXPECT().Add(gomock.Any(), "", "").
		Return(models.Quote{}, &models.ValidationError{Field: "text", Reason: "must not be empty"})

	f.send(t, keyRunes("n"))
	cmd := f.sendCmd(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.send(t, cmd())

	assert.Equal(t, screenForm, f.model.screen)
	assert.NotEmpty(t, f.model.errMsg)
}

func TestBrowser_EditPrefillsForm(t *testing.T) {
	f := newBrowserFixture(t)

	f.send(t, keyRunes("e"))

	require.Equal(t, screenForm, f.model.screen)
	assert.Equal(t, "q1", f.model.form.id)
	assert.Equal(t, browserQuotes[0].Text, f.model.form.text())
	assert.Equal(t, "Life", f.model.form.category())
}

func TestBrowser_RemoveAfterConfirm(t *testing.T) {
	f := newBrowserFixture(t)
	f.quotes.EXPECT().Remove(gomock.Any(), "q2").Return(nil)

	f.send(t, tea.KeyMsg{Type: tea.KeyDown})
	f.send(t, keyRunes("d"))
	require.Equal(t, screenConfirm, f.model.screen)
	assert.Contains(t, f.model.View(), "Less is more.")

	cmd := f.sendCmd(t, keyRunes("y"))
	require.NotNil(t, cmd)
	f.send(t, cmd())

	assert.Equal(t, "Quote removed", f.model.status)
}

func TestBrowser_RemoveCancelled(t *testing.T) {
	f := newBrowserFixture(t)

	f.send(t, keyRunes("d"))
	cmd := f.sendCmd(t, keyRunes("n"))

	assert.Nil(t, cmd)
	assert.Equal(t, screenList, f.model.screen)
}

func TestBrowser_Copy(t *testing.T) {
	f := newBrowserFixture(t)

	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	cmd := f.sendCmd(t, keyRunes("c"))
	f.send(t, cmd())

	assert.Equal(t, browserQuotes[0].Text, copied)
	assert.Equal(t, "Copied to clipboard", f.model.status)
}

// ── sync ─────────────────────────────────────────────────────────────────────

func TestBrowser_ManualSync(t *testing.T) {
	f := newBrowserFixture(t)
	f.sync.EXPECT().RunOnce(gomock.Any()).Return(models.SyncReport{Inserted: 2, Uploaded: 1}, nil)

	cmd := f.sendCmd(t, keyRunes("s"))
	f.send(t, cmd())

	assert.True(t, strings.HasPrefix(f.model.status, "Synced: 2 new"))
}

func TestBrowser_ManualSync_InProgress(t *testing.T) {
	f := newBrowserFixture(t)
	f.sync.EXPECT().RunOnce(gomock.Any()).Return(models.SyncReport{}, models.ErrSyncInProgress)

	cmd := f.sendCmd(t, keyRunes("s"))
	f.send(t, cmd())

	assert.Equal(t, "Sync is already running", f.model.errMsg)
}

func TestBrowser_SyncEvents(t *testing.T) {
	f := newBrowserFixture(t)

	f.send(t, syncEventMsg{event: models.SyncEvent{
		Phase:  models.SyncPhaseFetching,
		Status: models.SyncStatus{Phase: models.SyncPhaseFetching, InFlight: true},
	}})
	assert.Contains(t, f.model.View(), "syncing (fetching)")

	f.send(t, syncEventMsg{event: models.SyncEvent{
		Phase:  models.SyncPhaseFailed,
		Status: models.SyncStatus{Phase: models.SyncPhaseFailed, InFlight: true, ConsecutiveFailures: 1},
		Err:    &models.TransportError{Op: "fetch remote", Err: errors.New("dial tcp: connection refused")},
	}})
	assert.Equal(t, "Network is down or the remote endpoint is unavailable", f.model.errMsg)

	f.send(t, keyRunes("i"))
	assert.Equal(t, screenInfo, f.model.screen)
	assert.Contains(t, f.model.View(), "1.0.0")
	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenList, f.model.screen)
}

func TestBrowser_Quit(t *testing.T) {
	f := newBrowserFixture(t)

	cmd := f.sendCmd(t, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestFitText(t *testing.T) {
	assert.Equal(t, "short", fitText("short", 10))
	assert.Equal(t, "abcd...", fitText("abcdefghij", 7))
	assert.Equal(t, "цит...", fitText("цитата дня", 6))
}
