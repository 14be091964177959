package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-quote-keeper/internal/prefs"
	"github.com/MKhiriev/go-quote-keeper/models"
)

type screen int

const (
	screenList screen = iota
	screenForm
	screenConfirm
	screenInfo
	screenError
)

const statusTTL = 3 * time.Second

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

type browserModel struct {
	ctx  context.Context
	deps Deps

	screen     screen
	categories []string
	category   string
	items      []models.Quote
	idx        int

	form    quoteForm
	spinner spinner.Model
	sync    models.SyncStatus

	status string
	errMsg string
}

func newBrowserModel(ctx context.Context, deps Deps, category string) browserModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	if strings.TrimSpace(category) == "" {
		category = models.CategoryAll
	}

	m := browserModel{
		ctx:        ctx,
		deps:       deps,
		category:   category,
		categories: []string{models.CategoryAll},
		spinner:    s,
	}
	if deps.Sync != nil {
		m.sync = deps.Sync.Status()
	}
	return m
}

func (m browserModel) Init() tea.Cmd {
	return tea.Batch(m.cmdLoad(), m.cmdWaitForEvent(), m.spinner.Tick)
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case quotesLoadedMsg:
		if msg.category != m.category {
			return m, nil
		}
		m.items = msg.items
		m.categories = append([]string{models.CategoryAll}, msg.categories...)
		if !slices.Contains(m.categories, m.category) {
			m.category = models.CategoryAll
			return m, m.cmdLoad()
		}
		m.idx = min(max(m.idx, 0), max(len(m.items)-1, 0))
		return m, nil
	case syncEventMsg:
		m.sync = msg.event.Status
		cmds := []tea.Cmd{m.cmdWaitForEvent()}
		switch msg.event.Phase {
		case models.SyncPhaseIdle:
			cmds = append(cmds, m.cmdLoad())
		case models.SyncPhaseFailed:
			m.errMsg = humanizeError(msg.event.Err)
		}
		return m, tea.Batch(cmds...)
	case syncDoneMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		return m.withStatus(fmt.Sprintf("Synced: %d new, %d replaced, %d uploaded",
			msg.report.Inserted, msg.report.Replaced, msg.report.Uploaded), m.cmdLoad())
	case randomPickedMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		if i := slices.IndexFunc(m.items, func(q models.Quote) bool { return q.ID == msg.quote.ID }); i >= 0 {
			m.idx = i
		}
		m.errMsg = ""
		return m, nil
	case mutationDoneMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			if m.screen == screenForm {
				return m, nil
			}
		} else {
			m.errMsg = ""
		}
		m.screen = screenList
		return m.withStatus(msg.status, m.cmdLoad())
	case prefsSavedMsg:
		if msg.err != nil {
			m.errMsg = "Failed to remember the category: " + msg.err.Error()
		}
		return m, nil
	case copiedMsg:
		if msg.err != nil {
			m.errMsg = "Clipboard is unavailable: " + msg.err.Error()
			return m, nil
		}
		return m.withStatus("Copied to clipboard", nil)
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.screen == screenForm {
			var cmd tea.Cmd
			m.form, cmd = m.form.update(msg)
			return m, cmd
		}
		return m, nil
	}
	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenForm:
		return m.updateForm(keyMsg)
	case screenConfirm:
		return m.updateConfirm(keyMsg)
	case screenInfo, screenError:
		if key.Matches(keyMsg, keys.esc, keys.enter) {
			m.screen = screenList
		}
		return m, nil
	default:
		return m.updateList(keyMsg)
	}
}

func (m browserModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.left):
		return m.selectCategory(-1)
	case key.Matches(msg, keys.right):
		return m.selectCategory(1)
	case key.Matches(msg, keys.random):
		return m, m.cmdRandom()
	case key.Matches(msg, keys.sync):
		return m, m.cmdSync()
	case key.Matches(msg, keys.newItem):
		m.form = newQuoteForm(nil, m.category)
		m.screen = screenForm
	case key.Matches(msg, keys.edit):
		if q, ok := m.current(); ok {
			m.form = newQuoteForm(&q, m.category)
			m.screen = screenForm
		}
	case key.Matches(msg, keys.delete):
		if _, ok := m.current(); ok {
			m.screen = screenConfirm
		}
	case key.Matches(msg, keys.copy):
		if q, ok := m.current(); ok {
			return m, cmdCopy(q)
		}
	case key.Matches(msg, keys.info):
		if m.deps.Sync != nil {
			m.sync = m.deps.Sync.Status()
		}
		m.screen = screenInfo
	case key.Matches(msg, keys.enter):
		if m.errMsg != "" {
			m.screen = screenError
		}
	}
	return m, nil
}

func (m browserModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenList
		m.errMsg = ""
		return m, nil
	case key.Matches(msg, keys.tab):
		m.form = m.form.nextField()
		return m, nil
	case key.Matches(msg, keys.enter):
		return m, m.cmdSave(m.form)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m browserModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		q, ok := m.current()
		m.screen = screenList
		if !ok {
			return m, nil
		}
		return m, m.cmdRemove(q.ID)
	case key.Matches(msg, keys.no, keys.esc):
		m.screen = screenList
	}
	return m, nil
}

// selectCategory moves the filter by step, wrapping around, and remembers
// the choice.
func (m browserModel) selectCategory(step int) (tea.Model, tea.Cmd) {
	if len(m.categories) == 0 {
		return m, nil
	}
	i := slices.Index(m.categories, m.category)
	if i < 0 {
		i = 0
	}
	i = (i + step + len(m.categories)) % len(m.categories)
	m.category = m.categories[i]
	m.idx = 0
	return m, tea.Batch(m.cmdLoad(), m.cmdSavePrefs())
}

func (m browserModel) current() (models.Quote, bool) {
	if m.idx < 0 || m.idx >= len(m.items) {
		return models.Quote{}, false
	}
	return m.items[m.idx], true
}

func (m browserModel) withStatus(status string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.status = status
	clearCmd := tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{} })
	return m, tea.Batch(cmd, clearCmd)
}

// ── commands ─────────────────────────────────────────────────────────────────

func (m browserModel) cmdLoad() tea.Cmd {
	ctx, svc, category := m.ctx, m.deps.Quotes, m.category
	return func() tea.Msg {
		return quotesLoadedMsg{
			category:   category,
			items:      slices.Collect(svc.List(ctx, category)),
			categories: svc.Categories(ctx),
		}
	}
}

func (m browserModel) cmdWaitForEvent() tea.Cmd {
	events := m.deps.Events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return syncEventMsg{event: ev}
	}
}

func (m browserModel) cmdSync() tea.Cmd {
	if m.deps.Sync == nil {
		return nil
	}
	ctx, svc := m.ctx, m.deps.Sync
	return func() tea.Msg {
		report, err := svc.RunOnce(ctx)
		return syncDoneMsg{report: report, err: err}
	}
}

func (m browserModel) cmdRandom() tea.Cmd {
	ctx, svc, category := m.ctx, m.deps.Quotes, m.category
	return func() tea.Msg {
		q, err := svc.Random(ctx, category)
		return randomPickedMsg{quote: q, err: err}
	}
}

func (m browserModel) cmdSave(f quoteForm) tea.Cmd {
	ctx, svc := m.ctx, m.deps.Quotes
	return func() tea.Msg {
		if f.id == "" {
			_, err := svc.Add(ctx, f.text(), f.category())
			return mutationDoneMsg{status: "Quote added", err: err}
		}
		_, err := svc.Update(ctx, f.id, f.text(), f.category())
		return mutationDoneMsg{status: "Quote updated", err: err}
	}
}

func (m browserModel) cmdRemove(id string) tea.Cmd {
	ctx, svc := m.ctx, m.deps.Quotes
	return func() tea.Msg {
		return mutationDoneMsg{status: "Quote removed", err: svc.Remove(ctx, id)}
	}
}

func (m browserModel) cmdSavePrefs() tea.Cmd {
	store, category := m.deps.Prefs, m.category
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return prefsSavedMsg{err: store.Save(prefs.Prefs{SelectedCategory: category})}
	}
}

func cmdCopy(q models.Quote) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: writeClipboard(q.Text)}
	}
}

// ── view ─────────────────────────────────────────────────────────────────────

func (m browserModel) View() string {
	switch m.screen {
	case screenForm:
		out := m.form.View()
		if m.errMsg != "" {
			out += "\n\n" + errorStyle.Render(m.errMsg)
		}
		return appStyle.Render(out)
	case screenConfirm:
		q, _ := m.current()
		return appStyle.Render(confirmModel{message: q.Text}.View())
	case screenInfo:
		return appStyle.Render(renderInfoWindow(m.deps.BuildInfo, m.sync))
	case screenError:
		return appStyle.Render(errorOverlayModel{message: m.errMsg}.View())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quote Keeper"))
	b.WriteString("  ")
	b.WriteString(helpStyle.Render(syncLine(m.sync, m.spinner.View())))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString("No quotes\n")
	} else {
		for i, q := range m.items {
			line := fmt.Sprintf("%s  %s", fitText(q.Text, 60), helpStyle.Render("["+q.Category+"]"))
			if i == m.idx {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if q, ok := m.current(); ok {
			b.WriteString("\n")
			b.WriteString(quoteBoxStyle.Render(q.Text + "\n\n" + helpStyle.Render("~ "+q.Category)))
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(fitText(m.errMsg, 70)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ category  r random  n new  e edit  d remove  c copy  s sync  i info  q quit"))
	return appStyle.Render(b.String())
}

func (m browserModel) renderTabs() string {
	tabs := make([]string, 0, len(m.categories))
	for _, c := range m.categories {
		if c == m.category {
			tabs = append(tabs, activeTabStyle.Render(c))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(c))
		}
	}
	return strings.Join(tabs, "  ")
}
