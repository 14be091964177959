package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-quote-keeper/models"
)

const (
	fieldText = iota
	fieldCategory
)

// quoteForm edits the text and category of a new or existing quote.
type quoteForm struct {
	inputs []textinput.Model
	focus  int
	// id is empty for a new quote.
	id string
}

func newQuoteForm(q *models.Quote, category string) quoteForm {
	inputs := make([]textinput.Model, 2)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 60
	}
	inputs[fieldText].Placeholder = "Quote text"
	inputs[fieldText].CharLimit = 2000
	inputs[fieldCategory].Placeholder = "Category"
	inputs[fieldCategory].CharLimit = 100
	inputs[fieldText].Focus()

	f := quoteForm{inputs: inputs}
	if q != nil {
		f.id = q.ID
		f.inputs[fieldText].SetValue(q.Text)
		f.inputs[fieldCategory].SetValue(q.Category)
		return f
	}
	if category != models.CategoryAll {
		f.inputs[fieldCategory].SetValue(category)
	}
	return f
}

func (f quoteForm) text() string     { return f.inputs[fieldText].Value() }
func (f quoteForm) category() string { return f.inputs[fieldCategory].Value() }

func (f quoteForm) nextField() quoteForm {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
	return f
}

func (f quoteForm) update(msg tea.Msg) (quoteForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f quoteForm) View() string {
	title := "New quote"
	if f.id != "" {
		title = "Edit quote"
	}

	data := "Text:     [" + f.inputs[fieldText].View() + "]\n"
	data += "Category: [" + f.inputs[fieldCategory].View() + "]"
	return renderPage(title, data, "esc cancel  tab next field  enter save")
}
