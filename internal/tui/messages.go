package tui

import (
	"github.com/MKhiriev/go-quote-keeper/models"
)

type quotesLoadedMsg struct {
	category   string
	items      []models.Quote
	categories []string
}

type syncEventMsg struct {
	event models.SyncEvent
}

type syncDoneMsg struct {
	report models.SyncReport
	err    error
}

type randomPickedMsg struct {
	quote models.Quote
	err   error
}

type mutationDoneMsg struct {
	status string
	err    error
}

type copiedMsg struct {
	err error
}

type prefsSavedMsg struct {
	err error
}

type clearStatusMsg struct{}
