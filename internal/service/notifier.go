package service

import (
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Notify(models.SyncEvent) {}

// LogNotifier writes phase transitions to a logger.
type LogNotifier struct {
	Logger *logger.Logger
}

func (n LogNotifier) Notify(event models.SyncEvent) {
	if event.Err != nil {
		n.Logger.Warn().Err(event.Err).
			Str("func", "LogNotifier.Notify").
			Str("phase", string(event.Phase)).
			Msg("sync phase changed with error")
		return
	}
	n.Logger.Debug().
		Str("func", "LogNotifier.Notify").
		Str("phase", string(event.Phase)).
		Msg("sync phase changed")
}

// ChannelNotifier forwards events to a buffered channel. Events are dropped
// when the buffer is full.
type ChannelNotifier struct {
	ch chan models.SyncEvent
}

// NewChannelNotifier creates a notifier with a buffer of size events.
func NewChannelNotifier(size int) *ChannelNotifier {
	if size <= 0 {
		size = 1
	}
	return &ChannelNotifier{ch: make(chan models.SyncEvent, size)}
}

func (n *ChannelNotifier) Notify(event models.SyncEvent) {
	select {
	case n.ch <- event:
	default:
	}
}

// C returns the receiving side of the channel.
func (n *ChannelNotifier) C() <-chan models.SyncEvent {
	return n.ch
}

// MultiNotifier fans an event out to several notifiers in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(event models.SyncEvent) {
	for _, n := range m {
		if n != nil {
			n.Notify(event)
		}
	}
}
