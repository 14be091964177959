package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/mock"
	"github.com/MKhiriev/go-quote-keeper/models"
)

func TestChannelNotifier_DropsWhenFull(t *testing.T) {
	n := NewChannelNotifier(1)

	n.Notify(models.SyncEvent{Phase: models.SyncPhaseFetching})
	n.Notify(models.SyncEvent{Phase: models.SyncPhaseMerging})

	assert.Equal(t, models.SyncPhaseFetching, (<-n.C()).Phase)
	select {
	case e := <-n.C():
		t.Fatalf("unexpected event %v", e.Phase)
	default:
	}
}

func TestMultiNotifier_FansOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mock.NewMockNotifier(ctrl)
	second := mock.NewMockNotifier(ctrl)
	event := models.SyncEvent{Phase: models.SyncPhaseFailed, Err: errors.New("x")}

	gomock.InOrder(
		first.EXPECT().Notify(event),
		second.EXPECT().Notify(event),
	)

	MultiNotifier{first, nil, second}.Notify(event)
}

func TestLogAndNopNotifier_NoPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		LogNotifier{Logger: logger.Nop()}.Notify(models.SyncEvent{Phase: models.SyncPhaseIdle})
		LogNotifier{Logger: logger.Nop()}.Notify(models.SyncEvent{Phase: models.SyncPhaseIdle, Err: errors.New("x")})
		NopNotifier{}.Notify(models.SyncEvent{})
	})
}
