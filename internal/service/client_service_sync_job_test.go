// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// spySyncService counts RunOnce calls and can hold each call for a while.
type spySyncService struct {
	calls    atomic.Int64
	hold     time.Duration
	busy     atomic.Bool
	overlaps atomic.Int64
	err      error
}

func (s *spySyncService) RunOnce(ctx context.Context) (models.SyncReport, error) {
	if !s.busy.CompareAndSwap(false, true) {
		s.overlaps.Add(1)
		return models.SyncReport{}, models.ErrSyncInProgress
	}
	defer s.busy.Store(false)

	s.calls.Add(1)
	if s.hold > 0 {
		select {
		case <-time.After(s.hold):
		case <-ctx.Done():
		}
	}
	return models.SyncReport{}, s.err
}

func (s *spySyncService) Status() models.SyncStatus {
	return models.SyncStatus{InFlight: s.busy.Load()}
}

// ── NewClientSyncJob ─────────────────────────────────────────────────────────

func TestNewClientSyncJob_ReturnsInterface(t *testing.T) {
	spy := &spySyncService{}
	job := NewClientSyncJob(spy, logger.Nop())
	require.NotNil(t, job)

	var _ SyncJob = job
}

// ── Start / Stop ─────────────────────────────────────────────────────────────

func TestClientSyncJob_Start_RunsImmediately(t *testing.T) {
	spy := &spySyncService{}
	job := NewClientSyncJob(spy, logger.Nop())

	job.Start(context.Background(), time.Hour)
	assert.Eventually(t, func() bool { return spy.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	job.Stop()
}

func TestClientSyncJob_Start_CallsRunOnceOnTicks(t *testing.T) {
	spy := &spySyncService{}
	job := NewClientSyncJob(spy, logger.Nop())

	// 10ms interval, about 5 ticks in 55ms
	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	got := spy.calls.Load()
	assert.GreaterOrEqual(t, got, int64(3), "RunOnce should run several times, got %d", got)
}

func TestClientSyncJob_SlowCycleNeverOverlaps(t *testing.T) {
	spy := &spySyncService{hold: 30 * time.Millisecond}
	job := NewClientSyncJob(spy, logger.Nop())

	job.Start(context.Background(), 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	job.Stop()

	assert.Zero(t, spy.overlaps.Load())
	assert.LessOrEqual(t, spy.calls.Load(), int64(4))
}

func TestClientSyncJob_Stop_StopsGoroutine(t *testing.T) {
	spy := &spySyncService{}
	job := NewClientSyncJob(spy, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	callsAfterStop := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, callsAfterStop, spy.calls.Load(), "no calls after Stop")
}

func TestClientSyncJob_Stop_BeforeStart_NoPanic(t *testing.T) {
	job := NewClientSyncJob(&spySyncService{}, logger.Nop())

	assert.NotPanics(t, func() { job.Stop() })
}

func TestClientSyncJob_Stop_Twice_NoPanic(t *testing.T) {
	job := NewClientSyncJob(&spySyncService{}, logger.Nop())
	job.Start(context.Background(), 10*time.Millisecond)

	assert.NotPanics(t, func() {
		job.Stop()
		job.Stop()
	})
}

func TestClientSyncJob_Start_Twice_RestartsGoroutine(t *testing.T) {
	spy := &spySyncService{}
	job := NewClientSyncJob(spy, logger.Nop())
	ctx := context.Background()

	job.Start(ctx, 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	job.Start(ctx, 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	job.Stop()

	assert.Greater(t, spy.calls.Load(), int64(0))
}

func TestClientSyncJob_ContextCancel_StopsGoroutine(t *testing.T) {
	spy := &spySyncService{}
	job := NewClientSyncJob(spy, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	job.Start(ctx, 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	callsAfterCancel := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, callsAfterCancel, spy.calls.Load(), "no calls after context cancel")
	job.Stop()
}

func TestClientSyncJob_ZeroInterval_UsesDefault(t *testing.T) {
	spy := &spySyncService{}
	job := NewClientSyncJob(spy, logger.Nop())

	job.Start(context.Background(), 0)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	assert.Equal(t, int64(1), spy.calls.Load(), "only the immediate cycle runs with the 30s default")
}

func TestClientSyncJob_ErrorsDoNotStopTheLoop(t *testing.T) {
	spy := &spySyncService{err: &models.TransportError{Op: "fetch remote", Err: context.DeadlineExceeded}}
	job := NewClientSyncJob(spy, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(45 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, spy.calls.Load(), int64(2))
}
