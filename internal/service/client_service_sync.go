package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/MKhiriev/go-quote-keeper/internal/adapter"
	"github.com/MKhiriev/go-quote-keeper/internal/codec"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/quotes"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// DefaultSyncDeadline bounds one sync cycle when no deadline is configured.
const DefaultSyncDeadline = 10 * time.Second

const opDeadline = "sync deadline"

// SyncDependencies are the collaborators of the sync engine.
type SyncDependencies struct {
	Quotes    *quotes.Store
	Persister *Persister
	Adapter   adapter.RemoteAdapter
	Decoder   codec.Decoder
	IDs       quotes.IDGenerator
	// Notifier is optional.
	Notifier Notifier
}

type clientSyncService struct {
	quotes    *quotes.Store
	persister *Persister
	adapter   adapter.RemoteAdapter
	decoder   codec.Decoder
	planner   *mergePlanner
	notifier  Notifier
	deadline  time.Duration

	// inFlight admits at most one cycle.
	inFlight *semaphore.Weighted

	mu     sync.Mutex
	status models.SyncStatus

	now    func() time.Time
	logger *logger.Logger
}

// NewClientSyncService wires the sync engine. A non-positive deadline falls
// back to [DefaultSyncDeadline].
func NewClientSyncService(deps SyncDependencies, deadline time.Duration, logger *logger.Logger) (SyncService, error) {
	if deps.Quotes == nil || deps.Persister == nil || deps.Adapter == nil || deps.Decoder == nil || deps.IDs == nil {
		return nil, ErrNilDependency
	}
	if deadline <= 0 {
		deadline = DefaultSyncDeadline
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}

	s := &clientSyncService{
		quotes:    deps.Quotes,
		persister: deps.Persister,
		adapter:   deps.Adapter,
		decoder:   deps.Decoder,
		planner:   newMergePlanner(deps.IDs),
		notifier:  notifier,
		deadline:  deadline,
		inFlight:  semaphore.NewWeighted(1),
		now:       time.Now,
		logger:    logger,
	}
	st := deps.Persister.SyncState()
	s.status = models.SyncStatus{
		Phase:         models.SyncPhaseIdle,
		LastSyncedAt:  st.LastSyncedAt,
		PendingUpload: len(st.PendingUpload),
	}

	return s, nil
}

// RunOnce implements [SyncService].
//
// Phases: Fetching (transport call), Merging (decode, plan and atomic apply
// against the snapshot taken when the phase starts), Persisting (save, then
// upload of the queued quotes). Hitting the deadline before the apply counts
// as a fetch failure and commits nothing.
func (s *clientSyncService) RunOnce(ctx context.Context) (models.SyncReport, error) {
	if !s.inFlight.TryAcquire(1) {
		return models.SyncReport{}, models.ErrSyncInProgress
	}
	defer s.inFlight.Release(1)

	ctx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	log := s.logger
	report := models.SyncReport{StartedAt: s.now()}

	// ── Fetching ────────────────────────────────────────────────────────────
	s.begin(report.StartedAt)
	raw, err := s.adapter.FetchRemote(ctx)
	if err != nil {
		return s.fail(report, asTransportError("fetch remote", err))
	}
	report.Fetched = len(raw)

	// ── Merging ─────────────────────────────────────────────────────────────
	s.transition(models.SyncPhaseMerging, nil)
	snap := s.quotes.Snapshot()
	syncState := s.persister.SyncState()

	decoded, err := s.decoder.Decode(ctx, raw)
	if err != nil {
		return s.fail(report, s.mergeError(ctx, err))
	}
	for _, bad := range decoded.Malformed {
		log.Warn().
			Str("func", "clientSyncService.RunOnce").
			Int("index", bad.Index).
			Str("reason", bad.Reason).
			Msg("skipping malformed remote record")
		report.Warnings = append(report.Warnings, bad.Error())
	}
	report.Skipped = len(decoded.Malformed)

	plan, err := s.planner.Plan(ctx, snap, decoded.Quotes, syncState)
	if err != nil {
		return s.fail(report, s.mergeError(ctx, err))
	}
	if err = ctx.Err(); err != nil {
		return s.fail(report, asTransportError(opDeadline, err))
	}

	s.quotes.ApplyMerge(snap, plan.Merged, plan.MaxRemoteModifiedAt)
	if n := s.quotes.RetireTombstones(plan.Retired); n > 0 {
		log.Debug().Str("func", "clientSyncService.RunOnce").Int("retired", n).Msg("tombstones retired")
	}
	report.Inserted = plan.Inserted
	report.Replaced = plan.Replaced
	report.Unchanged = plan.Unchanged
	report.KeptLocal = plan.KeptLocal
	report.Suppressed = plan.Suppressed

	uploadIDs := make([]string, 0, len(plan.Upload))
	for _, q := range plan.Upload {
		uploadIDs = append(uploadIDs, q.ID)
	}
	s.persister.SetSyncState(models.SyncState{LastSyncedAt: snap.Clock, PendingUpload: uploadIDs})

	// ── Persisting ──────────────────────────────────────────────────────────
	s.transition(models.SyncPhasePersisting, nil)
	var persistErr, uploadErr error
	if persistErr = s.persister.Save(context.WithoutCancel(ctx)); persistErr != nil {
		report.PersistError = persistErr.Error()
	}

	if len(plan.Upload) > 0 {
		records := make([]models.PushRecord, 0, len(plan.Upload))
		for _, q := range plan.Upload {
			records = append(records, models.PushRecord{Text: q.Text, Category: q.Category})
		}

		if uploadErr = s.adapter.PushLocal(ctx, records); uploadErr != nil {
			uploadErr = asTransportError("push local", uploadErr)
			report.UploadError = uploadErr.Error()
			log.Warn().Err(uploadErr).
				Str("func", "clientSyncService.RunOnce").
				Int("queued", len(records)).
				Msg("upload failed, quotes stay queued for the next cycle")
		} else {
			report.Uploaded = len(records)
			s.persister.SetSyncState(models.SyncState{LastSyncedAt: snap.Clock})
			if err = s.persister.Save(context.WithoutCancel(ctx)); err != nil {
				persistErr = err
				report.PersistError = err.Error()
			}
		}
	}

	report.FinishedAt = s.now()
	s.succeed(report, errors.Join(persistErr, uploadErr))

	log.Info().
		Str("func", "clientSyncService.RunOnce").
		Int("fetched", report.Fetched).
		Int("inserted", report.Inserted).
		Int("replaced", report.Replaced).
		Int("uploaded", report.Uploaded).
		Int("skipped", report.Skipped).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("sync cycle finished")

	return report, nil
}

// Status implements [SyncService].
func (s *clientSyncService) Status() models.SyncStatus {
	persisted := s.persister.SyncState()

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.snapshotStatusLocked()
	st.LastSyncedAt = persisted.LastSyncedAt
	st.PendingUpload = len(persisted.PendingUpload)
	return st
}

func (s *clientSyncService) begin(at time.Time) {
	s.mu.Lock()
	s.status.InFlight = true
	s.status.LastAttemptAt = at
	s.mu.Unlock()

	s.transition(models.SyncPhaseFetching, nil)
}

func (s *clientSyncService) transition(phase models.SyncPhase, err error) {
	s.mu.Lock()
	s.status.Phase = phase
	st := s.snapshotStatusLocked()
	s.mu.Unlock()

	s.notifier.Notify(models.SyncEvent{Phase: phase, Status: st, Err: err})
}

func (s *clientSyncService) fail(report models.SyncReport, err error) (models.SyncReport, error) {
	report.FinishedAt = s.now()

	s.mu.Lock()
	s.status.ConsecutiveFailures++
	s.status.LastError = err.Error()
	s.mu.Unlock()

	s.logger.Err(err).Str("func", "clientSyncService.RunOnce").Msg("sync cycle failed")
	s.transition(models.SyncPhaseFailed, err)

	s.mu.Lock()
	s.status.InFlight = false
	s.mu.Unlock()
	s.transition(models.SyncPhaseIdle, nil)

	return report, err
}

func (s *clientSyncService) succeed(report models.SyncReport, reported error) {
	st := s.persister.SyncState()

	s.mu.Lock()
	s.status.InFlight = false
	s.status.LastSuccessAt = report.FinishedAt
	s.status.LastSyncedAt = st.LastSyncedAt
	s.status.PendingUpload = len(st.PendingUpload)
	s.status.ConsecutiveFailures = 0
	s.status.LastError = ""
	s.status.LastReport = &report
	s.mu.Unlock()

	s.transition(models.SyncPhaseIdle, reported)
}

func (s *clientSyncService) snapshotStatusLocked() models.SyncStatus {
	st := s.status
	if st.LastReport != nil {
		r := *st.LastReport
		st.LastReport = &r
	}
	return st
}

// mergeError keeps deadline expiry reported as a transport failure.
func (s *clientSyncService) mergeError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return asTransportError(opDeadline, err)
	}
	return fmt.Errorf("merge remote snapshot: %w", err)
}

func asTransportError(op string, err error) error {
	if errors.Is(err, models.ErrTransport) {
		return err
	}
	return &models.TransportError{Op: op, Err: err}
}
