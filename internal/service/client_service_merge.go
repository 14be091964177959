// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-quote-keeper/internal/quotes"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// mergePlanner reconciles a local snapshot with a decoded remote snapshot.
// It is a pure computation: nothing is written to the store.
type mergePlanner struct {
	ids quotes.IDGenerator
}

func newMergePlanner(ids quotes.IDGenerator) *mergePlanner {
	return &mergePlanner{ids: ids}
}

// Plan builds the merged collection.
//
// Records are matched in two passes:
//
//   - Pass 1: remote records carrying an identifier are matched to the local
//     quote with the same identifier.
//   - Pass 2: still unmatched remote records are matched to still unmatched
//     local quotes with the exact same (text, category), first come first
//     served in collection order.
//   - Pass 3: a remote record left over after pass 2 that carries the
//     content of a local edit which wins against its id match is the echo of
//     an earlier upload. It is absorbed by that quote instead of inserted.
//
// Then every record falls into exactly one category:
//
//   - local only: kept; queued for upload when unsynced;
//   - remote only: inserted with origin remote, unless a tombstone says the
//     user removed it;
//   - both, same content: unchanged;
//   - both, different content: remote wins only when its logical timestamp
//     is strictly newer; otherwise local is kept and queued for upload when
//     unsynced and not already echoed.
//
// Merged keeps the local order and appends inserted records in remote order.
// An empty remote snapshot therefore yields the local collection unchanged.
//
// A tombstone older than the last sync that no remote record matches any
// more is listed in Retired.
func (m *mergePlanner) Plan(
	ctx context.Context,
	snap quotes.Snapshot,
	remote []models.RemoteQuote,
	state models.SyncState,
) (models.MergePlan, error) {
	var plan models.MergePlan

	local := snap.Quotes
	localByID := make(map[string]int, len(local))
	for i, q := range local {
		localByID[q.ID] = i
	}

	matchOfLocal := make([]int, len(local))
	for i := range matchOfLocal {
		matchOfLocal[i] = -1
	}
	matchOfRemote := make([]int, len(remote))
	remoteIDs := make(map[string]int, len(remote))

	// ── Pass 1: by identifier ───────────────────────────────────────────────
	for ri, r := range remote {
		if err := ctx.Err(); err != nil {
			return models.MergePlan{}, err
		}
		matchOfRemote[ri] = -1
		plan.MaxRemoteModifiedAt = max(plan.MaxRemoteModifiedAt, r.ModifiedAt)

		if !r.HasID() {
			continue
		}
		if first, dup := remoteIDs[r.ID]; dup {
			return models.MergePlan{}, fmt.Errorf("%w: records #%d and #%d share id %q",
				models.ErrMalformedPayload, first, ri, r.ID)
		}
		remoteIDs[r.ID] = ri

		if li, ok := localByID[r.ID]; ok {
			matchOfLocal[li] = ri
			matchOfRemote[ri] = li
		}
	}

	// ── Pass 2: by content ──────────────────────────────────────────────────
	unmatchedByKey := make(map[models.ContentKey][]int)
	for li, q := range local {
		if matchOfLocal[li] < 0 {
			unmatchedByKey[q.ContentKey()] = append(unmatchedByKey[q.ContentKey()], li)
		}
	}
	for ri, r := range remote {
		if matchOfRemote[ri] >= 0 {
			continue
		}
		key := r.ContentKey()
		candidates := unmatchedByKey[key]
		if len(candidates) == 0 {
			continue
		}
		li := candidates[0]
		unmatchedByKey[key] = candidates[1:]
		matchOfLocal[li] = ri
		matchOfRemote[ri] = li
	}

	// ── Pass 3: echoes of uploaded edits ────────────────────────────────────
	echoOf := make([]int, len(local))
	editedByKey := make(map[models.ContentKey][]int)
	for li, q := range local {
		echoOf[li] = -1
		ri := matchOfLocal[li]
		if ri < 0 {
			continue
		}
		r := remote[ri]
		if r.ContentKey() != q.ContentKey() && r.ModifiedAt <= q.ModifiedAt {
			editedByKey[q.ContentKey()] = append(editedByKey[q.ContentKey()], li)
		}
	}
	for ri, r := range remote {
		if matchOfRemote[ri] >= 0 {
			continue
		}
		key := r.ContentKey()
		candidates := editedByKey[key]
		if len(candidates) == 0 {
			continue
		}
		li := candidates[0]
		editedByKey[key] = candidates[1:]
		echoOf[li] = ri
		matchOfRemote[ri] = li
	}

	// ── Decide ──────────────────────────────────────────────────────────────
	pending := make(map[string]struct{}, len(state.PendingUpload))
	for _, id := range state.PendingUpload {
		pending[id] = struct{}{}
	}
	unsynced := func(q models.Quote) bool {
		if q.Origin != models.OriginLocal {
			return false
		}
		if q.ModifiedAt > state.LastSyncedAt {
			return true
		}
		_, ok := pending[q.ID]
		return ok
	}

	plan.Merged = make([]models.Quote, 0, len(local)+len(remote))
	for li, q := range local {
		ri := matchOfLocal[li]
		if ri < 0 {
			if unsynced(q) {
				plan.Upload = append(plan.Upload, q)
			}
			plan.Merged = append(plan.Merged, q)
			continue
		}

		r := remote[ri]
		switch {
		case q.Text == r.Text && q.Category == r.Category:
			plan.Unchanged++
		case r.ModifiedAt > q.ModifiedAt:
			q = models.Quote{
				ID:         q.ID,
				Text:       r.Text,
				Category:   r.Category,
				ModifiedAt: r.ModifiedAt,
				Origin:     models.OriginRemote,
			}
			plan.Replaced++
		case echoOf[li] >= 0:
			plan.Unchanged++
		default:
			plan.KeptLocal++
			if unsynced(q) {
				plan.Upload = append(plan.Upload, q)
			}
		}
		plan.Merged = append(plan.Merged, q)
	}

	remoteKeys := make(map[models.ContentKey]struct{}, len(remote))
	for _, r := range remote {
		remoteKeys[r.ContentKey()] = struct{}{}
	}
	for _, t := range snap.Tombstones {
		if t.RemovedAt > state.LastSyncedAt {
			continue
		}
		_, byID := remoteIDs[t.ID]
		_, byKey := remoteKeys[t.ContentKey()]
		if !byID && !byKey {
			plan.Retired = append(plan.Retired, t)
		}
	}

	removed := quotes.NewTombstoneSet(snap.Tombstones)
	for ri, r := range remote {
		if matchOfRemote[ri] >= 0 {
			continue
		}
		if removed.Has(r.ID, r.ContentKey()) {
			plan.Suppressed++
			continue
		}

		id := r.ID
		if _, taken := localByID[id]; id == "" || taken {
			id = m.newID(localByID, remoteIDs)
		}
		localByID[id] = len(plan.Merged)
		plan.Merged = append(plan.Merged, models.Quote{
			ID:         id,
			Text:       r.Text,
			Category:   r.Category,
			ModifiedAt: r.ModifiedAt,
			Origin:     models.OriginRemote,
		})
		plan.Inserted++
	}

	return plan, nil
}

func (m *mergePlanner) newID(taken map[string]int, remoteIDs map[string]int) string {
	for {
		id := m.ids.Generate()
		_, usedLocally := taken[id]
		_, usedRemotely := remoteIDs[id]
		if !usedLocally && !usedRemotely {
			return id
		}
	}
}
