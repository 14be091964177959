package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quote-keeper/internal/quotes"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// seqIDGen issues gen-1, gen-2, ...
type seqIDGen struct {
	n int
}

func (g *seqIDGen) Generate() string {
	g.n++
	return fmt.Sprintf("gen-%d", g.n)
}

func localQuote(id, text, category string, modifiedAt int64) models.Quote {
	return models.Quote{ID: id, Text: text, Category: category, ModifiedAt: modifiedAt, Origin: models.OriginLocal}
}

func remoteQuote(id, text, category string, modifiedAt int64) models.RemoteQuote {
	return models.RemoteQuote{ID: id, Text: text, Category: category, ModifiedAt: modifiedAt}
}

func plan(t *testing.T, snap quotes.Snapshot, remote []models.RemoteQuote, state models.SyncState) models.MergePlan {
	t.Helper()
	p, err := newMergePlanner(&seqIDGen{}).Plan(context.Background(), snap, remote, state)
	require.NoError(t, err)
	return p
}

// ── Timestamp rule ───────────────────────────────────────────────────────────

func TestPlan_TieKeepsLocal(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{localQuote("a", "local text", "X", 5)}}

	p := plan(t, snap, []models.RemoteQuote{remoteQuote("a", "remote text", "X", 5)}, models.SyncState{})

	require.Len(t, p.Merged, 1)
	assert.Equal(t, "local text", p.Merged[0].Text)
	assert.Equal(t, models.OriginLocal, p.Merged[0].Origin)
	assert.Equal(t, 1, p.KeptLocal)
	assert.Equal(t, 0, p.Replaced)
}

func TestPlan_NewerRemoteWins(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{localQuote("a", "local text", "X", 5)}}

	p := plan(t, snap, []models.RemoteQuote{remoteQuote("a", "remote text", "Y", 10)}, models.SyncState{})

	require.Len(t, p.Merged, 1)
	assert.Equal(t, models.Quote{
		ID:         "a",
		Text:       "remote text",
		Category:   "Y",
		ModifiedAt: 10,
		Origin:     models.OriginRemote,
	}, p.Merged[0])
	assert.Equal(t, 1, p.Replaced)
	assert.Empty(t, p.Upload)
}

func TestPlan_OlderRemoteLoses(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{localQuote("a", "edited", "X", 7)}}

	p := plan(t, snap, []models.RemoteQuote{remoteQuote("a", "stale", "X", 3)}, models.SyncState{LastSyncedAt: 4})

	assert.Equal(t, "edited", p.Merged[0].Text)
	require.Len(t, p.Upload, 1, "local edit made after the last sync is queued")
	assert.Equal(t, "a", p.Upload[0].ID)
}

func TestPlan_SameContentIsUnchanged(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{localQuote("a", "same", "X", 2)}}

	p := plan(t, snap, []models.RemoteQuote{remoteQuote("a", "same", "X", 9)}, models.SyncState{})

	assert.Equal(t, 1, p.Unchanged)
	assert.Equal(t, snap.Quotes, p.Merged)
	assert.Empty(t, p.Upload)
}

// ── Scenario ─────────────────────────────────────────────────────────────────

func TestPlan_Scenario(t *testing.T) {
	snap := quotes.Snapshot{
		Quotes: []models.Quote{localQuote("1", "a", "X", 1)},
		Clock:  1,
	}
	remote := []models.RemoteQuote{
		remoteQuote("1", "a2", "X", 2),
		remoteQuote("2", "b", "Y", 1),
	}

	p := plan(t, snap, remote, models.SyncState{LastSyncedAt: 1})

	require.Len(t, p.Merged, 2)
	assert.Equal(t, "1", p.Merged[0].ID)
	assert.Equal(t, "a2", p.Merged[0].Text)
	assert.Equal(t, "X", p.Merged[0].Category)
	assert.Equal(t, "2", p.Merged[1].ID)
	assert.Equal(t, "b", p.Merged[1].Text)
	assert.Equal(t, "Y", p.Merged[1].Category)
	assert.Equal(t, models.OriginRemote, p.Merged[1].Origin)
	assert.Empty(t, p.Upload)
	assert.Equal(t, int64(2), p.MaxRemoteModifiedAt)
}

// ── Empty remote ─────────────────────────────────────────────────────────────

func TestPlan_EmptyRemoteKeepsEverything(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{
		localQuote("a", "one", "X", 1),
		{ID: "b", Text: "two", Category: "Y", ModifiedAt: 2, Origin: models.OriginRemote},
	}}

	for _, remote := range [][]models.RemoteQuote{nil, {}} {
		p := plan(t, snap, remote, models.SyncState{LastSyncedAt: 2})

		assert.Equal(t, snap.Quotes, p.Merged)
		assert.Zero(t, p.Inserted+p.Replaced+p.Suppressed)
	}
}

// ── Content matching ─────────────────────────────────────────────────────────

func TestPlan_MatchesByContentWhenRemoteHasNoID(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{localQuote("a", "hello", "X", 1)}}

	p := plan(t, snap, []models.RemoteQuote{remoteQuote("", "hello", "X", 1)}, models.SyncState{LastSyncedAt: 1})

	assert.Len(t, p.Merged, 1)
	assert.Equal(t, 1, p.Unchanged)
	assert.Zero(t, p.Inserted)
}

func TestPlan_MatchesByContentWhenIDsDiffer(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{localQuote("local-id", "hello", "X", 3)}}

	p := plan(t, snap, []models.RemoteQuote{remoteQuote("server-id", "hello", "X", 1)}, models.SyncState{LastSyncedAt: 0})

	require.Len(t, p.Merged, 1)
	assert.Equal(t, "local-id", p.Merged[0].ID)
	assert.Equal(t, 1, p.Unchanged)
	assert.Empty(t, p.Upload, "content already known remotely is not uploaded again")
}

func TestPlan_ContentMatchIsOneToOne(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{localQuote("a", "dup", "X", 1)}}
	remote := []models.RemoteQuote{
		remoteQuote("", "dup", "X", 1),
		remoteQuote("", "dup", "X", 1),
	}

	p := plan(t, snap, remote, models.SyncState{LastSyncedAt: 1})

	assert.Equal(t, 1, p.Unchanged)
	assert.Equal(t, 1, p.Inserted)
	require.Len(t, p.Merged, 2)
	assert.Equal(t, "gen-1", p.Merged[1].ID)
}

func TestPlan_IDMatchTakesPrecedenceOverContent(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{
		localQuote("a", "first", "X", 1),
		localQuote("b", "second", "X", 1),
	}}
	remote := []models.RemoteQuote{remoteQuote("b", "first", "X", 1)}

	p := plan(t, snap, remote, models.SyncState{LastSyncedAt: 1})

	require.Len(t, p.Merged, 2)
	assert.Equal(t, "second", p.Merged[1].Text, "tie keeps local b")
	assert.Equal(t, 1, p.KeptLocal)
	assert.Zero(t, p.Inserted)
}

// ── Inserts ──────────────────────────────────────────────────────────────────

func TestPlan_InsertsKeepRemoteOrderAfterLocal(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{localQuote("l1", "local", "X", 1)}}
	remote := []models.RemoteQuote{
		remoteQuote("r2", "two", "Y", 2),
		remoteQuote("r1", "one", "Y", 1),
	}

	p := plan(t, snap, remote, models.SyncState{LastSyncedAt: 1})

	ids := make([]string, 0, len(p.Merged))
	for _, q := range p.Merged {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"l1", "r2", "r1"}, ids)
	assert.Equal(t, 2, p.Inserted)
}

func TestPlan_InsertWithoutIDGetsGeneratedID(t *testing.T) {
	p := plan(t, quotes.Snapshot{}, []models.RemoteQuote{remoteQuote("", "anon", "Y", 0)}, models.SyncState{})

	require.Len(t, p.Merged, 1)
	assert.Equal(t, "gen-1", p.Merged[0].ID)
	assert.Equal(t, models.OriginRemote, p.Merged[0].Origin)
}

func TestPlan_GeneratedIDAvoidsRemoteIDs(t *testing.T) {
	remote := []models.RemoteQuote{
		remoteQuote("", "anon", "Y", 0),
		remoteQuote("gen-1", "named", "Y", 0),
	}

	p := plan(t, quotes.Snapshot{}, remote, models.SyncState{})

	require.Len(t, p.Merged, 2)
	assert.Equal(t, "gen-2", p.Merged[0].ID)
	assert.Equal(t, "gen-1", p.Merged[1].ID)
}

// ── Tombstones ───────────────────────────────────────────────────────────────

func TestPlan_TombstoneSuppressesResurrection(t *testing.T) {
	snap := quotes.Snapshot{Tombstones: []models.Tombstone{
		{ID: "gone", Text: "old", Category: "X", RemovedAt: 3},
		{ID: "other", Text: "by content", Category: "X", RemovedAt: 4},
	}}
	remote := []models.RemoteQuote{
		remoteQuote("gone", "old but edited", "X", 9),
		remoteQuote("", "by content", "X", 1),
		remoteQuote("new", "fresh", "X", 1),
	}

	p := plan(t, snap, remote, models.SyncState{LastSyncedAt: 4})

	assert.Equal(t, 2, p.Suppressed)
	require.Len(t, p.Merged, 1)
	assert.Equal(t, "new", p.Merged[0].ID)
}

func TestPlan_RetiresTombstonesTheRemoteForgot(t *testing.T) {
	snap := quotes.Snapshot{Tombstones: []models.Tombstone{
		{ID: "gone", Text: "old", Category: "X", RemovedAt: 3},
		{ID: "held", Text: "still there", Category: "X", RemovedAt: 3},
		{ID: "recent", Text: "late", Category: "X", RemovedAt: 7},
	}}
	remote := []models.RemoteQuote{remoteQuote("", "still there", "X", 1)}

	p := plan(t, snap, remote, models.SyncState{LastSyncedAt: 5})

	assert.Equal(t, []models.Tombstone{snap.Tombstones[0]}, p.Retired)
	assert.Equal(t, 1, p.Suppressed)
	assert.Empty(t, p.Merged)
}

// ── Echoes of uploaded edits ─────────────────────────────────────────────────

func TestPlan_EchoOfUploadedEditIsNotInserted(t *testing.T) {
	edited := localQuote("srv-1", "new", "X", 4)

	first := plan(t, quotes.Snapshot{Quotes: []models.Quote{edited}},
		[]models.RemoteQuote{remoteQuote("srv-1", "old", "X", 3)},
		models.SyncState{LastSyncedAt: 3})
	require.Len(t, first.Upload, 1)
	assert.Equal(t, "new", first.Upload[0].Text)

	second := plan(t, quotes.Snapshot{Quotes: first.Merged},
		[]models.RemoteQuote{
			remoteQuote("srv-1", "old", "X", 3),
			remoteQuote("srv-2", "new", "X", 5),
		},
		models.SyncState{LastSyncedAt: 4})

	require.Len(t, second.Merged, 1)
	assert.Equal(t, edited, second.Merged[0])
	assert.Zero(t, second.Inserted)
	assert.Equal(t, 1, second.Unchanged)
	assert.Empty(t, second.Upload)
}

func TestPlan_EchoIgnoredWhenRemoteEditIsNewer(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{localQuote("srv-1", "new", "X", 4)}}
	remote := []models.RemoteQuote{
		remoteQuote("srv-1", "newest", "X", 6),
		remoteQuote("srv-2", "new", "X", 5),
	}

	p := plan(t, snap, remote, models.SyncState{LastSyncedAt: 4})

	require.Len(t, p.Merged, 2)
	assert.Equal(t, "newest", p.Merged[0].Text)
	assert.Equal(t, "srv-2", p.Merged[1].ID)
	assert.Equal(t, 1, p.Replaced)
	assert.Equal(t, 1, p.Inserted)
}

// ── Upload selection ─────────────────────────────────────────────────────────

func TestPlan_UploadsOnlyUnsyncedLocalQuotes(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{
		localQuote("synced", "old local", "X", 2),
		localQuote("new", "new local", "X", 6),
		localQuote("pending", "failed before", "X", 3),
		{ID: "remote", Text: "from server", Category: "X", ModifiedAt: 8, Origin: models.OriginRemote},
	}}
	state := models.SyncState{LastSyncedAt: 5, PendingUpload: []string{"pending"}}

	p := plan(t, snap, nil, state)

	ids := make([]string, 0, len(p.Upload))
	for _, q := range p.Upload {
		ids = append(ids, q.ID)
	}
	assert.ElementsMatch(t, []string{"new", "pending"}, ids)
}

// ── Failures ─────────────────────────────────────────────────────────────────

func TestPlan_DuplicateRemoteIDsFailThePayload(t *testing.T) {
	remote := []models.RemoteQuote{
		remoteQuote("x", "one", "A", 1),
		remoteQuote("x", "two", "A", 1),
	}

	_, err := newMergePlanner(&seqIDGen{}).Plan(context.Background(), quotes.Snapshot{}, remote, models.SyncState{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMalformedPayload))
}

func TestPlan_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newMergePlanner(&seqIDGen{}).Plan(ctx, quotes.Snapshot{}, []models.RemoteQuote{remoteQuote("a", "t", "c", 1)}, models.SyncState{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlan_DoesNotMutateSnapshot(t *testing.T) {
	snap := quotes.Snapshot{Quotes: []models.Quote{localQuote("a", "local", "X", 1)}}
	before := append([]models.Quote(nil), snap.Quotes...)

	_ = plan(t, snap, []models.RemoteQuote{remoteQuote("a", "remote", "X", 5)}, models.SyncState{})

	assert.Equal(t, before, snap.Quotes)
}
