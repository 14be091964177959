package quotes

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quote-keeper/models"
)

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func newTestStore() *Store {
	return NewStore(NewClock(), &seqIDs{})
}

func collect(s *Store, category string) []models.Quote {
	return slices.Collect(s.AllByCategory(category))
}

// ── Add ─────────────────────────────────────────────────────────────────────

func TestAdd_AssignsIdentityAndOrder(t *testing.T) {
	s := newTestStore()

	input := []struct{ text, category string }{
		{"Be yourself; everyone else is already taken.", "Inspiration"},
		{"Simplicity is the ultimate sophistication.", "Philosophy"},
		{"Stay hungry, stay foolish.", "Inspiration"},
		{"Talk is cheap. Show me the code.", "Programming"},
	}

	var added []models.Quote
	for _, in := range input {
		q, err := s.Add(in.text, in.category)
		require.NoError(t, err)
		added = append(added, q)
	}

	all := collect(s, models.CategoryAll)
	require.Len(t, all, len(input))
	for i, q := range all {
		assert.Equal(t, input[i].text, q.Text)
		assert.Equal(t, input[i].category, q.Category)
		assert.Equal(t, models.OriginLocal, q.Origin)
		assert.Equal(t, added[i], q)
	}

	assert.Equal(t, []string{"Inspiration", "Philosophy", "Programming"}, s.Categories())

	assert.Less(t, added[0].ModifiedAt, added[1].ModifiedAt)
	assert.NotEqual(t, added[0].ID, added[1].ID)
	assert.True(t, s.Dirty())
}

func TestAdd_TrimsInput(t *testing.T) {
	s := newTestStore()

	q, err := s.Add("  spaced out \n", "\tCat ")
	require.NoError(t, err)

	assert.Equal(t, "spaced out", q.Text)
	assert.Equal(t, "Cat", q.Category)
}

func TestAdd_NormalizesToNFC(t *testing.T) {
	s := newTestStore()

	decomposed := "Cafe\u0301"
	q, err := s.Add(decomposed, "Food")
	require.NoError(t, err)

	assert.Equal(t, "Caf\u00e9", q.Text)
}

func TestAdd_RejectsEmptyInput(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category string
		field    string
	}{
		{name: "empty text", text: "", category: "x", field: "text"},
		{name: "empty category", text: "x", category: "", field: "category"},
		{name: "blank text", text: "   ", category: "x", field: "text"},
		{name: "blank category", text: "x", category: "\t\n", field: "category"},
		{name: "reserved category", text: "x", category: "All", field: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			_, err := s.Add("kept", "Keep")
			require.NoError(t, err)
			s.MarkClean()
			before := s.Snapshot()

			_, err = s.Add(tt.text, tt.category)

			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)
			var vErr *models.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)

			assert.Equal(t, before, s.Snapshot())
			assert.False(t, s.Dirty())
		})
	}
}

// ── Remove / Update / Get ───────────────────────────────────────────────────

func TestRemove(t *testing.T) {
	s := newTestStore()
	a, _ := s.Add("a", "X")
	b, _ := s.Add("b", "Y")
	c, _ := s.Add("c", "X")

	require.NoError(t, s.Remove(b.ID))

	assert.Equal(t, []models.Quote{a, c}, collect(s, models.CategoryAll))
	assert.Equal(t, []string{"X"}, s.Categories())
	assert.Empty(t, collect(s, "Y"))

	got, err := s.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	snap := s.Snapshot()
	require.Len(t, snap.Tombstones, 1)
	assert.Equal(t, b.ID, snap.Tombstones[0].ID)
	assert.Greater(t, snap.Tombstones[0].RemovedAt, c.ModifiedAt)
}

func TestRemove_NotFound(t *testing.T) {
	s := newTestStore()
	_, _ = s.Add("a", "X")
	s.MarkClean()

	err := s.Remove("missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Dirty())
}

func TestUpdate(t *testing.T) {
	s := newTestStore()
	a, _ := s.Add("a", "X")

	updated, err := s.Update(a.ID, "a2", "Z")
	require.NoError(t, err)

	assert.Equal(t, a.ID, updated.ID)
	assert.Greater(t, updated.ModifiedAt, a.ModifiedAt)
	assert.Equal(t, []string{"Z"}, s.Categories())
	assert.Equal(t, []models.Quote{updated}, collect(s, "Z"))

	_, err = s.Update("missing", "t", "c")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.Update(a.ID, "", "c")
	assert.ErrorIs(t, err, models.ErrValidation)
}

// ── AllByCategory / Categories ──────────────────────────────────────────────

func TestAllByCategory_FiltersAndKeepsOrder(t *testing.T) {
	s := newTestStore()
	a, _ := s.Add("a", "X")
	_, _ = s.Add("b", "Y")
	c, _ := s.Add("c", "X")

	assert.Equal(t, []models.Quote{a, c}, collect(s, "X"))
	assert.Empty(t, collect(s, "nope"))
}

func TestAllByCategory_IsRestartableAndLazy(t *testing.T) {
	s := newTestStore()
	_, _ = s.Add("a", "X")
	seq := s.AllByCategory(models.CategoryAll)

	first := slices.Collect(seq)
	_, _ = s.Add("b", "X")
	second := slices.Collect(seq)

	assert.Len(t, first, 1)
	assert.Len(t, second, 2)

	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestAllByCategory_YieldMayMutateStore(t *testing.T) {
	s := newTestStore()
	a, _ := s.Add("a", "X")

	for q := range s.AllByCategory(models.CategoryAll) {
		_, err := s.Add(q.Text+"!", q.Category)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, s.Len())
	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestCategories_ConsistentAfterMutations(t *testing.T) {
	s := newTestStore()
	ids := map[string]string{}
	for i := range 20 {
		q, err := s.Add(fmt.Sprintf("q%d", i), fmt.Sprintf("c%d", i%4))
		require.NoError(t, err)
		ids[q.Text] = q.ID
	}
	for i := 0; i < 20; i += 4 {
		require.NoError(t, s.Remove(ids[fmt.Sprintf("q%d", i)]))
	}

	assert.Equal(t, []string{"c1", "c2", "c3"}, s.Categories())

	want := map[string]int{}
	for q := range s.AllByCategory(models.CategoryAll) {
		want[q.Category]++
	}
	for _, c := range s.Categories() {
		assert.Len(t, collect(s, c), want[c])
	}
}

// ── Random ──────────────────────────────────────────────────────────────────

func TestRandom(t *testing.T) {
	s := newTestStore()
	_, ok := s.Random(models.CategoryAll, nil)
	assert.False(t, ok)

	a, _ := s.Add("a", "X")
	_, _ = s.Add("b", "Y")

	rnd := rand.New(rand.NewPCG(1, 2))
	for range 10 {
		q, ok := s.Random("X", rnd)
		require.True(t, ok)
		assert.Equal(t, a, q)
	}

	_, ok = s.Random("Z", rnd)
	assert.False(t, ok)
}

// ── ApplyMerge ──────────────────────────────────────────────────────────────

func TestApplyMerge_ReplacesCollection(t *testing.T) {
	s := newTestStore()
	a, _ := s.Add("a", "X")
	base := s.Snapshot()

	replaced := a
	replaced.Text = "a2"
	replaced.ModifiedAt = 40
	replaced.Origin = models.OriginRemote
	inserted := models.Quote{ID: "r-1", Text: "b", Category: "Y", ModifiedAt: 41, Origin: models.OriginRemote}

	s.ApplyMerge(base, []models.Quote{replaced, inserted}, 41)

	assert.Equal(t, []models.Quote{replaced, inserted}, collect(s, models.CategoryAll))
	assert.Equal(t, []string{"X", "Y"}, s.Categories())
	assert.Equal(t, int64(41), s.Clock().Current())

	next, err := s.Add("c", "X")
	require.NoError(t, err)
	assert.Greater(t, next.ModifiedAt, int64(41))
}

func TestApplyMerge_KeepsConcurrentChanges(t *testing.T) {
	s := newTestStore()
	a, _ := s.Add("a", "X")
	b, _ := s.Add("b", "X")
	c, _ := s.Add("c", "X")
	base := s.Snapshot()

	merged := []models.Quote{a, b, c, {ID: "r-1", Text: "r", Category: "R", ModifiedAt: 2, Origin: models.OriginRemote}}

	added, err := s.Add("added while merging", "New")
	require.NoError(t, err)
	require.NoError(t, s.Remove(b.ID))
	edited, err := s.Update(c.ID, "c edited", "X")
	require.NoError(t, err)

	s.ApplyMerge(base, merged, 2)

	assert.Equal(t, []models.Quote{a, edited, merged[3], added}, collect(s, models.CategoryAll))
	assert.ElementsMatch(t, []string{"X", "R", "New"}, s.Categories())
}

func TestApplyMerge_SkipsRemovedRemoteInsert(t *testing.T) {
	s := newTestStore()
	base := s.Snapshot()
	q, _ := s.Add("gone", "X")
	require.NoError(t, s.Remove(q.ID))

	s.ApplyMerge(base, []models.Quote{{ID: "r-9", Text: "gone", Category: "X", ModifiedAt: 1, Origin: models.OriginRemote}}, 1)

	assert.Zero(t, s.Len())
}

// ── Restore ─────────────────────────────────────────────────────────────────

func TestRetireTombstones(t *testing.T) {
	s := newTestStore()
	a, err := s.Add("first", "X")
	require.NoError(t, err)
	b, err := s.Add("second", "X")
	require.NoError(t, err)
	require.NoError(t, s.Remove(a.ID))
	retired := s.Snapshot().Tombstones
	require.NoError(t, s.Remove(b.ID))
	s.MarkClean()

	assert.Equal(t, 1, s.RetireTombstones(retired))

	left := s.Snapshot().Tombstones
	require.Len(t, left, 1)
	assert.Equal(t, b.ID, left[0].ID, "a tombstone recorded afterwards is kept")
	assert.True(t, s.Dirty())

	s.MarkClean()
	assert.Zero(t, s.RetireTombstones(retired))
	assert.False(t, s.Dirty())
}

func TestRestore(t *testing.T) {
	s := newTestStore()
	items := []models.Quote{
		{ID: "1", Text: "a", Category: "X", ModifiedAt: 7, Origin: models.OriginLocal},
		{ID: "1", Text: "dup", Category: "X", ModifiedAt: 8, Origin: models.OriginLocal},
		{ID: "2", Text: "b", Category: "Y", ModifiedAt: 3, Origin: models.OriginRemote},
	}
	tombs := []models.Tombstone{{ID: "3", Text: "c", Category: "Z", RemovedAt: 12}}

	s.Restore(items, tombs)

	assert.Equal(t, []models.Quote{items[0], items[2]}, collect(s, models.CategoryAll))
	assert.Equal(t, []string{"X", "Y"}, s.Categories())
	assert.Equal(t, int64(12), s.Clock().Current())
	assert.Equal(t, tombs, s.Snapshot().Tombstones)
	assert.False(t, s.Dirty())
}

// ── Concurrency ─────────────────────────────────────────────────────────────

func TestStore_ConcurrentAdds(t *testing.T) {
	s := newTestStore()

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				_, err := s.Add(fmt.Sprintf("w%d-%d", w, i), fmt.Sprintf("c%d", w))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 400, s.Len())
	assert.Len(t, s.Categories(), 8)

	stamps := map[int64]struct{}{}
	for q := range s.AllByCategory(models.CategoryAll) {
		stamps[q.ModifiedAt] = struct{}{}
	}
	assert.Len(t, stamps, 400)
}
