// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package quotes holds the authoritative in-memory quote collection.
//
// [Store] keeps quotes in insertion order, maintains a category index that is
// consistent with the collection after every mutation, stamps changes with a
// logical [Clock] and remembers removals as tombstones. It never performs I/O:
// every mutation raises a dirty marker and the caller is responsible for
// persisting the state.
package quotes

import (
	"iter"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-quote-keeper/models"
)

// IDGenerator issues unique quote identifiers.
type IDGenerator interface {
	Generate() string
}

// Snapshot is an immutable copy of the store taken at one instant.
type Snapshot struct {
	Quotes     []models.Quote
	Tombstones []models.Tombstone
	Clock      int64
}

// Store is the quote collection. The zero value is not usable; create it
// with [NewStore].
type Store struct {
	mu sync.RWMutex

	items      []models.Quote
	pos        map[string]int
	byCategory map[string]map[string]struct{}
	tombstones []models.Tombstone

	clock *Clock
	ids   IDGenerator
	dirty atomic.Bool
}

// NewStore creates an empty store.
func NewStore(clock *Clock, ids IDGenerator) *Store {
	if clock == nil {
		clock = NewClock()
	}
	return &Store{
		pos:        make(map[string]int),
		byCategory: make(map[string]map[string]struct{}),
		clock:      clock,
		ids:        ids,
	}
}

// Add appends a new local quote. It fails with a *models.ValidationError
// when text or category is empty after trimming; the store is unchanged then.
func (s *Store) Add(text, category string) (models.Quote, error) {
	text, category, err := NormalizeInput(text, category)
	if err != nil {
		return models.Quote{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q := models.Quote{
		ID:         s.newID(),
		Text:       text,
		Category:   category,
		ModifiedAt: s.clock.Next(),
		Origin:     models.OriginLocal,
	}
	s.appendLocked(q)
	s.dirty.Store(true)

	return q, nil
}

// Update replaces text and category of an existing quote. The quote becomes
// a local edit with a fresh logical timestamp.
func (s *Store) Update(id, text, category string) (models.Quote, error) {
	text, category, err := NormalizeInput(text, category)
	if err != nil {
		return models.Quote{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.pos[id]
	if !ok {
		return models.Quote{}, &models.NotFoundError{ID: id}
	}

	old := s.items[i]
	q := models.Quote{
		ID:         id,
		Text:       text,
		Category:   category,
		ModifiedAt: s.clock.Next(),
		Origin:     models.OriginLocal,
	}
	s.items[i] = q
	s.unindex(old)
	s.index(q)
	s.dirty.Store(true)

	return q, nil
}

// Remove deletes the quote with the given id and records a tombstone.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.pos[id]
	if !ok {
		return &models.NotFoundError{ID: id}
	}

	q := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	for j := i; j < len(s.items); j++ {
		s.pos[s.items[j].ID] = j
	}
	delete(s.pos, id)
	s.unindex(q)

	s.tombstones = append(s.tombstones, models.Tombstone{
		ID:        q.ID,
		Text:      q.Text,
		Category:  q.Category,
		RemovedAt: s.clock.Next(),
	})
	s.dirty.Store(true)

	return nil
}

// Get returns the quote with the given id.
func (s *Store) Get(id string) (models.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.pos[id]
	if !ok {
		return models.Quote{}, &models.NotFoundError{ID: id}
	}
	return s.items[i], nil
}

// Len returns the number of quotes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// AllByCategory returns a lazy sequence of quotes in insertion order.
// Passing [models.CategoryAll] yields every quote. The sequence can be ranged
// over any number of times; each pass reads the collection as it is at the
// start of that pass.
func (s *Store) AllByCategory(category string) iter.Seq[models.Quote] {
	return func(yield func(models.Quote) bool) {
		for _, q := range s.view(category) {
			if !yield(q) {
				return
			}
		}
	}
}

// Categories returns the distinct categories of the collection, sorted.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.byCategory))
	for c := range s.byCategory {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Random picks a quote from category using rnd. The boolean is false when
// the category is empty.
func (s *Store) Random(category string, rnd *rand.Rand) (models.Quote, bool) {
	items := s.view(category)
	if len(items) == 0 {
		return models.Quote{}, false
	}
	if rnd == nil {
		return items[rand.IntN(len(items))], true
	}
	return items[rnd.IntN(len(items))], true
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Quotes:     slices.Clone(s.items),
		Tombstones: slices.Clone(s.tombstones),
		Clock:      s.clock.Current(),
	}
}

// ApplyMerge swaps the collection for merged in one step.
//
// base is the snapshot merged was computed from. Changes made to the store
// after base was taken win over merged: quotes added since are appended,
// quotes removed since stay removed and quotes edited since keep the local
// edit. observed is the highest remote logical timestamp; the clock is moved
// past it.
func (s *Store) ApplyMerge(base Snapshot, merged []models.Quote, observed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inBase := make(map[string]models.Quote, len(base.Quotes))
	for _, q := range base.Quotes {
		inBase[q.ID] = q
	}
	removed := NewTombstoneSet(s.tombstones)

	result := make([]models.Quote, 0, len(merged)+len(s.items))
	seen := make(map[string]struct{}, len(merged))
	for _, q := range merged {
		if _, dup := seen[q.ID]; dup {
			continue
		}
		i, inCur := s.pos[q.ID]
		b, wasBase := inBase[q.ID]
		switch {
		case wasBase && !inCur:
			continue
		case wasBase && inCur && s.items[i].ModifiedAt != b.ModifiedAt:
			q = s.items[i]
		case !wasBase && !inCur && removed.has(q):
			continue
		}
		seen[q.ID] = struct{}{}
		result = append(result, q)
	}
	for _, q := range s.items {
		if _, ok := seen[q.ID]; ok {
			continue
		}
		if _, ok := inBase[q.ID]; ok {
			continue
		}
		seen[q.ID] = struct{}{}
		result = append(result, q)
	}

	s.replaceLocked(result)
	s.clock.Observe(observed)
	s.dirty.Store(true)
}

// RetireTombstones drops the given tombstones. A tombstone recorded again
// after retired was computed is kept.
func (s *Store) RetireTombstones(retired []models.Tombstone) int {
	if len(retired) == 0 {
		return 0
	}
	drop := make(map[models.Tombstone]struct{}, len(retired))
	for _, t := range retired {
		drop[t] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tombstones[:0:0]
	for _, t := range s.tombstones {
		if _, ok := drop[t]; !ok {
			kept = append(kept, t)
		}
	}
	n := len(s.tombstones) - len(kept)
	if n > 0 {
		s.tombstones = kept
		s.dirty.Store(true)
	}
	return n
}

// Restore replaces the whole state, typically with data loaded from a
// persistence backend. Duplicate identifiers keep their first occurrence.
// The clock is moved past every restored timestamp.
func (s *Store) Restore(items []models.Quote, tombstones []models.Tombstone) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unique := make([]models.Quote, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	var maxTS int64
	for _, q := range items {
		if _, dup := seen[q.ID]; dup || q.ID == "" {
			continue
		}
		seen[q.ID] = struct{}{}
		unique = append(unique, q)
		maxTS = max(maxTS, q.ModifiedAt)
	}
	for _, t := range tombstones {
		maxTS = max(maxTS, t.RemovedAt)
	}

	s.replaceLocked(unique)
	s.tombstones = slices.Clone(tombstones)
	s.clock.Observe(maxTS)
	s.dirty.Store(false)
}

// Dirty reports whether the store changed since the last MarkClean.
func (s *Store) Dirty() bool {
	return s.dirty.Load()
}

// MarkClean clears the dirty marker after a successful save.
func (s *Store) MarkClean() {
	s.dirty.Store(false)
}

// MarkDirty raises the dirty marker again, typically after a failed save.
func (s *Store) MarkDirty() {
	s.dirty.Store(true)
}

// Clock exposes the logical clock of the store.
func (s *Store) Clock() *Clock {
	return s.clock
}

func (s *Store) view(category string) []models.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if category == "" || category == models.CategoryAll {
		return slices.Clone(s.items)
	}

	ids := s.byCategory[category]
	out := make([]models.Quote, 0, len(ids))
	for _, q := range s.items {
		if _, ok := ids[q.ID]; ok {
			out = append(out, q)
		}
	}
	return out
}

func (s *Store) newID() string {
	for {
		id := s.ids.Generate()
		if _, taken := s.pos[id]; !taken {
			return id
		}
	}
}

func (s *Store) appendLocked(q models.Quote) {
	s.pos[q.ID] = len(s.items)
	s.items = append(s.items, q)
	s.index(q)
}

func (s *Store) replaceLocked(items []models.Quote) {
	s.items = items
	s.pos = make(map[string]int, len(items))
	s.byCategory = make(map[string]map[string]struct{})
	for i, q := range items {
		s.pos[q.ID] = i
		s.index(q)
	}
}

func (s *Store) index(q models.Quote) {
	ids, ok := s.byCategory[q.Category]
	if !ok {
		ids = make(map[string]struct{})
		s.byCategory[q.Category] = ids
	}
	ids[q.ID] = struct{}{}
}

func (s *Store) unindex(q models.Quote) {
	ids := s.byCategory[q.Category]
	delete(ids, q.ID)
	if len(ids) == 0 {
		delete(s.byCategory, q.Category)
	}
}
