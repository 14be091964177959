// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CategoryAll is the pseudo-category that selects every quote.
const CategoryAll = "all"

// Origin tells whether a quote was created on this device or received from
// the remote endpoint during a sync cycle.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// Quote is a single quote record kept by the local store.
//
// ModifiedAt is a logical timestamp issued by the store clock. It is only
// meaningful for ordering two versions of the same record and has nothing to
// do with wall-clock time.
type Quote struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Category   string `json:"category"`
	ModifiedAt int64  `json:"modifiedAt"`
	Origin     Origin `json:"origin"`
}

// ContentKey returns the (text, category) pair used to match records when no
// identifier is available.
func (q Quote) ContentKey() ContentKey {
	return ContentKey{Text: q.Text, Category: q.Category}
}

// SameContent reports whether q and other carry the same text and category.
func (q Quote) SameContent(other Quote) bool {
	return q.Text == other.Text && q.Category == other.Category
}

// ContentKey is the fallback identity of a quote.
type ContentKey struct {
	Text     string
	Category string
}

// Tombstone remembers a quote removed locally, so that a later sync does not
// bring it back from the remote snapshot.
type Tombstone struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	RemovedAt int64  `json:"removedAt"`
}

// ContentKey returns the (text, category) pair of the removed quote.
func (t Tombstone) ContentKey() ContentKey {
	return ContentKey{Text: t.Text, Category: t.Category}
}
