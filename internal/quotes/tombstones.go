package quotes

import "github.com/MKhiriev/go-quote-keeper/models"

// TombstoneSet answers whether a record was removed locally, by identifier
// or by content.
type TombstoneSet struct {
	ids  map[string]struct{}
	keys map[models.ContentKey]struct{}
}

// NewTombstoneSet indexes tombstones.
func NewTombstoneSet(tombstones []models.Tombstone) TombstoneSet {
	set := TombstoneSet{
		ids:  make(map[string]struct{}, len(tombstones)),
		keys: make(map[models.ContentKey]struct{}, len(tombstones)),
	}
	for _, t := range tombstones {
		set.ids[t.ID] = struct{}{}
		set.keys[t.ContentKey()] = struct{}{}
	}
	return set
}

// Has reports whether a record with id or key was removed.
func (t TombstoneSet) Has(id string, key models.ContentKey) bool {
	if id != "" {
		if _, ok := t.ids[id]; ok {
			return true
		}
	}
	_, ok := t.keys[key]
	return ok
}

func (t TombstoneSet) has(q models.Quote) bool {
	return t.Has(q.ID, q.ContentKey())
}
