package models

// SyncState is the bookkeeping of the sync engine persisted next to quotes.
type SyncState struct {
	// LastSyncedAt is the logical clock value captured when the merge
	// snapshot of the last successful cycle was taken. Local quotes modified
	// after it have not been seen by the remote side yet.
	LastSyncedAt int64 `json:"lastSyncedAt"`
	// PendingUpload holds identifiers of quotes whose upload failed and has
	// to be retried on the next cycle.
	PendingUpload []string `json:"pendingUpload,omitempty"`
}

// PersistedState is the document written by a persistence backend.
type PersistedState struct {
	Quotes     []Quote     `json:"quotes"`
	Tombstones []Tombstone `json:"tombstones,omitempty"`
	SyncState  SyncState   `json:"syncState"`
}
