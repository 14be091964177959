package models

import "time"

// SyncPhase is a state of the sync engine state machine.
type SyncPhase string

const (
	SyncPhaseIdle       SyncPhase = "idle"
	SyncPhaseFetching   SyncPhase = "fetching"
	SyncPhaseMerging    SyncPhase = "merging"
	SyncPhasePersisting SyncPhase = "persisting"
	SyncPhaseFailed     SyncPhase = "failed"
)

// MergePlan is the outcome of reconciling a local snapshot with a remote one.
// It is computed without touching the store.
type MergePlan struct {
	// Merged is the full collection to apply, local order first, then
	// remote-only records in remote order.
	Merged []Quote
	// Upload holds the quotes queued for upload.
	Upload []Quote
	// Retired holds tombstones that no longer need to be kept.
	Retired []Tombstone

	Inserted   int
	Replaced   int
	Unchanged  int
	KeptLocal  int
	Suppressed int

	// MaxRemoteModifiedAt is the highest logical timestamp seen remotely.
	MaxRemoteModifiedAt int64
}

// SyncReport describes one finished sync cycle.
type SyncReport struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	Fetched    int `json:"fetched"`
	Skipped    int `json:"skipped"`
	Inserted   int `json:"inserted"`
	Replaced   int `json:"replaced"`
	Unchanged  int `json:"unchanged"`
	KeptLocal  int `json:"keptLocal"`
	Suppressed int `json:"suppressed"`
	Uploaded   int `json:"uploaded"`

	Warnings     []string `json:"warnings,omitempty"`
	UploadError  string   `json:"uploadError,omitempty"`
	PersistError string   `json:"persistError,omitempty"`
}

// SyncStatus is a read-only view of the engine, safe to hand to a UI.
type SyncStatus struct {
	Phase               SyncPhase   `json:"phase"`
	InFlight            bool        `json:"inFlight"`
	LastAttemptAt       time.Time   `json:"lastAttemptAt"`
	LastSuccessAt       time.Time   `json:"lastSuccessAt"`
	LastSyncedAt        int64       `json:"lastSyncedAt"`
	PendingUpload       int         `json:"pendingUpload"`
	ConsecutiveFailures int         `json:"consecutiveFailures"`
	LastError           string      `json:"lastError,omitempty"`
	LastReport          *SyncReport `json:"lastReport,omitempty"`
}

// SyncEvent is emitted on every phase transition of the engine.
type SyncEvent struct {
	Phase  SyncPhase
	Status SyncStatus
	Err    error
}
