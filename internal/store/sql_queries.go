// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-quote-keeper/models"
)

// insertChunkSize keeps multi-row inserts below SQLite's bound parameter
// limit.
const insertChunkSize = 100

const (
	deleteAllQuotes     = `DELETE FROM quotes;`
	deleteAllTombstones = `DELETE FROM tombstones;`

	selectSyncState = `SELECT last_synced_at, pending_upload FROM sync_state WHERE id = 1;`
	upsertSyncState = `
		INSERT INTO sync_state (id, last_synced_at, pending_upload)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			last_synced_at = excluded.last_synced_at,
			pending_upload = excluded.pending_upload;`
)

var (
	sqliteBuilder   = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	postgresBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
)

func buildSelectLocalQuotesQuery() (string, []any, error) {
	return sqliteBuilder.
		Select("id", "text", "category", "modified_at", "origin").
		From("quotes").
		OrderBy("position").
		ToSql()
}

func buildSelectTombstonesQuery() (string, []any, error) {
	return sqliteBuilder.
		Select("id", "text", "category", "removed_at").
		From("tombstones").
		OrderBy("removed_at", "id").
		ToSql()
}

// buildInsertLocalQuotesQueries splits quotes into multi-row INSERTs that
// preserve insertion order through the position column.
func buildInsertLocalQuotesQueries(quotes []models.Quote) ([]sq.InsertBuilder, error) {
	builders := make([]sq.InsertBuilder, 0, len(quotes)/insertChunkSize+1)
	for start := 0; start < len(quotes); start += insertChunkSize {
		end := min(start+insertChunkSize, len(quotes))
		b := sqliteBuilder.
			Insert("quotes").
			Columns("position", "id", "text", "category", "modified_at", "origin")
		for i, q := range quotes[start:end] {
			if q.ID == "" {
				return nil, fmt.Errorf("%w: quote at position %d has no id", ErrBuildingSQLQuery, start+i)
			}
			b = b.Values(start+i, q.ID, q.Text, q.Category, q.ModifiedAt, string(q.Origin))
		}
		builders = append(builders, b)
	}
	return builders, nil
}

func buildInsertTombstonesQueries(tombstones []models.Tombstone) []sq.InsertBuilder {
	builders := make([]sq.InsertBuilder, 0, len(tombstones)/insertChunkSize+1)
	for start := 0; start < len(tombstones); start += insertChunkSize {
		end := min(start+insertChunkSize, len(tombstones))
		b := sqliteBuilder.
			Insert("tombstones").
			Columns("id", "text", "category", "removed_at").
			Options("OR REPLACE")
		for _, t := range tombstones[start:end] {
			b = b.Values(t.ID, t.Text, t.Category, t.RemovedAt)
		}
		builders = append(builders, b)
	}
	return builders
}

func encodePendingUpload(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodePendingUpload(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}

func buildSelectRemoteQuotesQuery() (string, []any, error) {
	return postgresBuilder.
		Select("id", "text", "category", "seq").
		From("quotes").
		OrderBy("seq").
		ToSql()
}

func buildInsertRemoteQuotesQuery(quotes []models.RemoteQuote) (string, []any, error) {
	if len(quotes) == 0 {
		return "", nil, fmt.Errorf("%w: nothing to insert", ErrBuildingSQLQuery)
	}
	b := postgresBuilder.
		Insert("quotes").
		Columns("id", "text", "category")
	for _, q := range quotes {
		b = b.Values(q.ID, q.Text, q.Category)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
