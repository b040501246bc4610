package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/momentum/internal/model"
)

type historyRow struct {
	model.HistoryEntry
	DetailsJSON string `db:"details"`
}

func (r historyRow) decode() (model.HistoryEntry, error) {
	e := r.HistoryEntry
	if r.DetailsJSON != "" && r.DetailsJSON != "{}" {
		if err := json.Unmarshal([]byte(r.DetailsJSON), &e.Details); err != nil {
			return e, fmt.Errorf("decoding details for history entry %s: %w", e.ID, err)
		}
	}
	return e, nil
}

const historyColumns = "id, type, entity_id, entity_type, timestamp, details"

// AppendHistory writes one immutable history entry.
func (r *repo) AppendHistory(ctx context.Context, entry *model.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()

	details, err := encodeJSON(entry.Details, "{}")
	if err != nil {
		return fmt.Errorf("encoding history details: %w", err)
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO history (`+historyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Type, entry.EntityID, entry.EntityType, entry.Timestamp, details,
	)
	if err != nil {
		return fmt.Errorf("appending history for %s %s: %w", entry.EntityType, entry.EntityID, err)
	}
	return nil
}

// GetHistory returns entries newest first, narrowed by the filter.
func (r *repo) GetHistory(ctx context.Context, filter HistoryFilter) ([]model.HistoryEntry, error) {
	var conditions []string
	var args []interface{}

	if len(filter.EntityIDs) > 0 {
		conditions = append(conditions, "entity_id IN ("+inPlaceholders(len(filter.EntityIDs))+")")
		for _, id := range filter.EntityIDs {
			args = append(args, id)
		}
	}
	if len(filter.Types) > 0 {
		conditions = append(conditions, "type IN ("+inPlaceholders(len(filter.Types))+")")
		for _, t := range filter.Types {
			args = append(args, t)
		}
	}

	query := "SELECT " + historyColumns + " FROM history"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return r.selectHistory(ctx, query, args...)
}

// GetHistoryRange returns entries with from <= timestamp < to, oldest first.
func (r *repo) GetHistoryRange(ctx context.Context, from, to time.Time) ([]model.HistoryEntry, error) {
	return r.selectHistory(ctx, `
		SELECT `+historyColumns+` FROM history
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp, rowid`,
		from.UTC(), to.UTC(),
	)
}

func (r *repo) selectHistory(ctx context.Context, query string, args ...interface{}) ([]model.HistoryEntry, error) {
	var rows []historyRow
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}

	entries := make([]model.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		e, err := row.decode()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
