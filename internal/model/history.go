package model

import "time"

// HistoryType names the mutation a history entry records.
type HistoryType string

const (
	HistoryAdd        HistoryType = "add"
	HistoryComplete   HistoryType = "complete"
	HistoryUncomplete HistoryType = "uncomplete"
	HistoryEdit       HistoryType = "edit"
	HistoryDelete     HistoryType = "delete"
	HistoryArchive    HistoryType = "archive"
)

// EntityType is the kind of record a history entry refers to.
type EntityType string

const (
	EntityTask EntityType = "task"
	EntityGoal EntityType = "goal"
)

// HistoryEntry is one immutable line of the activity log.
type HistoryEntry struct {
	ID         string                 `json:"id" db:"id"`
	Type       HistoryType            `json:"type" db:"type"`
	EntityID   string                 `json:"entity_id" db:"entity_id"`
	EntityType EntityType             `json:"entity_type" db:"entity_type"`
	Timestamp  time.Time              `json:"timestamp" db:"timestamp"`
	Details    map[string]interface{} `json:"details,omitempty" db:"-"`
}
