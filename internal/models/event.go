package models

import "time"

// PanelEvent is a single log entry.
type PanelEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // APPLY | ALL_ON | ALL_OFF | SCHEDULE_UPDATE | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
