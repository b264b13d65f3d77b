// Package observability records domain-level business events in SQLite.
//
// Event writes are fire-and-forget: a failing observability store must never
// affect the answer pipeline, so errors are logged via slog and swallowed.
package observability

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/janmitra/yojana/kit"
)

// Schema creates the event log table.
const Schema = `
CREATE TABLE IF NOT EXISTS business_event_logs (
	event_id    TEXT PRIMARY KEY,
	event_type  TEXT NOT NULL,
	entity_type TEXT NOT NULL DEFAULT '',
	entity_id   TEXT NOT NULL DEFAULT '',
	action      TEXT NOT NULL DEFAULT '',
	details     TEXT NOT NULL DEFAULT '',
	success     INTEGER NOT NULL DEFAULT 1,
	trace_id    TEXT NOT NULL DEFAULT '',
	transport   TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_event_logs_type ON business_event_logs(event_type, created_at);
`

// BusinessEvent represents a domain-level event to record.
type BusinessEvent struct {
	EventType  string
	EntityType string
	EntityID   string
	Action     string
	Details    string // optional JSON
	Success    bool
}

// EventLogger writes business events.
type EventLogger struct {
	db    *sql.DB
	newID func() string
}

// NewEventLogger creates a logger backed by the given database. The caller
// is responsible for having applied Schema.
func NewEventLogger(db *sql.DB) *EventLogger {
	return &EventLogger{
		db:    db,
		newID: func() string { return "evt_" + uuid.NewString() },
	}
}

// LogEvent records a business event, correlated with the request via the
// trace ID and transport carried in ctx. Non-blocking: errors are logged
// via slog but do not propagate.
func (l *EventLogger) LogEvent(ctx context.Context, event BusinessEvent) {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO business_event_logs (
			event_id, event_type, entity_type, entity_id, action, details, success, trace_id, transport, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		l.newID(), event.EventType, event.EntityType, event.EntityID,
		event.Action, event.Details, event.Success,
		kit.GetTraceID(ctx), kit.GetTransport(ctx), time.Now().Unix())
	if err != nil {
		slog.Error("observability event log failed", "error", err, "event_type", event.EventType)
	}
}

// Count returns the number of recorded events of the given type. Zero-value
// eventType counts everything.
func (l *EventLogger) Count(ctx context.Context, eventType string) (int, error) {
	var n int
	var err error
	if eventType == "" {
		err = l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM business_event_logs`).Scan(&n)
	} else {
		err = l.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM business_event_logs WHERE event_type = ?`, eventType).Scan(&n)
	}
	return n, err
}
