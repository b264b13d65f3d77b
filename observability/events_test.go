package observability

import (
	"context"
	"testing"

	"github.com/janmitra/yojana/dbopen"
	"github.com/janmitra/yojana/kit"
	_ "modernc.org/sqlite"
)

func TestLogEvent(t *testing.T) {
	// WHAT: Events are inserted with generated IDs and countable by type.
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	l := NewEventLogger(db)
	ctx := context.Background()

	l.LogEvent(ctx, BusinessEvent{EventType: "question_answered", EntityType: "question", Success: true})
	l.LogEvent(ctx, BusinessEvent{EventType: "question_answered", EntityType: "question", Success: true})
	l.LogEvent(ctx, BusinessEvent{EventType: "scheme_discovered", EntityType: "scheme", EntityID: "PMAY", Success: true})

	n, err := l.Count(ctx, "question_answered")
	if err != nil || n != 2 {
		t.Errorf("count question_answered: %d, %v", n, err)
	}
	n, err = l.Count(ctx, "")
	if err != nil || n != 3 {
		t.Errorf("count all: %d, %v", n, err)
	}
}

func TestLogEvent_RecordsRequestContext(t *testing.T) {
	// WHAT: Events carry the trace ID and transport from the request
	// context, so they correlate with per-request logs.
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	l := NewEventLogger(db)

	ctx := kit.WithTransport(kit.WithTraceID(context.Background(), "ab12cd34"), "mcp")
	l.LogEvent(ctx, BusinessEvent{EventType: "question_answered", Success: true})

	var traceID, transport string
	err := db.QueryRow(`SELECT trace_id, transport FROM business_event_logs`).Scan(&traceID, &transport)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if traceID != "ab12cd34" || transport != "mcp" {
		t.Errorf("trace_id = %q, transport = %q", traceID, transport)
	}
}

func TestLogEvent_FailureDoesNotPanic(t *testing.T) {
	// WHY: A broken observability store must never take down the pipeline.
	db := dbopen.OpenMemory(t) // no schema
	l := NewEventLogger(db)
	l.LogEvent(context.Background(), BusinessEvent{EventType: "x"})
}
