// Package analytics records product events in analytics_events.
package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"project-builder-backend/internal/db"
)

type CtxKey string

const (
	ctxSubjectKey CtxKey = "analytics_subject"
)

// Event names.
const (
	EventProjectGenerated = "project_generated"
	EventTasksGenerated   = "tasks_generated"
	EventDocumentIngested = "document_ingested"
)

var timeNow = time.Now

// Envelope is what we store with every event.
type Envelope struct {
	Subject    string
	SessionID  string
	Platform   string
	AppVersion string
}

// FromRequest extracts event envelope fields from request headers.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "web", "cli", "mcp":
	default:
		platform = "unknown"
	}

	subject, _ := SubjectFromContext(r.Context())

	return Envelope{
		Subject:    subject,
		SessionID:  strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:   platform,
		AppVersion: strings.TrimSpace(r.Header.Get("X-App-Version")),
	}
}

func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxSubjectKey, subject)
}

func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxSubjectKey).(string)
	return s, ok
}

// SourceEventKeyFromRequest returns the client idempotency key, if any.
// A duplicate key makes Log a no-op.
func SourceEventKeyFromRequest(r *http.Request) string {
	k := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if k != "" {
		return k
	}
	return strings.TrimSpace(r.Header.Get("X-Source-Event-Key"))
}

// Log inserts one event. Callers pass props without raw user text.
func Log(ctx context.Context, dbx *db.DB, env Envelope, eventName string, props any, sourceEventKey string) error {
	if eventName == "" {
		return nil
	}

	b, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal %s properties: %w", eventName, err)
	}
	if props == nil {
		b = []byte("{}")
	}

	platform := env.Platform
	if platform == "" {
		platform = "unknown"
	}

	_, err = dbx.ExecContext(ctx, `
		INSERT INTO analytics_events (
			id, event_name, event_time,
			subject, session_id,
			platform, app_version,
			source_event_key,
			properties
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_event_key) DO NOTHING
	`, uuid.NewString(), eventName, db.FormatTime(timeNow()),
		nullIfEmpty(env.Subject), nullIfEmpty(env.SessionID),
		platform, nullIfEmpty(env.AppVersion),
		nullIfEmpty(sourceEventKey),
		string(b),
	)
	if err != nil {
		return fmt.Errorf("insert %s event: %w", eventName, err)
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
