package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"project-builder-backend/internal/db"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	dbx, err := db.Connect(db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := dbx.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		dbx.Close()
	})
	return dbx
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/brief", nil)
	req.Header.Set("X-Platform", "CLI")
	req.Header.Set("X-Session-Id", " s-1 ")
	req.Header.Set("X-App-Version", "1.2.0")
	req = req.WithContext(WithSubject(req.Context(), "alice"))

	env := FromRequest(req)
	if env.Platform != "cli" || env.SessionID != "s-1" || env.AppVersion != "1.2.0" || env.Subject != "alice" {
		t.Errorf("FromRequest = %+v", env)
	}

	req.Header.Set("X-Platform", "toaster")
	if got := FromRequest(req).Platform; got != "unknown" {
		t.Errorf("Platform = %q, want unknown", got)
	}
}

func TestSourceEventKeyFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Source-Event-Key", "fallback")
	if got := SourceEventKeyFromRequest(req); got != "fallback" {
		t.Errorf("key = %q, want fallback", got)
	}
	req.Header.Set("Idempotency-Key", "preferred")
	if got := SourceEventKeyFromRequest(req); got != "preferred" {
		t.Errorf("key = %q, want preferred", got)
	}
}

func TestLogAndSummarize(t *testing.T) {
	dbx := setupTestDB(t)
	ctx := context.Background()
	env := Envelope{Platform: "web"}

	for i := 0; i < 2; i++ {
		if err := Log(ctx, dbx, env, EventProjectGenerated, map[string]any{"task_count": 3}, ""); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}
	// Same idempotency key twice stores once.
	for i := 0; i < 2; i++ {
		if err := Log(ctx, dbx, env, EventTasksGenerated, nil, "key-1"); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}
	if err := Log(ctx, dbx, env, "", nil, ""); err != nil {
		t.Fatalf("Log with empty name failed: %v", err)
	}

	s, err := Summarize(ctx, dbx)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Total != 3 {
		t.Errorf("Total = %d, want 3", s.Total)
	}
	if s.Events[EventProjectGenerated] != 2 || s.Events[EventTasksGenerated] != 1 {
		t.Errorf("Events = %v", s.Events)
	}
}

func TestSummaryHandler(t *testing.T) {
	dbx := setupTestDB(t)
	_ = Log(context.Background(), dbx, Envelope{}, EventDocumentIngested, map[string]any{"chars": 10}, "")

	rec := httptest.NewRecorder()
	SummaryHandler(dbx)(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var s Summary
	if err := json.NewDecoder(rec.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Events[EventDocumentIngested] != 1 {
		t.Errorf("summary = %+v", s)
	}
}
