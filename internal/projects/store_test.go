package projects

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

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

func TestStore_RecordUpserts(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	first, err := store.Record(ctx, "Todo App", "todo-app", "/tmp/todo-app", 3)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	second, err := store.Record(ctx, "Todo App", "todo-app", "/tmp/todo-app", 5)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("upsert changed id: %q -> %q", first.ID, second.ID)
	}
	if second.TaskCount != 5 {
		t.Errorf("TaskCount = %d, want 5", second.TaskCount)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List returned %d projects, want 1", len(list))
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	orig := timeNow
	t.Cleanup(func() { timeNow = orig })

	timeNow = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	_, _ = store.Record(ctx, "Old", "old", "/tmp/old", 3)
	timeNow = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	_, _ = store.Record(ctx, "New", "new", "/tmp/new", 3)

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].Slug != "new" || list[1].Slug != "old" {
		t.Errorf("List = %+v, want new then old", list)
	}
}

func TestStore_ListNewestFirstWithinSecond(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	orig := timeNow
	t.Cleanup(func() { timeNow = orig })

	timeNow = func() time.Time { return time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC) }
	_, _ = store.Record(ctx, "Whole", "whole", "/tmp/whole", 3)
	timeNow = func() time.Time { return time.Date(2025, 1, 1, 10, 0, 0, 500000000, time.UTC) }
	_, _ = store.Record(ctx, "Half", "half", "/tmp/half", 3)
	timeNow = func() time.Time { return time.Date(2025, 1, 1, 10, 0, 0, 550000000, time.UTC) }
	_, _ = store.Record(ctx, "Later", "later", "/tmp/later", 3)

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"later", "half", "whole"}
	if len(list) != len(want) {
		t.Fatalf("List returned %d projects, want %d", len(list), len(want))
	}
	for i, slug := range want {
		if list[i].Slug != slug {
			t.Errorf("list[%d].Slug = %q, want %q", i, list[i].Slug, slug)
		}
	}
}

func TestStore_GetNotFound(t *testing.T) {
	_, err := NewStore(setupTestDB(t)).Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHandlers(t *testing.T) {
	store := NewStore(setupTestDB(t))
	_, _ = store.Record(context.Background(), "Shop", "shop", "/tmp/shop", 4)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects", ListHandler(store))
	mux.HandleFunc("GET /api/projects/{slug}", GetHandler(store))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects/shop", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var p Project
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Name != "Shop" || p.TaskCount != 4 {
		t.Errorf("project = %+v", p)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	var list []Project
	_ = json.NewDecoder(rec.Body).Decode(&list)
	if len(list) != 1 {
		t.Errorf("list = %+v", list)
	}
}
