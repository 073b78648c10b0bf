package tasks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateHandler(t *testing.T) {
	store := NewStore(setupTestDB(t))
	gen := NewGenerator(&stubQuerier{text: "1. Design schema\n2) Implement auth"}, zerolog.Nop())
	handler := GenerateHandler(gen, store, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/generate", strings.NewReader(`{"brief":"Blog engine"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp GenerateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Created != 2 || len(resp.Tasks) != 2 {
		t.Fatalf("resp = %+v, want 2 created", resp)
	}
	if resp.Tasks[1].Name != "Implement auth" {
		t.Errorf("tasks[1].Name = %q", resp.Tasks[1].Name)
	}

	listRec := httptest.NewRecorder()
	ListHandler(store)(listRec, httptest.NewRequest(http.MethodGet, "/api/tasks/", nil))
	var list []StoredTask
	if err := json.NewDecoder(listRec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("listed %d tasks, want 2", len(list))
	}
}

func TestGenerateHandler_MissingBrief(t *testing.T) {
	handler := GenerateHandler(NewGenerator(nil, zerolog.Nop()), NewStore(setupTestDB(t)), zerolog.Nop())

	for _, body := range []string{`{}`, `{"brief":"  "}`, `not json`} {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/tasks/generate", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Missing project brief.") {
			t.Errorf("body %q: response %q", body, rec.Body.String())
		}
	}
}

func TestGenerateHandler_StoreFailure(t *testing.T) {
	dbx := setupTestDB(t)
	store := NewStore(dbx)
	dbx.Close()

	handler := GenerateHandler(NewGenerator(nil, zerolog.Nop()), store, zerolog.Nop())
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/tasks/generate", strings.NewReader(`{"brief":"x"}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
