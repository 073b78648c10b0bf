package ai

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestQueryHandler(t *testing.T) {
	ok := NewClient(Settings{}, WithBackend(&fakeBackend{text: "echo:"}), WithRetry(noWait))
	failing := NewClient(Settings{}, WithBackend(&fakeBackend{failFor: 99, err: errors.New("down")}), WithRetry(noWait))

	tests := []struct {
		name       string
		client     *Client
		body       string
		wantStatus int
		wantText   string
	}{
		{"ok", ok, `{"prompt":"hi"}`, http.StatusOK, "echo:hi"},
		{"missing prompt", ok, `{}`, http.StatusBadRequest, ""},
		{"bad json", ok, `{`, http.StatusBadRequest, ""},
		{"upstream error", failing, `{"prompt":"hi"}`, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/llm/query", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			QueryHandler(tt.client, zerolog.Nop())(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantText == "" {
				return
			}
			var resp map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp["response"] != tt.wantText {
				t.Errorf("response = %q, want %q", resp["response"], tt.wantText)
			}
		})
	}
}
