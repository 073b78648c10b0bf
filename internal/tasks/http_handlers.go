package tasks

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// GenerateHandler serves POST /api/tasks/generate: generate tasks for a
// brief and store every one of them.
func GenerateHandler(gen *Generator, store *Store, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Brief == nil || strings.TrimSpace(*body.Brief) == "" {
			http.Error(w, "Missing project brief.", http.StatusBadRequest)
			return
		}

		generated := gen.Generate(r.Context(), *body.Brief)

		stored, err := store.SaveAll(r.Context(), generated)
		if err != nil {
			log.Error().Err(err).Int("tasks", len(generated)).Msg("store generated tasks")
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(GenerateResponse{Created: len(stored), Tasks: stored})
	}
}

// ListHandler serves GET /api/tasks/.
func ListHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := store.List(r.Context())
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}
