package ai

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// QueryHandler serves POST /api/llm/query.
func QueryHandler(client *Client, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Prompt *string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Prompt == nil {
			http.Error(w, "Missing 'prompt' field.", http.StatusBadRequest)
			return
		}

		text, err := client.Query(r.Context(), *body.Prompt)
		if err != nil {
			log.Error().Err(err).Str("kind", string(KindOf(err))).Msg("llm query failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"response": text})
	}
}
