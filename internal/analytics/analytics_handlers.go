package analytics

import (
	"encoding/json"
	"net/http"

	"project-builder-backend/internal/db"
)

// SummaryHandler serves GET /api/analytics/summary.
func SummaryHandler(dbx *db.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := Summarize(r.Context(), dbx)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s)
	}
}
