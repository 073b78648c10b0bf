package brief

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"project-builder-backend/internal/analytics"
	"project-builder-backend/internal/scaffold"
)

// GenerateHandler serves POST /api/brief.
func GenerateHandler(coord *Coordinator, rec Recorder, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Brief string `json:"brief"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := coord.Run(r.Context(), body.Brief)
		switch {
		case errors.Is(err, ErrEmptyBrief):
			http.Error(w, "Missing project brief.", http.StatusBadRequest)
			return
		case errors.Is(err, scaffold.ErrInvalidName):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			log.Error().Err(err).Msg("project generation failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		rec.Record(r.Context(), analytics.FromRequest(r), res, analytics.SourceEventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}

// DownloadHandler serves GET /api/brief/download/{name}: the project
// directory baseDir/name as a zip.
func DownloadHandler(baseDir string, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		// Exactly one path element. A backslash is an ordinary character
		// where it is not a separator, matching what SafeName keeps.
		if name == "" || name == "." || name == ".." || strings.ContainsRune(name, '/') || filepath.Base(name) != name {
			http.Error(w, "Project not found", http.StatusNotFound)
			return
		}

		dir := filepath.Join(baseDir, name)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			http.Error(w, "Project not found", http.StatusNotFound)
			return
		}

		var buf bytes.Buffer
		if err := scaffold.Archive(&buf, dir); err != nil {
			log.Error().Err(err).Str("project", name).Msg("archive project")
			http.Error(w, "archive error", http.StatusInternalServerError)
			return
		}

		filename := scaffold.Slugify(name)
		if filename == "" {
			filename = "project"
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.zip"`)
		_, _ = w.Write(buf.Bytes())
	}
}
