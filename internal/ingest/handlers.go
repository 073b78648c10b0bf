package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"project-builder-backend/internal/analytics"
	"project-builder-backend/internal/db"
)

// multipartOverhead is allowed on top of the file size limit for the
// multipart envelope.
const multipartOverhead = 1 << 20

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

type UploadResponse struct {
	Filename   string `json:"filename"`
	Text       string `json:"text"`
	Vectors    int    `json:"vectors"`
	DocumentID string `json:"document_id,omitempty"`
}

// Allowed reports whether filename has a supported extension.
func Allowed(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// UploadHandler serves POST /api/ingest/upload. dbx, when set, receives a
// document_ingested event.
func UploadHandler(ext Extractor, store *Store, maxBytes int64, dbx *db.DB, log zerolog.Logger) http.HandlerFunc {
	tooLarge := fmt.Sprintf("File too large (max %dMB).", maxBytes/(1024*1024))

	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

		file, header, err := r.FormFile("file")
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				http.Error(w, tooLarge, http.StatusBadRequest)
				return
			}
			http.Error(w, "Missing file.", http.StatusBadRequest)
			return
		}
		defer file.Close()

		if !Allowed(header.Filename) {
			http.Error(w, "Unsupported file type.", http.StatusBadRequest)
			return
		}
		if header.Size > maxBytes {
			http.Error(w, tooLarge, http.StatusBadRequest)
			return
		}

		tmp, err := os.CreateTemp("", "upload-*"+strings.ToLower(filepath.Ext(header.Filename)))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer os.Remove(tmp.Name())

		_, err = io.Copy(tmp, file)
		if cerr := tmp.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		text, err := ext.Extract(r.Context(), tmp.Name())
		if err != nil {
			log.Error().Err(err).Str("filename", header.Filename).Msg("text extraction failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		doc, err := store.Save(r.Context(), header.Filename, text)
		if err != nil {
			log.Error().Err(err).Str("filename", header.Filename).Msg("store document")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		resp := UploadResponse{Filename: header.Filename, Text: text}
		if doc != nil {
			resp.Vectors = 1
			resp.DocumentID = doc.ID
		}

		if dbx != nil {
			props := map[string]any{
				"extension": strings.ToLower(filepath.Ext(header.Filename)),
				"chars":     len(text),
				"stored":    doc != nil,
			}
			if err := analytics.Log(r.Context(), dbx, analytics.FromRequest(r), analytics.EventDocumentIngested, props, analytics.SourceEventKeyFromRequest(r)); err != nil {
				log.Warn().Err(err).Msg("log document_ingested event")
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// DocumentHandler serves GET /api/ingest/documents/{id}.
func DocumentHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.Get(r.Context(), r.PathValue("id"))
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Document not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}
}
