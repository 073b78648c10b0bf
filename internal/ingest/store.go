package ingest

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"project-builder-backend/internal/db"
)

const snippetRunes = 200

// ErrNotFound is returned by Get for an unknown document id.
var ErrNotFound = errors.New("document not found")

var timeNow = time.Now

// Document is extracted text keyed by the md5 of its content.
type Document struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Text      string    `json:"text"`
	Snippet   string    `json:"snippet"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	db *db.DB
}

func NewStore(dbx *db.DB) *Store {
	return &Store{db: dbx}
}

// DocumentID is the hex md5 of text.
func DocumentID(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Save stores text under its DocumentID. Blank text stores nothing and
// returns nil. Saving the same text again keeps the first record.
func (s *Store) Save(ctx context.Context, filename, text string) (*Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	id := DocumentID(text)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO file_records (id, filename, content_text, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, id, filename, text, db.FormatTime(timeNow()))
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return s.Get(ctx, id)
}

// Get returns the document with id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	var (
		d       Document
		created string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, filename, content_text, created_at
		FROM file_records
		WHERE id = ?
	`, id).Scan(&d.ID, &d.Filename, &d.Text, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}

	if d.CreatedAt, err = db.ParseTime(created); err != nil {
		return nil, fmt.Errorf("parse created_at for document %s: %w", id, err)
	}
	d.Snippet = snippet(d.Text)
	return &d, nil
}

func snippet(text string) string {
	r := []rune(text)
	if len(r) <= snippetRunes {
		return text
	}
	return string(r[:snippetRunes])
}
