// Package projects keeps the registry of generated projects.
package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"project-builder-backend/internal/db"
)

// ErrNotFound is returned by Get for an unknown slug.
var ErrNotFound = errors.New("project not found")

var timeNow = time.Now

type Store struct {
	db *db.DB
}

func NewStore(dbx *db.DB) *Store {
	return &Store{db: dbx}
}

// Record upserts a project by slug. Regenerating a project refreshes its
// name, directory, task count and creation time but keeps its id.
func (s *Store) Record(ctx context.Context, name, slug, projectDir string, taskCount int) (*Project, error) {
	now := timeNow().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, slug, project_dir, task_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			project_dir = EXCLUDED.project_dir,
			task_count = EXCLUDED.task_count,
			created_at = EXCLUDED.created_at
	`, uuid.NewString(), name, slug, projectDir, taskCount, db.FormatTime(now))
	if err != nil {
		return nil, fmt.Errorf("record project %q: %w", slug, err)
	}
	return s.Get(ctx, slug)
}

// Get returns the project with slug, or ErrNotFound.
func (s *Store) Get(ctx context.Context, slug string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug, project_dir, task_count, created_at
		FROM projects
		WHERE slug = ?
	`, slug)

	p, err := scanProject(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project %q: %w", slug, err)
	}
	return p, nil
}

// List returns all projects, most recently generated first.
func (s *Store) List(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, project_dir, task_count, created_at
		FROM projects
		ORDER BY created_at DESC, slug ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	result := []Project{}
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func scanProject(scan func(dest ...any) error) (*Project, error) {
	var (
		p       Project
		created string
	)
	if err := scan(&p.ID, &p.Name, &p.Slug, &p.ProjectDir, &p.TaskCount, &created); err != nil {
		return nil, err
	}
	t, err := db.ParseTime(created)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = t
	return &p, nil
}
