package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"project-builder-backend/internal/db"
)

var timeNow = time.Now

// Store persists generated tasks.
type Store struct {
	db *db.DB
}

func NewStore(dbx *db.DB) *Store {
	return &Store{db: dbx}
}

// SaveAll stores tasks in one transaction, in order, all with status
// pending and the same creation time.
func (s *Store) SaveAll(ctx context.Context, tasks []Task) ([]StoredTask, error) {
	now := timeNow().UTC()
	stored := make([]StoredTask, 0, len(tasks))

	err := s.db.Transaction(ctx, func(tx *db.Tx) error {
		for i, t := range tasks {
			st := StoredTask{
				ID:          uuid.NewString(),
				Name:        t.Name,
				Description: t.Description,
				AssignedTo:  t.AssignedTo,
				Status:      StatusPending,
				CreatedAt:   now,
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO project_tasks (id, name, description, assigned_to, status, position, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, st.ID, st.Name, st.Description, st.AssignedTo, st.Status, i, db.FormatTime(now))
			if err != nil {
				return fmt.Errorf("insert task %q: %w", t.Name, err)
			}
			stored = append(stored, st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// List returns every stored task, newest batch first, each batch in
// generation order.
func (s *Store) List(ctx context.Context) ([]StoredTask, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(assigned_to, ''), status, created_at
		FROM project_tasks
		ORDER BY created_at DESC, position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	result := []StoredTask{}
	for rows.Next() {
		var (
			t       StoredTask
			created string
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.AssignedTo, &t.Status, &created); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if t.CreatedAt, err = db.ParseTime(created); err != nil {
			return nil, fmt.Errorf("parse created_at for task %s: %w", t.ID, err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
