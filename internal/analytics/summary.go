package analytics

import (
	"context"
	"fmt"

	"project-builder-backend/internal/db"
)

// Summary is the per-event count across the whole log.
type Summary struct {
	Total  int            `json:"total"`
	Events map[string]int `json:"events"`
}

// Summarize counts stored events by name.
func Summarize(ctx context.Context, dbx *db.DB) (*Summary, error) {
	rows, err := dbx.QueryContext(ctx, `
		SELECT event_name, COUNT(*)
		FROM analytics_events
		GROUP BY event_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query event counts: %w", err)
	}
	defer rows.Close()

	s := &Summary{Events: map[string]int{}}
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		s.Events[name] = count
		s.Total += count
	}
	return s, rows.Err()
}
