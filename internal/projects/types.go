package projects

import "time"

// Project is a generated project recorded in the registry.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	ProjectDir string    `json:"project_dir"`
	TaskCount  int       `json:"task_count"`
	CreatedAt  time.Time `json:"created_at"`
}
