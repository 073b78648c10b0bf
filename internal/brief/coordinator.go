// Package brief runs the brief-to-project pipeline: task generation
// followed by scaffolding.
package brief

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"project-builder-backend/internal/scaffold"
	"project-builder-backend/internal/tasks"
)

// SuccessMessage is set on every successful Result.
const SuccessMessage = "Project generated successfully"

// ErrEmptyBrief is returned for a blank brief.
var ErrEmptyBrief = errors.New("empty project brief")

type TaskGenerator interface {
	Generate(ctx context.Context, brief string) []tasks.Task
}

type Scaffolder interface {
	Scaffold(projectName string) (*scaffold.Result, error)
}

// Result is the scaffold result plus the tasks and run metadata.
type Result struct {
	scaffold.Result
	Tasks       []tasks.Task `json:"tasks"`
	Message     string       `json:"message"`
	GeneratedAt string       `json:"generated_at"`
}

type Coordinator struct {
	tasks      TaskGenerator
	scaffolder Scaffolder
	now        func() time.Time
}

func NewCoordinator(gen TaskGenerator, sc Scaffolder) *Coordinator {
	return &Coordinator{tasks: gen, scaffolder: sc, now: time.Now}
}

// Run generates tasks for brief, then scaffolds a project named by the
// brief. Task generation cannot fail; scaffold errors are returned as is.
func (c *Coordinator) Run(ctx context.Context, brief string) (*Result, error) {
	if strings.TrimSpace(brief) == "" {
		return nil, ErrEmptyBrief
	}

	generated := c.tasks.Generate(ctx, brief)

	project, err := c.scaffolder.Scaffold(brief)
	if err != nil {
		return nil, fmt.Errorf("scaffold project: %w", err)
	}

	return &Result{
		Result:      *project,
		Tasks:       generated,
		Message:     SuccessMessage,
		GeneratedAt: c.now().UTC().Format(scaffold.TimestampLayout),
	}, nil
}
