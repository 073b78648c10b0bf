// Package tasks turns a project brief into a task list and keeps the
// generated tasks in project_tasks.
package tasks

import (
	"context"

	"github.com/rs/zerolog"

	"project-builder-backend/internal/ai"
)

// Querier is the model client the generator depends on.
type Querier interface {
	Query(ctx context.Context, prompt string) (string, error)
}

// Generator asks the model for a task list and degrades to Fallback.
type Generator struct {
	client Querier
	log    zerolog.Logger
}

// NewGenerator returns a Generator. client may be nil, in which case every
// call returns Fallback.
func NewGenerator(client Querier, log zerolog.Logger) *Generator {
	return &Generator{client: client, log: log}
}

// Generate blocks until the model answers or fails. It never returns an
// empty list: model errors of any kind, and answers with no usable lines,
// yield Fallback.
func (g *Generator) Generate(ctx context.Context, brief string) []Task {
	if g.client == nil {
		g.log.Info().Msg("no model client configured, using fallback tasks")
		return Fallback()
	}

	text, err := g.client.Query(ctx, ai.BuildTaskPrompt(brief))
	if err != nil {
		g.log.Warn().
			Err(err).
			Str("kind", string(ai.KindOf(err))).
			Msg("task generation failed, using fallback tasks")
		return Fallback()
	}

	parsed := Parse(text)
	if len(parsed) == 0 {
		g.log.Warn().Msg("model answer had no tasks, using fallback tasks")
		return Fallback()
	}
	return parsed
}
