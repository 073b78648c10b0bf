package brief

import (
	"context"

	"github.com/rs/zerolog"

	"project-builder-backend/internal/analytics"
	"project-builder-backend/internal/db"
	"project-builder-backend/internal/projects"
)

// Recorder stores the outcome of a successful run in the project registry
// and the event log. Nil stores are skipped. Failures are logged only; a
// generated project is never reported as failed because of bookkeeping.
type Recorder struct {
	Projects *projects.Store
	DB       *db.DB
	Log      zerolog.Logger
}

func (r Recorder) Record(ctx context.Context, env analytics.Envelope, res *Result, sourceEventKey string) {
	if r.Projects != nil {
		if _, err := r.Projects.Record(ctx, res.Name, res.SafeName, res.ProjectDir, len(res.Tasks)); err != nil {
			r.Log.Warn().Err(err).Str("slug", res.SafeName).Msg("record project")
		}
	}

	if r.DB != nil {
		props := map[string]any{
			"slug":       res.SafeName,
			"task_count": len(res.Tasks),
			"brief_len":  len(res.Name),
		}
		if err := analytics.Log(ctx, r.DB, env, analytics.EventProjectGenerated, props, sourceEventKey); err != nil {
			r.Log.Warn().Err(err).Str("slug", res.SafeName).Msg("log project_generated event")
		}
	}
}
