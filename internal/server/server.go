// Package server assembles the HTTP API and runs it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"

	"project-builder-backend/internal/ai"
	"project-builder-backend/internal/analytics"
	"project-builder-backend/internal/auth"
	"project-builder-backend/internal/brief"
	"project-builder-backend/internal/config"
	"project-builder-backend/internal/db"
	"project-builder-backend/internal/ingest"
	"project-builder-backend/internal/projects"
	"project-builder-backend/internal/tasks"
)

const shutdownTimeout = 10 * time.Second

// Deps are the components the routes are served from.
type Deps struct {
	Config      *config.Config
	DB          *db.DB
	Client      *ai.Client
	Generator   *tasks.Generator
	Tasks       *tasks.Store
	Coordinator *brief.Coordinator
	Projects    *projects.Store
	Documents   *ingest.Store
	Extractor   ingest.Extractor
	Log         zerolog.Logger
}

// NewHandler returns the full middleware chain around the route table.
func NewHandler(d Deps) http.Handler {
	cfg := d.Config

	api := http.NewServeMux()

	rec := brief.Recorder{Projects: d.Projects, DB: d.DB, Log: d.Log}
	api.HandleFunc("POST /api/brief", brief.GenerateHandler(d.Coordinator, rec, d.Log))
	api.HandleFunc("POST /api/brief/{$}", brief.GenerateHandler(d.Coordinator, rec, d.Log))
	api.HandleFunc("GET /api/brief/download/{name}", brief.DownloadHandler(cfg.ProjectsDir, d.Log))

	api.HandleFunc("POST /api/tasks/generate", tasks.GenerateHandler(d.Generator, d.Tasks, d.Log))
	api.HandleFunc("GET /api/tasks/{$}", tasks.ListHandler(d.Tasks))
	api.HandleFunc("GET /api/tasks", tasks.ListHandler(d.Tasks))

	api.HandleFunc("POST /api/llm/query", ai.QueryHandler(d.Client, d.Log))

	api.HandleFunc("POST /api/ingest/upload",
		ingest.UploadHandler(d.Extractor, d.Documents, cfg.MaxUploadBytes(), d.DB, d.Log))
	api.HandleFunc("GET /api/ingest/documents/{id}", ingest.DocumentHandler(d.Documents))

	api.HandleFunc("GET /api/projects", projects.ListHandler(d.Projects))
	api.HandleFunc("GET /api/projects/{slug}", projects.GetHandler(d.Projects))

	api.HandleFunc("GET /api/analytics/summary", analytics.SummaryHandler(d.DB))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "AI Agent Backend is running!"})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	mux.Handle("/api/", auth.New([]byte(cfg.JWTSecret)).Wrap(api))

	limiter := newRateLimiter(cfg.RateLimitPerMinute)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return requestLogger(d.Log, c.Handler(limiter.Wrap(mux)))
}

// Serve listens on addr and serves h until ctx is cancelled, then shuts
// down gracefully. maxConns <= 0 means no connection cap.
func Serve(ctx context.Context, addr string, h http.Handler, maxConns int, log zerolog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if maxConns > 0 {
		ln = netutil.LimitListener(ln, maxConns)
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	log.Info().Str("addr", ln.Addr().String()).Int("max_connections", maxConns).Msg("API server is running")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
