package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"project-builder-backend/internal/ai"
	"project-builder-backend/internal/auth"
	"project-builder-backend/internal/brief"
	"project-builder-backend/internal/config"
	"project-builder-backend/internal/db"
	"project-builder-backend/internal/ingest"
	"project-builder-backend/internal/projects"
	"project-builder-backend/internal/scaffold"
	"project-builder-backend/internal/tasks"
)

type echoBackend struct{}

func (echoBackend) Name() string { return "echo" }

func (echoBackend) Generate(ctx context.Context, prompt string) (string, error) {
	return "- Build API\n- Write tests", nil
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.ProjectsDir = t.TempDir()
	cfg.RateLimitPerMinute = 0
	if mutate != nil {
		mutate(cfg)
	}

	dbx, err := db.Connect(db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := dbx.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() { dbx.Close() })

	client := ai.NewClient(ai.Settings{}, ai.WithBackend(echoBackend{}))
	gen := tasks.NewGenerator(client, zerolog.Nop())

	h := NewHandler(Deps{
		Config:      cfg,
		DB:          dbx,
		Client:      client,
		Generator:   gen,
		Tasks:       tasks.NewStore(dbx),
		Coordinator: brief.NewCoordinator(gen, scaffold.New(cfg.ProjectsDir)),
		Projects:    projects.NewStore(dbx),
		Documents:   ingest.NewStore(dbx),
		Extractor:   ingest.OCR{TesseractPath: cfg.TesseractPath, PdfToTextPath: cfg.PdfToTextPath},
		Log:         zerolog.Nop(),
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestRoot(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "AI Agent Backend is running!" {
		t.Errorf("message = %q", body["message"])
	}

	health, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer health.Body.Close()
	b, _ := io.ReadAll(health.Body)
	if string(b) != "OK" {
		t.Errorf("/health = %q", b)
	}
}

func TestBriefPipelineOverHTTP(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/brief/", "application/json", strings.NewReader(`{"brief":"Pet Clinic"}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}

	var res struct {
		Tasks []tasks.Task `json:"tasks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Tasks) != 2 || res.Tasks[0].Name != "Build API" {
		t.Errorf("tasks = %+v", res.Tasks)
	}

	list, err := http.Get(srv.URL + "/api/projects/pet-clinic")
	if err != nil {
		t.Fatalf("GET project failed: %v", err)
	}
	list.Body.Close()
	if list.StatusCode != http.StatusOK {
		t.Errorf("project lookup status = %d", list.StatusCode)
	}

	zip, err := http.Get(srv.URL + "/api/brief/download/pet-clinic")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	zip.Body.Close()
	if zip.Header.Get("Content-Type") != "application/zip" {
		t.Errorf("download Content-Type = %q", zip.Header.Get("Content-Type"))
	}
}

func TestTasksRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/tasks/generate", "application/json", strings.NewReader(`{"brief":"x"}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	for _, path := range []string{"/api/tasks/", "/api/tasks"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		var list []tasks.StoredTask
		_ = json.NewDecoder(resp.Body).Decode(&list)
		resp.Body.Close()
		if len(list) != 2 {
			t.Errorf("GET %s returned %d tasks, want 2", path, len(list))
		}
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/llm/query", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight failed: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	req.Header.Set("Origin", "http://evil.test")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin for unknown origin = %q, want none", got)
	}
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) { c.RateLimitPerMinute = 2 })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/health")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}
}

func TestAuthGuardsAPI(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) { c.JWTSecret = "s3cret" })

	resp, err := http.Get(srv.URL + "/api/tasks/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", resp.StatusCode)
	}

	token, _ := auth.GenerateToken([]byte("s3cret"), "tester", time.Hour)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/tasks/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status with token = %d, want 200", resp.StatusCode)
	}

	health, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("/health status = %d, want open", health.StatusCode)
	}
}

func TestRateLimiter_PrunesIdleClients(t *testing.T) {
	l := newRateLimiter(5)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	now = now.Add(idleLimiterTTL + time.Minute)
	l.allow("10.0.0.2")

	if _, ok := l.clients["10.0.0.1"]; ok {
		t.Error("idle client limiter was not pruned")
	}
	if len(l.clients) != 1 {
		t.Errorf("clients = %d, want 1", len(l.clients))
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), 4, zerolog.Nop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
