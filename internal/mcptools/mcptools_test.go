package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"project-builder-backend/internal/brief"
	"project-builder-backend/internal/scaffold"
	"project-builder-backend/internal/tasks"
)

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, b string) []tasks.Task {
	return []tasks.Task{{Name: "Plan " + b, Description: "Task for Plan " + b, AssignedTo: tasks.AssignedAuto}}
}

type stubQuerier struct {
	out string
	err error
}

func (s stubQuerier) Query(ctx context.Context, prompt string) (string, error) {
	return s.out + prompt, s.err
}

func newTools(t *testing.T) *Tools {
	t.Helper()
	return &Tools{
		Generator:   stubGenerator{},
		Coordinator: brief.NewCoordinator(stubGenerator{}, scaffold.New(t.TempDir())),
		Client:      stubQuerier{out: "echo: "},
		Version:     "test",
		Log:         zerolog.Nop(),
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func TestGenerateTasksTool(t *testing.T) {
	tools := newTools(t)

	res, err := tools.handleGenerateTasks(context.Background(), callRequest(map[string]any{"brief": "Shop"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var got []tasks.Task
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("result is not a task list: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Plan Shop" {
		t.Errorf("tasks = %+v", got)
	}
}

type recordingGenerator struct {
	briefs []string
}

func (g *recordingGenerator) Generate(ctx context.Context, b string) []tasks.Task {
	g.briefs = append(g.briefs, b)
	return tasks.Fallback()
}

func TestGenerateTasksTool_PassesBriefUnchanged(t *testing.T) {
	gen := &recordingGenerator{}
	tools := newTools(t)
	tools.Generator = gen

	if _, err := tools.handleGenerateTasks(context.Background(), callRequest(map[string]any{"brief": "  Shop \n"})); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(gen.briefs) != 1 || gen.briefs[0] != "  Shop \n" {
		t.Errorf("generator got %q, want the brief as sent", gen.briefs)
	}
}

func TestGenerateTasksTool_MissingBrief(t *testing.T) {
	tools := newTools(t)

	res, err := tools.handleGenerateTasks(context.Background(), callRequest(map[string]any{"brief": "  "}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Error("expected a tool error for a blank brief")
	}
}

func TestGenerateProjectTool(t *testing.T) {
	tools := newTools(t)

	res, err := tools.handleGenerateProject(context.Background(), callRequest(map[string]any{"brief": "Pet Clinic"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var got struct {
		ProjectDir string       `json:"project_dir"`
		Tasks      []tasks.Task `json:"tasks"`
		Message    string       `json:"message"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if got.Message != brief.SuccessMessage {
		t.Errorf("message = %q", got.Message)
	}
	if filepath.Base(got.ProjectDir) != "pet-clinic" {
		t.Errorf("project_dir = %q", got.ProjectDir)
	}
	if _, err := os.Stat(filepath.Join(got.ProjectDir, "backend", "main.py")); err != nil {
		t.Errorf("backend/main.py not written: %v", err)
	}
}

func TestGenerateProjectTool_MissingBrief(t *testing.T) {
	tools := newTools(t)

	res, err := tools.handleGenerateProject(context.Background(), callRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "Missing project brief") {
		t.Errorf("expected missing brief error, got %+v", res)
	}
}

func TestQueryLLMTool(t *testing.T) {
	tools := newTools(t)

	res, err := tools.handleQueryLLM(context.Background(), callRequest(map[string]any{"prompt": "hi"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := resultText(t, res); got != "echo: hi" {
		t.Errorf("text = %q, want %q", got, "echo: hi")
	}

	tools.Client = stubQuerier{err: errors.New("llm upstream_failure (gemini): boom")}
	res, err = tools.handleQueryLLM(context.Background(), callRequest(map[string]any{"prompt": "hi"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "boom") {
		t.Errorf("expected tool error carrying the model error, got %+v", res)
	}
}

func TestNewServer(t *testing.T) {
	if s := NewServer(newTools(t)); s == nil {
		t.Fatal("NewServer returned nil")
	}
}
