// Package mcptools exposes task generation, project generation and raw model
// queries as MCP tools over stdio.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"project-builder-backend/internal/analytics"
	"project-builder-backend/internal/brief"
	"project-builder-backend/internal/tasks"
)

const (
	ServerName = "project-builder"

	toolGenerateTasks   = "generate_tasks"
	toolGenerateProject = "generate_project"
	toolQueryLLM        = "query_llm"
)

type TaskGenerator interface {
	Generate(ctx context.Context, brief string) []tasks.Task
}

type Querier interface {
	Query(ctx context.Context, prompt string) (string, error)
}

// Tools holds what the tool handlers call into. Recorder is optional.
type Tools struct {
	Generator   TaskGenerator
	Coordinator *brief.Coordinator
	Recorder    *brief.Recorder
	Client      Querier
	Version     string
	Log         zerolog.Logger
}

// NewServer builds an MCP server with every tool registered.
func NewServer(t *Tools) *server.MCPServer {
	s := server.NewMCPServer(ServerName, t.Version, server.WithToolCapabilities(true))

	s.AddTool(mcp.NewTool(toolGenerateTasks,
		mcp.WithDescription("Break a project brief into a short list of technical tasks"),
		mcp.WithString("brief", mcp.Required(), mcp.Description("Free-text project idea")),
	), t.handleGenerateTasks)

	s.AddTool(mcp.NewTool(toolGenerateProject,
		mcp.WithDescription("Generate tasks for a brief and scaffold a backend/frontend project named after it"),
		mcp.WithString("brief", mcp.Required(), mcp.Description("Free-text project idea, also used as the project name")),
	), t.handleGenerateProject)

	s.AddTool(mcp.NewTool(toolQueryLLM,
		mcp.WithDescription("Send a prompt to the configured language model backend"),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Prompt text")),
	), t.handleQueryLLM)

	return s
}

// ServeStdio runs the server on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func (t *Tools) handleGenerateTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := request.GetString("brief", "")
	if strings.TrimSpace(b) == "" {
		return mcp.NewToolResultError("Missing project brief."), nil
	}

	return jsonResult(t.Generator.Generate(ctx, b))
}

func (t *Tools) handleGenerateProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := request.GetString("brief", "")

	res, err := t.Coordinator.Run(ctx, b)
	if errors.Is(err, brief.ErrEmptyBrief) {
		return mcp.NewToolResultError("Missing project brief."), nil
	}
	if err != nil {
		t.Log.Error().Err(err).Str("tool", toolGenerateProject).Msg("generate project")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to generate project: %v", err)), nil
	}

	if t.Recorder != nil {
		t.Recorder.Record(ctx, analytics.Envelope{Platform: "mcp"}, res, "")
	}
	return jsonResult(res)
}

func (t *Tools) handleQueryLLM(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt := request.GetString("prompt", "")
	if prompt == "" {
		return mcp.NewToolResultError("Missing 'prompt' field."), nil
	}

	out, err := t.Client.Query(ctx, prompt)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
