package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"project-builder-backend/internal/config"
)

// Backend names accepted in Settings.Backend.
const (
	BackendGemini      = "gemini"
	BackendOllama      = "ollama"
	BackendHuggingFace = "hf"
	BackendAnthropic   = "anthropic"
)

const (
	geminiTimeout    = 30 * time.Second
	ollamaTimeout    = 60 * time.Second
	hfTimeout        = 60 * time.Second
	anthropicTimeout = 60 * time.Second

	// maxResponseBytes caps how much of an upstream body is read.
	maxResponseBytes = 4 << 20
)

// Backend sends one prompt to one model provider.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Settings selects and configures the backend.
type Settings struct {
	Backend string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	HuggingFaceAPIKey  string
	HuggingFaceModel   string
	HuggingFaceBaseURL string

	OllamaURL   string
	OllamaModel string

	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
}

// SettingsFromConfig copies the model settings out of cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Backend:            cfg.LLMBackend,
		GeminiAPIKey:       cfg.GeminiAPIKey,
		GeminiModel:        cfg.GeminiModel,
		GeminiBaseURL:      cfg.GeminiBaseURL,
		HuggingFaceAPIKey:  cfg.HuggingFaceAPIKey,
		HuggingFaceModel:   cfg.HuggingFaceModel,
		HuggingFaceBaseURL: cfg.HuggingFaceBaseURL,
		OllamaURL:          cfg.OllamaURL,
		OllamaModel:        cfg.OllamaModel,
		AnthropicAPIKey:    cfg.AnthropicAPIKey,
		AnthropicModel:     cfg.AnthropicModel,
		AnthropicBaseURL:   cfg.AnthropicBaseURL,
	}
}

// newBackend resolves s.Backend. An unknown name is an UnsupportedBackend
// error; credentials are checked later, per call.
func newBackend(s Settings, hc *http.Client) (Backend, error) {
	name := strings.ToLower(strings.TrimSpace(s.Backend))
	switch name {
	case BackendGemini:
		return &geminiBackend{apiKey: s.GeminiAPIKey, model: s.GeminiModel, baseURL: s.GeminiBaseURL, http: hc}, nil
	case BackendOllama:
		return &ollamaBackend{baseURL: s.OllamaURL, model: s.OllamaModel, http: hc}, nil
	case BackendHuggingFace:
		return &hfBackend{apiKey: s.HuggingFaceAPIKey, model: s.HuggingFaceModel, baseURL: s.HuggingFaceBaseURL, http: hc}, nil
	case BackendAnthropic:
		return &anthropicBackend{apiKey: s.AnthropicAPIKey, model: s.AnthropicModel, baseURL: s.AnthropicBaseURL, http: hc}, nil
	default:
		return nil, &Error{Kind: KindUnsupportedBackend, Backend: s.Backend, Err: fmt.Errorf("unsupported LLM_BACKEND %q", s.Backend)}
	}
}
