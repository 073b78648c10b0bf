package ai

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

type ollamaBackend struct {
	baseURL string
	model   string
	http    *http.Client
}

func (b *ollamaBackend) Name() string { return BackendOllama }

func (b *ollamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	base, err := url.Parse(strings.TrimRight(b.baseURL, "/"))
	if err != nil || base.Host == "" {
		return "", upstreamf(BackendOllama, "invalid OLLAMA_URL %q", b.baseURL)
	}

	ctx, cancel := context.WithTimeout(ctx, ollamaTimeout)
	defer cancel()

	client := api.NewClient(base, b.http)
	stream := false
	req := &api.GenerateRequest{
		Model:  b.model,
		Prompt: prompt,
		System: plannerSystemPrompt,
		Stream: &stream,
	}

	var out strings.Builder
	err = client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return "", upstreamf(BackendOllama, "status %d: %s", statusErr.StatusCode, statusErr.ErrorMessage)
		}
		return "", transportError(BackendOllama, err)
	}

	if out.Len() == 0 {
		return "", upstreamf(BackendOllama, "empty response")
	}
	return out.String(), nil
}
