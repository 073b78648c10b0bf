package ai

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type hfBackend struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func (b *hfBackend) Name() string { return BackendHuggingFace }

func (b *hfBackend) Generate(ctx context.Context, prompt string) (string, error) {
	if b.apiKey == "" {
		return "", missingCredentials(BackendHuggingFace, "HUGGINGFACE_API_KEY")
	}

	payload, err := sjson.SetBytes([]byte(`{}`), "inputs", prompt)
	if err != nil {
		return "", upstreamf(BackendHuggingFace, "build payload: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, hfTimeout)
	defer cancel()

	endpoint := strings.TrimRight(b.baseURL, "/") + "/models/" + b.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", upstreamf(BackendHuggingFace, "build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	body, err := doJSON(b.http, req, BackendHuggingFace)
	if err != nil {
		return "", err
	}

	// Text generation models answer with a list, some pipelines with an object.
	parsed := gjson.ParseBytes(body)
	var text gjson.Result
	switch {
	case parsed.IsArray():
		text = parsed.Get("0.generated_text")
	case parsed.IsObject():
		text = parsed.Get("generated_text")
	}
	if !text.Exists() {
		return "", upstreamf(BackendHuggingFace, "response has no generated_text")
	}
	return text.String(), nil
}
