package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const geminiPayloadTemplate = `{"contents":[{"parts":[{"text":""}]}]}`

type geminiBackend struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func (b *geminiBackend) Name() string { return BackendGemini }

func (b *geminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	if b.apiKey == "" {
		return "", missingCredentials(BackendGemini, "GEMINI_API_KEY")
	}

	payload, err := sjson.SetBytes([]byte(geminiPayloadTemplate), "contents.0.parts.0.text", prompt)
	if err != nil {
		return "", upstreamf(BackendGemini, "build payload: %v", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(b.baseURL, "/"), b.model, url.QueryEscape(b.apiKey))

	ctx, cancel := context.WithTimeout(ctx, geminiTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", upstreamf(BackendGemini, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := doJSON(b.http, req, BackendGemini)
	if err != nil {
		return "", err
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		return "", upstreamf(BackendGemini, "response has no candidates[0].content.parts[0].text")
	}
	return text.String(), nil
}

// doJSON executes req and returns the body of a 2xx response.
func doJSON(hc *http.Client, req *http.Request, backend string) ([]byte, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return nil, transportError(backend, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(backend, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstreamf(backend, "status %d: %s", resp.StatusCode, snippet(body))
	}
	return body, nil
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
