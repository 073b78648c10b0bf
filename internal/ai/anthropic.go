package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 1024

type anthropicBackend struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func (b *anthropicBackend) Name() string { return BackendAnthropic }

func (b *anthropicBackend) Generate(ctx context.Context, prompt string) (string, error) {
	if b.apiKey == "" {
		return "", missingCredentials(BackendAnthropic, "ANTHROPIC_API_KEY")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(b.apiKey),
		option.WithHTTPClient(b.http),
		// Retries are owned by Client.
		option.WithMaxRetries(0),
	}
	if b.baseURL != "" {
		opts = append(opts, option.WithBaseURL(b.baseURL))
	}
	client := anthropic.NewClient(opts...)

	ctx, cancel := context.WithTimeout(ctx, anthropicTimeout)
	defer cancel()

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: anthropicMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: plannerSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", upstreamf(BackendAnthropic, "status %d", apiErr.StatusCode)
		}
		return "", transportError(BackendAnthropic, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	if text.Len() == 0 {
		return "", upstreamf(BackendAnthropic, "response has no text content")
	}
	return text.String(), nil
}
