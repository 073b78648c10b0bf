// Package ai sends prompts to the configured model backend with
// memoization and fixed-delay retries.
package ai

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
)

// Client queries the backend named by its Settings. It is safe for
// concurrent use.
type Client struct {
	mu       sync.RWMutex
	settings Settings
	override Backend

	http  *http.Client
	cache *Cache
	retry RetryPolicy
	log   zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache shares a response cache between clients.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithRetry replaces DefaultRetryPolicy.
func WithRetry(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithHTTPClient sets the client used for outbound calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger for failed attempts.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithBackend bypasses Settings.Backend and always uses b.
func WithBackend(b Backend) Option {
	return func(c *Client) { c.override = b }
}

// NewClient returns a Client for s.
func NewClient(s Settings, opts ...Option) *Client {
	c := &Client{
		settings: s,
		http:     &http.Client{},
		retry:    DefaultRetryPolicy,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewCache()
	}
	return c
}

// Query returns the model's text for prompt. A cached response is returned
// without any outbound call; only successful responses are cached.
func (c *Client) Query(ctx context.Context, prompt string) (string, error) {
	if text, ok := c.cache.Get(prompt); ok {
		return text, nil
	}

	backend, err := c.backend()
	if err != nil {
		return "", err
	}

	var text string
	err = c.retry.Do(ctx, func(ctx context.Context, attempt int) error {
		out, err := backend.Generate(ctx, prompt)
		if err != nil {
			c.log.Warn().
				Err(err).
				Str("backend", backend.Name()).
				Str("kind", string(KindOf(err))).
				Int("attempt", attempt).
				Msg("llm query attempt failed")
			return err
		}
		text = out
		return nil
	})
	if err != nil {
		return "", err
	}

	c.cache.Put(prompt, text)
	return text, nil
}

// Reconfigure swaps the backend settings. Cached responses are kept.
func (c *Client) Reconfigure(s Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s
}

// Settings returns the active backend settings.
func (c *Client) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// Cache exposes the response cache.
func (c *Client) Cache() *Cache {
	return c.cache
}

func (c *Client) backend() (Backend, error) {
	if c.override != nil {
		return c.override, nil
	}
	return newBackend(c.Settings(), c.http)
}
