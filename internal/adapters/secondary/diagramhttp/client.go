// Package diagramhttp implements ports.DiagramRenderEndpoint against an upstream HTTP
// rendering service: POST {source,dialect,outputFormat} -> image bytes, bearer auth.
package diagramhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// DefaultTimeout is applied to every render request unless Config.Timeout overrides it.
const DefaultTimeout = 10 * time.Second

// DefaultOutputFormat is requested from the upstream when Config.OutputFormat is unset.
const DefaultOutputFormat = "png"

// Config configures a Client.
type Config struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	OutputFormat string
}

// Client is an HTTP-backed ports.DiagramRenderEndpoint.
type Client struct {
	baseURL      string
	apiKey       string
	outputFormat string
	httpClient   *http.Client
}

// New constructs a Client, applying DefaultTimeout/DefaultOutputFormat when unset.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	format := cfg.OutputFormat
	if format == "" {
		format = DefaultOutputFormat
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		outputFormat: format,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type renderRequest struct {
	Source       string `json:"source"`
	Dialect      string `json:"dialect"`
	OutputFormat string `json:"outputFormat"`
}

// Render performs a single render attempt; it does not retry (the caller applies the
// shared backoff/classification policy around this method).
func (c *Client) Render(ctx context.Context, source string, dialect entities.DiagramDialect) ([]byte, error) {
	body, err := json.Marshal(renderRequest{Source: source, Dialect: string(dialect), OutputFormat: c.outputFormat})
	if err != nil {
		return nil, entities.Wrap(entities.EDiagramRenderer, "encoding render request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, entities.Wrap(entities.EDiagramRenderer, "building render request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/*")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, entities.Wrap(entities.ECancelled, "render request cancelled", ctx.Err())
		}
		return nil, entities.Wrap(entities.EDiagramRenderer, "render request failed", err).AsRetryable()
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32*1024*1024))
	if err != nil {
		return nil, entities.Wrap(entities.EDiagramRenderer, "reading render response", err).AsRetryable()
	}

	return classifyStatus(resp.StatusCode, data)
}

// classifyStatus maps an HTTP status code to the error taxonomy, matching the Slide API
// Client's Transient/Permanent/Auth split: network timeouts and 5xx/429 are retryable,
// 401/403 are Auth, other 4xx are Permanent.
func classifyStatus(status int, body []byte) ([]byte, error) {
	switch {
	case status >= 200 && status < 300:
		return body, nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, entities.NewDeckError(entities.EAuth, fmt.Sprintf("diagram endpoint returned %d", status))
	case status == http.StatusTooManyRequests:
		return nil, entities.NewDeckError(entities.ERateLimited, "diagram endpoint rate limit exceeded")
	case status >= 500:
		return nil, entities.NewDeckError(entities.EDiagramRenderer, fmt.Sprintf("diagram endpoint returned %d", status)).AsRetryable()
	default:
		return nil, entities.NewDeckError(entities.EDiagramRenderer, fmt.Sprintf("diagram endpoint returned %d: %s", status, string(body)))
	}
}
