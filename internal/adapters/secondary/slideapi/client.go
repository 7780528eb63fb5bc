// Package slideapi implements ports.SlideAPIClient against an upstream HTTP presentation
// API: retry/backoff with Transient/Permanent/Auth classification, rate-awareness
// counters, and per-element failure reporting left to the caller (every method returns
// its own error rather than aborting a batch).
package slideapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
	"github.com/deckforge/deckforge/internal/domain/services/retry"
)

// DefaultTimeout is applied to every request unless Config.Timeout overrides it.
const DefaultTimeout = 15 * time.Second

// rateGuardPause is inserted between calls once usage crosses 90% of a configured limit.
const rateGuardPause = 200 * time.Millisecond

// TokenRefresher re-authenticates and returns a fresh bearer token. It is invoked at most
// once per retry.Do call, after a 401/403 response.
type TokenRefresher func(ctx context.Context) (string, error)

// Config configures a Client.
type Config struct {
	BaseURL        string
	Token          string
	Refresh        TokenRefresher
	PerMinuteLimit int
	PerDayLimit    int
	MaxBatchSize   int
	Timeout        time.Duration
	SupportsCharts bool
}

// Client is an HTTP-backed ports.SlideAPIClient.
type Client struct {
	mu    sync.Mutex
	token string

	baseURL        string
	refresh        TokenRefresher
	perMinuteLimit int
	perDayLimit    int
	maxBatchSize   int
	supportsCharts bool

	httpClient *http.Client
	clock      ports.TimeProvider
	jitterer   ports.Jitterer

	minuteCalls []time.Time
	dayCalls    []time.Time
}

// New constructs a Client.
func New(cfg Config, clock ports.TimeProvider, jitterer ports.Jitterer) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if clock == nil {
		clock = ports.NewRealTimeProvider()
	}
	return &Client{
		token:          cfg.Token,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		refresh:        cfg.Refresh,
		perMinuteLimit: cfg.PerMinuteLimit,
		perDayLimit:    cfg.PerDayLimit,
		maxBatchSize:   cfg.MaxBatchSize,
		supportsCharts: cfg.SupportsCharts,
		httpClient:     &http.Client{Timeout: timeout},
		clock:          clock,
		jitterer:       jitterer,
	}
}

var _ ports.SlideAPIClient = (*Client)(nil)

// SupportsCharts reports whether this upstream accepts a structured chart spec directly.
func (c *Client) SupportsCharts() bool { return c.supportsCharts }

// --- rate awareness -------------------------------------------------------------------

func evictBefore(times []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(times) && times[i].Before(cutoff) {
		i++
	}
	return times[i:]
}

// rateGuard records this call and pauses (or refuses) when usage nears or exceeds the
// configured windows, mirroring a sliding-window request log.
func (c *Client) rateGuard(ctx context.Context) error {
	c.mu.Lock()
	now := c.clock.Now()
	c.minuteCalls = evictBefore(c.minuteCalls, now.Add(-time.Minute))
	c.dayCalls = evictBefore(c.dayCalls, now.Add(-24*time.Hour))

	minuteExceeded := c.perMinuteLimit > 0 && len(c.minuteCalls) >= c.perMinuteLimit
	dayExceeded := c.perDayLimit > 0 && len(c.dayCalls) >= c.perDayLimit
	minuteNear := c.perMinuteLimit > 0 && float64(len(c.minuteCalls)) >= float64(c.perMinuteLimit)*0.9
	dayNear := c.perDayLimit > 0 && float64(len(c.dayCalls)) >= float64(c.perDayLimit)*0.9

	if !minuteExceeded && !dayExceeded {
		c.minuteCalls = append(c.minuteCalls, now)
		c.dayCalls = append(c.dayCalls, now)
	}
	c.mu.Unlock()

	if minuteExceeded {
		return (&entities.DeckError{Kind: entities.ERateLimited, Message: "per-minute call quota exceeded", RetryAfter: 60}).AsRetryable()
	}
	if dayExceeded {
		return (&entities.DeckError{Kind: entities.ERateLimited, Message: "per-day call quota exceeded", RetryAfter: 3600}).AsRetryable()
	}
	if minuteNear || dayNear {
		select {
		case <-ctx.Done():
			return entities.Wrap(entities.ECancelled, "context cancelled during rate-limit pause", ctx.Err())
		default:
			c.clock.Sleep(rateGuardPause)
		}
	}
	return nil
}

// --- transport -------------------------------------------------------------------------

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, respBody any) error {
	var bodyReader io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return entities.Wrap(entities.EUpstreamPermanent, "encoding request body", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return entities.Wrap(entities.EUpstreamPermanent, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return entities.Wrap(entities.ECancelled, "request cancelled", ctx.Err())
		}
		return entities.Wrap(entities.EUpstreamTransient, "request failed", err).AsRetryable()
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024*1024))
	if err != nil {
		return entities.Wrap(entities.EUpstreamTransient, "reading response", err).AsRetryable()
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if respBody != nil && len(data) > 0 {
			if err := json.Unmarshal(data, respBody); err != nil {
				return entities.Wrap(entities.EUpstreamPermanent, "decoding response", err)
			}
		}
		return nil
	}
	return classifyStatus(resp.StatusCode, resp.Header.Get("Retry-After"), data)
}

func classifyStatus(status int, retryAfterHeader string, body []byte) error {
	msg := string(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return entities.NewDeckError(entities.EAuth, fmt.Sprintf("upstream returned %d: %s", status, msg))
	case status == http.StatusTooManyRequests:
		retryAfter := 60.0
		if secs, err := strconv.ParseFloat(retryAfterHeader, 64); err == nil {
			retryAfter = secs
		}
		return (&entities.DeckError{Kind: entities.ERateLimited, Message: "rate limited by upstream", RetryAfter: retryAfter}).AsRetryable()
	case status >= 500:
		return entities.NewDeckError(entities.EUpstreamTransient, fmt.Sprintf("upstream returned %d: %s", status, msg)).AsRetryable()
	case strings.Contains(strings.ToLower(msg), "quota exceeded") || strings.Contains(strings.ToLower(msg), "rate limit"):
		return (&entities.DeckError{Kind: entities.ERateLimited, Message: "rate limited by upstream", RetryAfter: 60}).AsRetryable()
	default:
		return entities.NewDeckError(entities.EUpstreamPermanent, fmt.Sprintf("upstream returned %d: %s", status, msg))
	}
}

// call runs op through the shared retry policy, re-authenticating once on an Auth failure.
func (c *Client) call(ctx context.Context, op retry.Op) error {
	if err := c.rateGuard(ctx); err != nil {
		return err
	}
	return retry.Do(ctx, c.clock.Sleep, c.jitterer, c.reauth, op)
}

func (c *Client) reauth(ctx context.Context) error {
	if c.refresh == nil {
		return entities.NewDeckError(entities.EAuth, "no token refresher configured")
	}
	token, err := c.refresh(ctx)
	if err != nil {
		return entities.Wrap(entities.EAuth, "re-authentication failed", err)
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// --- deck/slide operations ---------------------------------------------------------------

type createDeckRequest struct {
	Title string `json:"title"`
}

type createDeckResponse struct {
	DeckID string `json:"deckId"`
	URL    string `json:"url"`
}

// CreateDeck creates a new, empty deck and returns its id and editor URL.
func (c *Client) CreateDeck(ctx context.Context, title string) (string, string, error) {
	var resp createDeckResponse
	err := c.call(ctx, func(ctx context.Context, attempt int) error {
		return c.doJSON(ctx, http.MethodPost, "/decks", createDeckRequest{Title: title}, &resp)
	})
	if err != nil {
		return "", "", err
	}
	return resp.DeckID, resp.URL, nil
}

type appendSlideResponse struct {
	SlideID string `json:"slideId"`
}

// AppendSlide appends a blank slide to a deck and returns its id.
func (c *Client) AppendSlide(ctx context.Context, deckID string) (string, error) {
	var resp appendSlideResponse
	err := c.call(ctx, func(ctx context.Context, attempt int) error {
		return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/decks/%s/slides", deckID), nil, &resp)
	})
	if err != nil {
		return "", err
	}
	return resp.SlideID, nil
}

type setTitleRequest struct {
	Title string `json:"title"`
}

// SetTitle sets a slide's title text.
func (c *Client) SetTitle(ctx context.Context, deckID, slideID, title string) error {
	return c.call(ctx, func(ctx context.Context, attempt int) error {
		return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/decks/%s/slides/%s/title", deckID, slideID), setTitleRequest{Title: title}, nil)
	})
}

type insertTextBoxRequest struct {
	Box   entities.AbsoluteBox      `json:"box"`
	Text  string                    `json:"text"`
	Style entities.ResolvedTextStyle `json:"style"`
}

type elementResponse struct {
	ElementID string `json:"elementId"`
}

// InsertTextBox inserts a styled text run at the given box and returns its element id.
func (c *Client) InsertTextBox(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, text string, style entities.ResolvedTextStyle) (string, error) {
	var resp elementResponse
	err := c.call(ctx, func(ctx context.Context, attempt int) error {
		return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/decks/%s/slides/%s/textboxes", deckID, slideID),
			insertTextBoxRequest{Box: box, Text: text, Style: style}, &resp)
	})
	if err != nil {
		return "", err
	}
	return resp.ElementID, nil
}

type insertImageRequest struct {
	Box  entities.AbsoluteBox `json:"box"`
	Data []byte               `json:"data"`
	Alt  string               `json:"alt"`
}

// InsertImage inserts image bytes at the given box and returns its element id.
func (c *Client) InsertImage(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, data []byte, alt string) (string, error) {
	var resp elementResponse
	err := c.call(ctx, func(ctx context.Context, attempt int) error {
		return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/decks/%s/slides/%s/images", deckID, slideID),
			insertImageRequest{Box: box, Data: data, Alt: alt}, &resp)
	})
	if err != nil {
		return "", err
	}
	return resp.ElementID, nil
}

type insertShapeRequest struct {
	Box   entities.AbsoluteBox `json:"box"`
	Shape entities.ShapeKind   `json:"shape"`
	Fill  string               `json:"fill"`
}

// InsertShape inserts a filled shape at the given box and returns its element id.
func (c *Client) InsertShape(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, shape entities.ShapeKind, fill string) (string, error) {
	var resp elementResponse
	err := c.call(ctx, func(ctx context.Context, attempt int) error {
		return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/decks/%s/slides/%s/shapes", deckID, slideID),
			insertShapeRequest{Box: box, Shape: shape, Fill: fill}, &resp)
	})
	if err != nil {
		return "", err
	}
	return resp.ElementID, nil
}

type insertTableRequest struct {
	Box     entities.AbsoluteBox `json:"box"`
	Headers []string             `json:"headers"`
	Rows    [][]entities.Cell    `json:"rows"`
}

// InsertTable inserts a table at the given box and returns its element id.
func (c *Client) InsertTable(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, headers []string, rows [][]entities.Cell) (string, error) {
	var resp elementResponse
	err := c.call(ctx, func(ctx context.Context, attempt int) error {
		return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/decks/%s/slides/%s/tables", deckID, slideID),
			insertTableRequest{Box: box, Headers: headers, Rows: rows}, &resp)
	})
	if err != nil {
		return "", err
	}
	return resp.ElementID, nil
}

type insertChartSpecRequest struct {
	Box       entities.AbsoluteBox `json:"box"`
	ChartType entities.ChartKind   `json:"chartType"`
	Data      [][]any              `json:"data"`
	Options   map[string]any       `json:"options,omitempty"`
}

// InsertChartSpec inserts a structured chart spec directly, when SupportsCharts is true.
func (c *Client) InsertChartSpec(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, chartType entities.ChartKind, data [][]any, options map[string]any) (string, error) {
	var resp elementResponse
	err := c.call(ctx, func(ctx context.Context, attempt int) error {
		return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/decks/%s/slides/%s/charts", deckID, slideID),
			insertChartSpecRequest{Box: box, ChartType: chartType, Data: data, Options: options}, &resp)
	})
	if err != nil {
		return "", err
	}
	return resp.ElementID, nil
}

type deckInfoResponse struct {
	DeckID     string `json:"deckId"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	SlideCount int    `json:"slideCount"`
}

// GetDeckInfo fetches metadata about a previously created deck.
func (c *Client) GetDeckInfo(ctx context.Context, deckID string) (ports.DeckInfo, error) {
	var resp deckInfoResponse
	err := c.call(ctx, func(ctx context.Context, attempt int) error {
		return c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/decks/%s", deckID), nil, &resp)
	})
	if err != nil {
		return ports.DeckInfo{}, err
	}
	return ports.DeckInfo{DeckID: resp.DeckID, Title: resp.Title, URL: resp.URL, SlideCount: resp.SlideCount}, nil
}
