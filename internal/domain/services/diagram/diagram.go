// Package diagram implements the Diagram Renderer: canonicalisation, a concurrent-safe
// cache keyed on (source, dialect, rendererVersion), single-flight collapse of concurrent
// identical requests, and a render-with-retry call against the configured rendering
// endpoint.
package diagram

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
	"github.com/deckforge/deckforge/internal/domain/services/retry"
)

// MaxSourceBytes is the refusal threshold for diagram source text.
const MaxSourceBytes = 16 * 1024

// MaxOutputBytes is the cap on a rendered diagram image.
const MaxOutputBytes = 4 * 1024 * 1024

// RendererVersion is mixed into the cache key so a renderer upgrade invalidates old entries.
const RendererVersion = "v1"

// RenderedImage is a rasterised diagram, as returned to the orchestrator for placement.
type RenderedImage struct {
	Bytes  []byte
	MIME   string
	Width  int
	Height int
}

type cacheEntry struct {
	image    RenderedImage
	storedAt time.Time
	hits     int
	lastHit  time.Time
}

// Renderer is the concurrent-safe, single-flighted diagram render pipeline.
type Renderer struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	maxSize int
	ttl     time.Duration

	endpoint ports.DiagramRenderEndpoint
	jitterer ports.Jitterer
	clock    ports.TimeProvider

	group singleflight.Group
}

// NewRenderer constructs a Renderer. maxSize<=0 means unbounded; ttl<=0 means entries never
// expire on their own (only LRU eviction at capacity reclaims them).
func NewRenderer(endpoint ports.DiagramRenderEndpoint, jitterer ports.Jitterer, clock ports.TimeProvider, maxSize int, ttl time.Duration) *Renderer {
	if clock == nil {
		clock = ports.NewRealTimeProvider()
	}
	return &Renderer{
		entries:  make(map[string]*cacheEntry),
		maxSize:  maxSize,
		ttl:      ttl,
		endpoint: endpoint,
		jitterer: jitterer,
		clock:    clock,
	}
}

// Render converts textual diagram source to an image, consulting the cache first and
// collapsing concurrent identical requests into a single upstream call.
func (r *Renderer) Render(ctx context.Context, source string, dialect entities.DiagramDialect) (RenderedImage, error) {
	canonical := Canonicalize(source)
	if len(canonical) > MaxSourceBytes {
		return RenderedImage{}, entities.NewDeckError(entities.EDiagramTooLarge,
			fmt.Sprintf("diagram source is %d bytes, exceeding the %d byte limit", len(canonical), MaxSourceBytes))
	}

	key := CacheKey(canonical, dialect)
	if img, ok := r.get(key); ok {
		return img, nil
	}

	result, err, _ := r.group.Do(key, func() (any, error) {
		if img, ok := r.get(key); ok {
			return img, nil
		}

		var rendered []byte
		renderErr := retry.Do(ctx, r.clock.Sleep, r.jitterer, nil, func(ctx context.Context, attempt int) error {
			out, err := r.endpoint.Render(ctx, canonical, dialect)
			if err != nil {
				return classifyTransportError(err)
			}
			rendered = out
			return nil
		})
		if renderErr != nil {
			return RenderedImage{}, renderErr
		}

		if len(rendered) > MaxOutputBytes {
			return RenderedImage{}, entities.NewDeckError(entities.EDiagramTooLarge,
				fmt.Sprintf("rendered diagram is %d bytes, exceeding the %d byte limit", len(rendered), MaxOutputBytes))
		}

		img := RenderedImage{Bytes: rendered, MIME: detectMIME(rendered)}
		if cfg, _, decodeErr := image.DecodeConfig(bytes.NewReader(rendered)); decodeErr == nil {
			img.Width, img.Height = cfg.Width, cfg.Height
		}

		r.set(key, img)
		return img, nil
	})
	if err != nil {
		return RenderedImage{}, err
	}
	return result.(RenderedImage), nil
}

// classifyTransportError translates a raw endpoint error into the EDiagramRenderer kind,
// preserving any already-classified DeckError's retryability.
func classifyTransportError(err error) error {
	if de := entities.KindOf(err); de != "" {
		return err
	}
	return entities.Wrap(entities.EDiagramRenderer, "diagram render request failed", err).AsRetryable()
}

func detectMIME(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(data)
}

// Canonicalize normalises line endings and strips per-line leading/trailing whitespace so
// equivalent sources produce the same cache key.
func Canonicalize(source string) string {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

// CacheKey derives the diagram cache key from its canonicalised inputs.
func CacheKey(canonicalSource string, dialect entities.DiagramDialect) string {
	h := sha256.New()
	h.Write([]byte(RendererVersion))
	h.Write([]byte{0})
	h.Write([]byte(dialect))
	h.Write([]byte{0})
	h.Write([]byte(canonicalSource))
	return hex.EncodeToString(h.Sum(nil))
}

func (r *Renderer) get(key string) (RenderedImage, bool) {
	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return RenderedImage{}, false
	}

	if r.ttl > 0 && r.clock.Since(entry.storedAt) > r.ttl {
		r.mu.Lock()
		delete(r.entries, key)
		r.mu.Unlock()
		return RenderedImage{}, false
	}

	r.mu.Lock()
	entry.hits++
	entry.lastHit = r.clock.Now()
	r.mu.Unlock()
	return entry.image, true
}

func (r *Renderer) set(key string, img RenderedImage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSize > 0 && len(r.entries) >= r.maxSize {
		r.evictLRULocked()
	}
	now := r.clock.Now()
	r.entries[key] = &cacheEntry{image: img, storedAt: now, lastHit: now}
}

func (r *Renderer) evictLRULocked() {
	var evictKey string
	var oldest time.Time
	for key, entry := range r.entries {
		if evictKey == "" || entry.lastHit.Before(oldest) {
			evictKey = key
			oldest = entry.lastHit
		}
	}
	if evictKey != "" {
		delete(r.entries, evictKey)
	}
}

// Stats reports cache occupancy and hit count.
func (r *Renderer) Stats() entities.CacheStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := entities.CacheStats{Size: len(r.entries), MaxSize: r.maxSize}
	var hits int64
	for _, entry := range r.entries {
		hits += int64(entry.hits)
	}
	stats.Hits = hits
	return stats
}
