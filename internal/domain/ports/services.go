package ports

import (
	"context"
	"math/rand"
	"sync"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// SlideAPIClient is the thin wrapper over the upstream presentation API. Every method
// classifies its failures into entities.DeckError kinds (EUpstreamTransient,
// EUpstreamPermanent, EAuth, ERateLimited) so the shared retry policy (applied inside the
// client) and the orchestrator's abort classification can act on them uniformly.
type SlideAPIClient interface {
	// CreateDeck creates a new, empty deck and returns its id and editor URL.
	CreateDeck(ctx context.Context, title string) (deckID, url string, err error)

	// AppendSlide appends a blank slide to a deck and returns its id.
	AppendSlide(ctx context.Context, deckID string) (slideID string, err error)

	// SetTitle sets a slide's title text.
	SetTitle(ctx context.Context, deckID, slideID, title string) error

	// InsertTextBox inserts a styled text run at the given box and returns its element id.
	InsertTextBox(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, text string, style entities.ResolvedTextStyle) (elementID string, err error)

	// InsertImage inserts image bytes at the given box and returns its element id.
	InsertImage(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, data []byte, alt string) (elementID string, err error)

	// InsertShape inserts a filled shape at the given box and returns its element id.
	InsertShape(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, shape entities.ShapeKind, fill string) (elementID string, err error)

	// InsertTable inserts a table at the given box and returns its element id.
	InsertTable(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, headers []string, rows [][]entities.Cell) (elementID string, err error)

	// GetDeckInfo fetches metadata about a previously created deck.
	GetDeckInfo(ctx context.Context, deckID string) (DeckInfo, error)

	// SupportsCharts reports whether the upstream accepts a structured chart spec
	// directly (true) or whether charts must be rasterised to an image first (false).
	SupportsCharts() bool

	// InsertChartSpec inserts a structured chart spec directly, when SupportsCharts is true.
	InsertChartSpec(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, chartType entities.ChartKind, data [][]any, options map[string]any) (elementID string, err error)
}

// DeckInfo is upstream metadata about an existing deck.
type DeckInfo struct {
	DeckID     string
	Title      string
	URL        string
	SlideCount int
}

// DiagramRenderEndpoint renders textual diagram source to image bytes via an external
// rendering service. Caching and retries live in the caller (services/diagram.Renderer);
// an implementation performs exactly one render attempt per call.
type DiagramRenderEndpoint interface {
	Render(ctx context.Context, source string, dialect entities.DiagramDialect) ([]byte, error)
}

// Jitterer supplies the ±20% randomised jitter applied to backoff delays, kept behind a
// port so retry-policy tests are deterministic.
type Jitterer interface {
	// Jitter returns a duration within ±20% of base.
	Jitter(base float64) float64
}

// RealJitterer applies genuine ±20% randomisation via math/rand, seeded per instance (not
// the global source) so concurrent callers never contend on a shared lock more than this
// one guards.
type RealJitterer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRealJitterer constructs a RealJitterer seeded with seed.
func NewRealJitterer(seed int64) *RealJitterer {
	return &RealJitterer{rnd: rand.New(rand.NewSource(seed))}
}

// Jitter returns base scaled by a uniformly random factor in [0.8, 1.2].
func (j *RealJitterer) Jitter(base float64) float64 {
	j.mu.Lock()
	factor := 0.8 + j.rnd.Float64()*0.4
	j.mu.Unlock()
	return base * factor
}
