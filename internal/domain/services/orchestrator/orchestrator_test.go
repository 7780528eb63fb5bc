package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
	"github.com/deckforge/deckforge/internal/domain/services/diagram"
	"github.com/deckforge/deckforge/internal/domain/services/theme"
)

func newTestThemes(t *testing.T) ports.ThemeRegistry {
	t.Helper()
	reg, err := theme.NewRegistry(theme.Builtins())
	require.NoError(t, err)
	return reg
}

type fakeSlides struct {
	mu sync.Mutex

	supportsCharts  bool
	appendSlideFail map[int]bool // 0-indexed AppendSlide call number -> fail
	appendSlideErr  map[int]error
	insertTextErr   error
	createDeckErr   error

	appendCalls int
	elementSeq  int
	insertKinds []entities.ContentKind
}

func (f *fakeSlides) CreateDeck(ctx context.Context, title string) (string, string, error) {
	if f.createDeckErr != nil {
		return "", "", f.createDeckErr
	}
	return "deck-1", "https://example/deck-1", nil
}

func (f *fakeSlides) AppendSlide(ctx context.Context, deckID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.appendCalls
	f.appendCalls++
	if err := f.appendSlideErr[idx]; err != nil {
		return "", err
	}
	if f.appendSlideFail[idx] {
		return "", entities.NewDeckError(entities.EUpstreamPermanent, "append slide failed")
	}
	return fmt.Sprintf("slide-%d", idx), nil
}

func (f *fakeSlides) SetTitle(ctx context.Context, deckID, slideID, title string) error {
	return nil
}

func (f *fakeSlides) nextElementID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.elementSeq++
	return fmt.Sprintf("el-%d", f.elementSeq)
}

func (f *fakeSlides) InsertTextBox(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, text string, style entities.ResolvedTextStyle) (string, error) {
	f.mu.Lock()
	f.insertKinds = append(f.insertKinds, entities.KindText)
	f.mu.Unlock()
	if f.insertTextErr != nil {
		return "", f.insertTextErr
	}
	return f.nextElementID(), nil
}

func (f *fakeSlides) InsertImage(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, data []byte, alt string) (string, error) {
	f.mu.Lock()
	f.insertKinds = append(f.insertKinds, entities.KindImage)
	f.mu.Unlock()
	return f.nextElementID(), nil
}

func (f *fakeSlides) InsertShape(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, shape entities.ShapeKind, fill string) (string, error) {
	f.mu.Lock()
	f.insertKinds = append(f.insertKinds, entities.KindShape)
	f.mu.Unlock()
	return f.nextElementID(), nil
}

func (f *fakeSlides) InsertTable(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, headers []string, rows [][]entities.Cell) (string, error) {
	f.mu.Lock()
	f.insertKinds = append(f.insertKinds, entities.KindTable)
	f.mu.Unlock()
	return f.nextElementID(), nil
}

func (f *fakeSlides) GetDeckInfo(ctx context.Context, deckID string) (ports.DeckInfo, error) {
	return ports.DeckInfo{DeckID: deckID}, nil
}

func (f *fakeSlides) SupportsCharts() bool { return f.supportsCharts }

func (f *fakeSlides) InsertChartSpec(ctx context.Context, deckID, slideID string, box entities.AbsoluteBox, chartType entities.ChartKind, data [][]any, options map[string]any) (string, error) {
	f.mu.Lock()
	f.insertKinds = append(f.insertKinds, entities.KindChart)
	f.mu.Unlock()
	return f.nextElementID(), nil
}

var _ ports.SlideAPIClient = (*fakeSlides)(nil)

type fakeDiagramRenderer struct {
	calls int
	err   error
}

func (f *fakeDiagramRenderer) Render(ctx context.Context, source string, dialect entities.DiagramDialect) (diagram.RenderedImage, error) {
	f.calls++
	if f.err != nil {
		return diagram.RenderedImage{}, f.err
	}
	return diagram.RenderedImage{Bytes: []byte("png-bytes"), MIME: "image/png", Width: 10, Height: 10}, nil
}

func baseSpec() entities.DeckSpec {
	return entities.DeckSpec{
		Title: "Quarterly Review",
		Slides: []entities.SlideSpec{
			{
				Title: "Overview",
				Content: []entities.ContentItem{
					{Kind: entities.KindTitle, Content: "Welcome"},
				},
			},
		},
	}
}

func TestGenerate_HappyPath(t *testing.T) {
	slides := &fakeSlides{}
	result := Generate(context.Background(), baseSpec(), Dependencies{
		Slides: slides,
		Themes: newTestThemes(t),
	})

	require.True(t, result.OK)
	assert.Equal(t, "deck-1", result.DeckID)
	require.Len(t, result.Slides, 1)
	require.Len(t, result.Slides[0].Elements, 1)
	assert.Empty(t, result.Slides[0].Elements[0].Error)
	assert.NotEmpty(t, result.Slides[0].Elements[0].ElementID)
}

func TestGenerate_ValidationFailureReturnsNotOK(t *testing.T) {
	spec := baseSpec()
	spec.Title = ""
	result := Generate(context.Background(), spec, Dependencies{
		Slides: &fakeSlides{},
		Themes: newTestThemes(t),
	})
	require.False(t, result.OK)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.DeckID)
}

func TestGenerate_FailingElementDoesNotAbortSlide(t *testing.T) {
	spec := entities.DeckSpec{
		Title: "Deck",
		Slides: []entities.SlideSpec{{
			Layout: &entities.LayoutSpec{Kind: entities.LayoutDoubleColumn},
			Content: []entities.ContentItem{
				{Kind: entities.KindBody, Content: "left text"},
				{Kind: entities.KindImage, Source: "https://example/img.png", Alt: "a picture"},
			},
		}},
	}
	slides := &fakeSlides{insertTextErr: entities.NewDeckError(entities.EUpstreamPermanent, "boom")}
	result := Generate(context.Background(), spec, Dependencies{
		Slides: slides,
		Themes: newTestThemes(t),
	})

	require.True(t, result.OK)
	require.Len(t, result.Slides, 1)
	require.Len(t, result.Slides[0].Elements, 2)
	assert.NotEmpty(t, result.Slides[0].Elements[0].Error)
	assert.Empty(t, result.Slides[0].Elements[1].Error)
	assert.NotEmpty(t, result.Slides[0].Elements[1].ElementID)
}

func TestGenerate_FailingAppendSlideSkipsSlideButContinues(t *testing.T) {
	spec := entities.DeckSpec{
		Title: "Deck",
		Slides: []entities.SlideSpec{
			{Content: []entities.ContentItem{{Kind: entities.KindBody, Content: "one"}}},
			{Content: []entities.ContentItem{{Kind: entities.KindBody, Content: "two"}}},
		},
	}
	slides := &fakeSlides{appendSlideFail: map[int]bool{0: true}}
	result := Generate(context.Background(), spec, Dependencies{
		Slides: slides,
		Themes: newTestThemes(t),
	})

	require.True(t, result.OK)
	require.Len(t, result.Slides, 1)
	assert.Equal(t, "slide-1", result.Slides[0].SlideID)
}

func TestGenerate_OverflowContentStartsNewSlide(t *testing.T) {
	spec := entities.DeckSpec{
		Title: "Deck",
		Slides: []entities.SlideSpec{{
			Content: []entities.ContentItem{
				{Kind: entities.KindBody, Content: "first"},
				{Kind: entities.KindBody, Content: "second"},
			},
		}},
	}
	slides := &fakeSlides{}
	result := Generate(context.Background(), spec, Dependencies{
		Slides: slides,
		Themes: newTestThemes(t),
	})

	require.True(t, result.OK)
	require.Len(t, result.Slides, 2)
	assert.Len(t, result.Slides[0].Elements, 1)
	assert.Len(t, result.Slides[1].Elements, 1)
}

func TestGenerate_ChartDispatchesToInsertChartSpecWhenSupported(t *testing.T) {
	spec := entities.DeckSpec{
		Title: "Deck",
		Slides: []entities.SlideSpec{{
			Content: []entities.ContentItem{{
				Kind:      entities.KindChart,
				ChartType: entities.ChartBar,
				Data: [][]any{
					{"label", "value"},
					{"a", 1},
				},
			}},
		}},
	}
	slides := &fakeSlides{supportsCharts: true}
	result := Generate(context.Background(), spec, Dependencies{
		Slides: slides,
		Themes: newTestThemes(t),
	})

	require.True(t, result.OK)
	require.Len(t, result.Slides[0].Elements, 1)
	assert.Empty(t, result.Slides[0].Elements[0].Error)
	assert.Contains(t, slides.insertKinds, entities.KindChart)
}

func TestGenerate_ChartFallsBackToImageWhenNotSupported(t *testing.T) {
	spec := entities.DeckSpec{
		Title: "Deck",
		Slides: []entities.SlideSpec{{
			Content: []entities.ContentItem{{
				Kind:      entities.KindChart,
				ChartType: entities.ChartBar,
				Data: [][]any{
					{"label", "value"},
					{"a", 1},
				},
			}},
		}},
	}
	slides := &fakeSlides{supportsCharts: false}
	result := Generate(context.Background(), spec, Dependencies{
		Slides: slides,
		Themes: newTestThemes(t),
	})

	require.True(t, result.OK)
	require.Len(t, result.Slides[0].Elements, 1)
	assert.Empty(t, result.Slides[0].Elements[0].Error)
	assert.Contains(t, slides.insertKinds, entities.KindImage)
	assert.NotContains(t, slides.insertKinds, entities.KindChart)
}

func TestGenerate_DiagramDispatchesToRenderer(t *testing.T) {
	spec := entities.DeckSpec{
		Title: "Deck",
		Slides: []entities.SlideSpec{{
			Content: []entities.ContentItem{{
				Kind:    entities.KindDiagram,
				Dialect: entities.DialectFlowchart,
				Source:  "a->b",
			}},
		}},
	}
	slides := &fakeSlides{}
	diagrams := &fakeDiagramRenderer{}
	result := Generate(context.Background(), spec, Dependencies{
		Slides:   slides,
		Themes:   newTestThemes(t),
		Diagrams: diagrams,
	})

	require.True(t, result.OK)
	assert.Equal(t, 1, diagrams.calls)
	require.Len(t, result.Slides[0].Elements, 1)
	assert.Empty(t, result.Slides[0].Elements[0].Error)
}

func TestGenerate_CancelledContextReturnsPartialCancelledResult(t *testing.T) {
	spec := entities.DeckSpec{
		Title: "Deck",
		Slides: []entities.SlideSpec{
			{Content: []entities.ContentItem{{Kind: entities.KindBody, Content: "one"}}},
			{Content: []entities.ContentItem{{Kind: entities.KindBody, Content: "two"}}},
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Generate(ctx, spec, Dependencies{
		Slides: &fakeSlides{},
		Themes: newTestThemes(t),
	})

	assert.False(t, result.OK)
	assert.True(t, result.Cancelled)
}

func TestGenerate_AuthFailureAbortsWholeDeck(t *testing.T) {
	spec := entities.DeckSpec{
		Title: "Deck",
		Slides: []entities.SlideSpec{
			{Content: []entities.ContentItem{{Kind: entities.KindBody, Content: "one"}}},
			{Content: []entities.ContentItem{{Kind: entities.KindBody, Content: "two"}}},
		},
	}
	slides := &fakeSlides{
		appendSlideErr: map[int]error{0: entities.NewDeckError(entities.EAuth, "token refresh failed")},
	}
	result := Generate(context.Background(), spec, Dependencies{
		Slides: slides,
		Themes: newTestThemes(t),
	})

	require.False(t, result.OK)
	assert.Empty(t, result.Slides)
	require.NotEmpty(t, result.Error)
	assert.Contains(t, result.Error, string(entities.EUpstream))
}

func TestGenerate_RateLimitedAbortsRemainingSlidesWithPartialResult(t *testing.T) {
	spec := entities.DeckSpec{
		Title: "Deck",
		Slides: []entities.SlideSpec{
			{Content: []entities.ContentItem{{Kind: entities.KindBody, Content: "one"}}},
			{Content: []entities.ContentItem{{Kind: entities.KindBody, Content: "two"}}},
			{Content: []entities.ContentItem{{Kind: entities.KindBody, Content: "three"}}},
		},
	}
	slides := &fakeSlides{
		appendSlideErr: map[int]error{1: entities.NewDeckError(entities.ERateLimited, "rate limit exhausted").AsRetryable()},
	}
	result := Generate(context.Background(), spec, Dependencies{
		Slides: slides,
		Themes: newTestThemes(t),
	})

	require.False(t, result.OK)
	assert.False(t, result.Cancelled)
	require.Len(t, result.Slides, 1)
	assert.Equal(t, "slide-0", result.Slides[0].SlideID)
	assert.Contains(t, result.Error, string(entities.ERateLimited))
}

func TestGenerate_CreateDeckAuthFailureReturnsUpstreamError(t *testing.T) {
	slides := &fakeSlides{createDeckErr: entities.NewDeckError(entities.EAuth, "token refresh failed")}
	result := Generate(context.Background(), baseSpec(), Dependencies{
		Slides: slides,
		Themes: newTestThemes(t),
	})

	require.False(t, result.OK)
	assert.Contains(t, result.Error, string(entities.EUpstream))
}
