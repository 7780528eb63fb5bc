// Package orchestrator implements the generate() pipeline: validate the caller's DeckSpec,
// resolve the active theme, create the deck upstream, then walk slides sequentially —
// laying out each slide's content, dispatching a bounded-concurrency fan-out of per-item
// inserts, and collecting results — so that one failing element or slide never aborts the
// rest of the deck. The exceptions are an auth failure, which aborts the whole call, and an
// exhausted rate limit, which stops the walk and returns the slides created so far.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
	"github.com/deckforge/deckforge/internal/domain/services/chart"
	"github.com/deckforge/deckforge/internal/domain/services/diagram"
	"github.com/deckforge/deckforge/internal/domain/services/layout"
	"github.com/deckforge/deckforge/internal/domain/services/validator"
)

// DefaultConcurrency is the per-slide fan-out cap applied when Dependencies.Concurrency is unset.
const DefaultConcurrency = 4

// MinCallTimeout is the floor applied to Dependencies.PerCallTimeout: every upstream call gets
// at least this much of its own deadline, regardless of how tight the caller's overall context is.
const MinCallTimeout = 2 * time.Second

// DiagramRenderer is the caching, retrying diagram render surface the orchestrator dispatches
// diagram content items to (see internal/domain/services/diagram.Renderer).
type DiagramRenderer interface {
	Render(ctx context.Context, source string, dialect entities.DiagramDialect) (diagram.RenderedImage, error)
}

// Dependencies collects every collaborator Generate needs. Callers construct one from wired
// adapters (internal/adapters/secondary/slideapi, diagramhttp, theme.Registry, ...).
type Dependencies struct {
	Slides   ports.SlideAPIClient
	Themes   ports.ThemeRegistry
	Diagrams DiagramRenderer

	Limits                  entities.LimitsConfig
	SlideWidth, SlideHeight float64
	Concurrency             int
	PerCallTimeout          time.Duration
	Clock                   ports.TimeProvider

	// Progress, when set, is called once per slide as soon as it (and its elements) have
	// been created upstream — before Generate has walked the rest of the deck. Callers that
	// want streaming feedback (e.g. cmd/deckforge serve's progress stream) set this; it is
	// nil for a plain blocking generate() call.
	Progress func(entities.SlideResult)
}

func (d Dependencies) slideSize() (float64, float64) {
	w, h := d.SlideWidth, d.SlideHeight
	if w <= 0 {
		w = entities.StandardSlideWidth
	}
	if h <= 0 {
		h = entities.StandardSlideHeight
	}
	return w, h
}

func (d Dependencies) concurrency() int {
	if d.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return d.Concurrency
}

func (d Dependencies) callTimeout() time.Duration {
	if d.PerCallTimeout < MinCallTimeout {
		return MinCallTimeout
	}
	return d.PerCallTimeout
}

func (d Dependencies) clock() ports.TimeProvider {
	if d.Clock == nil {
		return ports.NewRealTimeProvider()
	}
	return d.Clock
}

// Generate runs the full pipeline. It never returns an error: every failure mode is carried
// inline in the returned DeckResult (OK=false plus Error for pipeline-fatal failures;
// per-element/per-slide Error fields for partial failures after the deck exists).
func Generate(ctx context.Context, spec entities.DeckSpec, deps Dependencies) entities.DeckResult {
	now := deps.clock().Now()

	checked := validator.ValidateDeck(spec, deps.Limits)
	if !checked.OK {
		return entities.DeckResult{
			OK:        false,
			Warnings:  checked.Warnings,
			CreatedAt: now,
			Error:     strings.Join(checked.Errors, "; "),
		}
	}
	spec = checked.Value

	activeTheme, err := resolveTheme(deps.Themes, spec.Theme)
	if err != nil {
		if fatal, _, wrapped := classifyAbort(err); fatal {
			err = wrapped
		}
		return entities.DeckResult{OK: false, Warnings: checked.Warnings, CreatedAt: now, Error: err.Error()}
	}

	slideW, slideH := deps.slideSize()
	timeout := deps.callTimeout()

	cctx, cancel := context.WithTimeout(ctx, timeout)
	deckID, url, err := deps.Slides.CreateDeck(cctx, spec.Title)
	cancel()
	if err != nil {
		if fatal, _, wrapped := classifyAbort(err); fatal {
			err = wrapped
		}
		return entities.DeckResult{OK: false, Warnings: checked.Warnings, CreatedAt: now, Error: err.Error()}
	}

	var slideResults []entities.SlideResult
	cancelled := false
	aborted := false
	var abortErr error

	for _, slideSpec := range spec.Slides {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		effectiveLayout := entities.LayoutSpec{}
		switch {
		case slideSpec.Layout != nil:
			effectiveLayout = *slideSpec.Layout
		case spec.Layout != nil:
			effectiveLayout = *spec.Layout
		}

		remaining := slideSpec.Content
		first := true
		for {
			placements, overflow, lerr := layout.Assign(effectiveLayout, slideW, slideH, remaining)
			if lerr != nil {
				slideResults = append(slideResults, entities.SlideResult{
					Index:    len(slideResults),
					Elements: []entities.ElementResult{{Error: lerr.Error()}},
				})
				break
			}

			cctx, cancel = context.WithTimeout(ctx, timeout)
			newSlideID, serr := deps.Slides.AppendSlide(cctx, deckID)
			cancel()
			if serr != nil {
				if fatal, rateLimited, wrapped := classifyAbort(serr); fatal || rateLimited {
					aborted = true
					abortErr = wrapped
					if rateLimited {
						abortErr = serr
					}
					break
				}
				// A failing AppendSlide skips this slide entirely; the deck continues.
				break
			}

			if first && slideSpec.Title != "" {
				cctx, cancel = context.WithTimeout(ctx, timeout)
				_ = deps.Slides.SetTitle(cctx, deckID, newSlideID, slideSpec.Title)
				cancel()
			}

			elements, dispatchErr := dispatchPlacements(ctx, deps, deckID, newSlideID, activeTheme, placements, slideW, slideH, timeout)
			slideResult := entities.SlideResult{
				SlideID:  newSlideID,
				Index:    len(slideResults),
				Elements: elements,
			}
			slideResults = append(slideResults, slideResult)
			if deps.Progress != nil {
				deps.Progress(slideResult)
			}

			if dispatchErr != nil {
				fatal, rateLimited, wrapped := classifyAbort(dispatchErr)
				if fatal || rateLimited {
					aborted = true
					abortErr = wrapped
					if rateLimited {
						abortErr = dispatchErr
					}
					break
				}
			}

			if len(overflow) == 0 {
				break
			}
			remaining = overflow
			first = false
			if ctx.Err() != nil {
				cancelled = true
				break
			}
		}
		if cancelled || aborted {
			break
		}
	}

	result := entities.DeckResult{
		OK:        !cancelled && !aborted,
		DeckID:    deckID,
		URL:       url,
		Slides:    slideResults,
		Warnings:  checked.Warnings,
		CreatedAt: now,
		Cancelled: cancelled,
	}
	if aborted {
		result.Error = abortErr.Error()
	}
	return result
}

// classifyAbort inspects an error surfaced from an upstream Slide API call (already
// retried and, for EAuth, re-authenticated once by the retry package) and reports whether
// it must abort generation beyond the normal per-item/per-slide skip: EAuth aborts the
// whole deck (wrapped as EUpstream), ERateLimited exhaustion aborts the remaining slides
// while the deck already created stands.
func classifyAbort(err error) (fatal bool, rateLimited bool, wrapped error) {
	switch entities.KindOf(err) {
	case entities.EAuth:
		return true, false, entities.Wrap(entities.EUpstream, "authentication failed, aborting deck", err)
	case entities.ERateLimited:
		return false, true, err
	default:
		return false, false, nil
	}
}

// resolveTheme realises a DeckSpec's ThemeRef against the registry: an id alone selects an
// existing theme, an override alone clones the active theme, and both clone the named theme.
func resolveTheme(registry ports.ThemeRegistry, ref *entities.ThemeRef) (entities.Theme, error) {
	if ref == nil {
		return registry.GetActive(), nil
	}
	if len(ref.Override) == 0 {
		if ref.ID == "" {
			return registry.GetActive(), nil
		}
		return registry.Get(ref.ID)
	}
	sourceID := ref.ID
	if sourceID == "" {
		sourceID = registry.GetActive().ID
	}
	return registry.Clone(sourceID, ref.Override)
}

// dispatchPlacements fans a slide's placements out across a bounded worker pool (a buffered
// channel semaphore plus a WaitGroup join), preserving placement order in the result slice
// regardless of completion order. The returned error, when non-nil, is the single highest-
// priority abort-worthy error observed across the fan-out (EAuth wins over ERateLimited) —
// every other per-item error is already folded into its ElementResult.Error and does not
// propagate here.
func dispatchPlacements(ctx context.Context, deps Dependencies, deckID, slideID string, th entities.Theme, placements []layout.Placement, slideW, slideH float64, timeout time.Duration) ([]entities.ElementResult, error) {
	results := make([]entities.ElementResult, len(placements))
	sem := make(chan struct{}, deps.concurrency())
	var wg sync.WaitGroup
	var mu sync.Mutex
	var abortErr error

	for i, p := range placements {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p layout.Placement) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := insertElement(ctx, deps, deckID, slideID, th, p, slideW, slideH, timeout)
			results[i] = res
			if err == nil {
				return
			}
			fatal, rateLimited, _ := classifyAbort(err)
			if !fatal && !rateLimited {
				return
			}
			mu.Lock()
			if abortErr == nil || (fatal && !entities.IsKind(abortErr, entities.EAuth)) {
				abortErr = err
			}
			mu.Unlock()
		}(i, p)
	}
	wg.Wait()
	return results, abortErr
}

// insertElement dispatches a single placed content item to the right upstream insert call,
// via an exhaustive switch over ContentKind. The returned error carries the raw, classified
// upstream failure (or nil) alongside res.Error's stringified copy, so dispatchPlacements can
// decide whether this was an ordinary per-item skip or an abort-worthy EAuth/ERateLimited.
func insertElement(ctx context.Context, deps Dependencies, deckID, slideID string, th entities.Theme, p layout.Placement, slideW, slideH float64, timeout time.Duration) (entities.ElementResult, error) {
	item := p.Item
	box := p.Box
	res := entities.ElementResult{Kind: item.Kind, ResolvedBox: box}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch {
	case entities.TextKinds[item.Kind]:
		style, err := deps.Themes.ResolveStyle(th, item.Kind, item.Style, slideW, slideH, len(item.Content))
		if err != nil {
			res.Error = err.Error()
			return res, err
		}
		id, err := deps.Slides.InsertTextBox(cctx, deckID, slideID, box, item.Content, style)
		if err != nil {
			res.Error = err.Error()
			return res, err
		}
		res.ElementID = id
		return res, nil

	case item.Kind == entities.KindImage:
		id, err := deps.Slides.InsertImage(cctx, deckID, slideID, box, item.Bytes, item.Alt)
		if err != nil {
			res.Error = err.Error()
			return res, err
		}
		res.ElementID = id
		return res, nil

	case item.Kind == entities.KindShape:
		id, err := deps.Slides.InsertShape(cctx, deckID, slideID, box, item.Shape, item.Fill)
		if err != nil {
			res.Error = err.Error()
			return res, err
		}
		res.ElementID = id
		return res, nil

	case item.Kind == entities.KindTable:
		id, err := deps.Slides.InsertTable(cctx, deckID, slideID, box, item.Headers, item.Rows)
		if err != nil {
			res.Error = err.Error()
			return res, err
		}
		res.ElementID = id
		return res, nil

	case item.Kind == entities.KindChart:
		return insertChart(cctx, deps, deckID, slideID, th, item, box, res)

	case item.Kind == entities.KindDiagram:
		return insertDiagram(cctx, deps, deckID, slideID, item, box, res)

	default:
		res.Error = fmt.Sprintf("unhandled content kind %q", item.Kind)
		return res, nil
	}
}

// insertChart builds a Spec from the content item and either hands it upstream directly or
// rasterises it locally first, depending on what the upstream reports it can accept.
func insertChart(ctx context.Context, deps Dependencies, deckID, slideID string, th entities.Theme, item entities.ContentItem, box entities.AbsoluteBox, res entities.ElementResult) (entities.ElementResult, error) {
	spec, err := chart.Build(item, th)
	if err != nil {
		res.Error = err.Error()
		return res, err
	}

	if deps.Slides.SupportsCharts() {
		data := make([][]any, 0, len(spec.Rows)+1)
		headerRow := make([]any, len(spec.Headers))
		for i, h := range spec.Headers {
			headerRow[i] = h
		}
		data = append(data, headerRow)
		data = append(data, spec.Rows...)

		id, err := deps.Slides.InsertChartSpec(ctx, deckID, slideID, box, spec.ChartType, data, spec.Options)
		if err != nil {
			res.Error = err.Error()
			return res, err
		}
		res.ElementID = id
		return res, nil
	}

	img, err := chart.RenderImage(spec, int(box.Width), int(box.Height), th.Palette.Surface)
	if err != nil {
		res.Error = err.Error()
		return res, err
	}

	id, err := deps.Slides.InsertImage(ctx, deckID, slideID, box, img.Bytes, string(spec.ChartType)+" chart")
	if err != nil {
		res.Error = err.Error()
		return res, err
	}
	res.ElementID = id
	return res, nil
}

// insertDiagram renders the item's source through the configured DiagramRenderer and inserts
// the resulting image.
func insertDiagram(ctx context.Context, deps Dependencies, deckID, slideID string, item entities.ContentItem, box entities.AbsoluteBox, res entities.ElementResult) (entities.ElementResult, error) {
	if deps.Diagrams == nil {
		res.Error = "no diagram renderer configured"
		return res, nil
	}
	img, err := deps.Diagrams.Render(ctx, item.Source, item.Dialect)
	if err != nil {
		res.Error = err.Error()
		return res, err
	}

	id, err := deps.Slides.InsertImage(ctx, deckID, slideID, box, img.Bytes, "diagram")
	if err != nil {
		res.Error = err.Error()
		return res, err
	}
	res.ElementID = id
	return res, nil
}
