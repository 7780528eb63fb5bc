package diagram

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
)

type fakeClock struct{ mu sync.Mutex }

func (f *fakeClock) Now() time.Time                 { return time.Unix(0, 0) }
func (f *fakeClock) Since(t time.Time) time.Duration { return 0 }
func (f *fakeClock) Until(t time.Time) time.Duration { return 0 }
func (f *fakeClock) Sleep(d time.Duration)           {}
func (f *fakeClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Unix(0, 0)
	return ch
}
func (f *fakeClock) NewTicker(d time.Duration) ports.Ticker { return nil }
func (f *fakeClock) NewTimer(d time.Duration) ports.Timer   { return nil }

type identityJitterer struct{}

func (identityJitterer) Jitter(base float64) float64 { return base }

type countingEndpoint struct {
	calls    int32
	bytes    []byte
	err      error
	failUpTo int32
}

func (e *countingEndpoint) Render(ctx context.Context, source string, dialect entities.DiagramDialect) ([]byte, error) {
	n := atomic.AddInt32(&e.calls, 1)
	if n <= e.failUpTo {
		return nil, entities.NewDeckError(entities.EUpstreamTransient, "upstream busy")
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.bytes, nil
}

func onePixelPNG() []byte {
	return []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
		0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
		0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41,
		0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
		0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
		0x42, 0x60, 0x82,
	}
}

func TestCanonicalize_NormalizesLineEndingsAndTrailingSpace(t *testing.T) {
	got := Canonicalize("a --> b  \r\nc --> d\r\n  ")
	assert.Equal(t, "a --> b\nc --> d\n", got)
}

func TestCacheKey_SameInputsSameKey(t *testing.T) {
	assert.Equal(t, CacheKey("a->b", entities.DialectFlowchart), CacheKey("a->b", entities.DialectFlowchart))
}

func TestCacheKey_DifferentDialectDifferentKey(t *testing.T) {
	assert.NotEqual(t, CacheKey("a->b", entities.DialectFlowchart), CacheKey("a->b", entities.DialectSequence))
}

func TestRenderer_RejectsOversizedSource(t *testing.T) {
	endpoint := &countingEndpoint{bytes: onePixelPNG()}
	r := NewRenderer(endpoint, identityJitterer{}, &fakeClock{}, 10, 0)

	huge := make([]byte, MaxSourceBytes+1)
	for i := range huge {
		huge[i] = 'a'
	}
	_, err := r.Render(context.Background(), string(huge), entities.DialectFlowchart)
	require.Error(t, err)
	assert.Equal(t, entities.EDiagramTooLarge, entities.KindOf(err))
	assert.Equal(t, int32(0), endpoint.calls)
}

func TestRenderer_CachesOnSecondCall(t *testing.T) {
	endpoint := &countingEndpoint{bytes: onePixelPNG()}
	r := NewRenderer(endpoint, identityJitterer{}, &fakeClock{}, 10, 0)

	img1, err := r.Render(context.Background(), "a->b", entities.DialectFlowchart)
	require.NoError(t, err)
	img2, err := r.Render(context.Background(), "a->b", entities.DialectFlowchart)
	require.NoError(t, err)

	assert.Equal(t, img1, img2)
	assert.Equal(t, int32(1), endpoint.calls)
	assert.Equal(t, "image/png", img1.MIME)
	assert.Equal(t, 1, img1.Width)
	assert.Equal(t, 1, img1.Height)
}

func TestRenderer_RetriesTransientFailure(t *testing.T) {
	endpoint := &countingEndpoint{bytes: onePixelPNG(), failUpTo: 2}
	r := NewRenderer(endpoint, identityJitterer{}, &fakeClock{}, 10, 0)

	img, err := r.Render(context.Background(), "a->b", entities.DialectSequence)
	require.NoError(t, err)
	assert.NotEmpty(t, img.Bytes)
	assert.Equal(t, int32(3), endpoint.calls)
}

func TestRenderer_CollapsesConcurrentIdenticalRequests(t *testing.T) {
	endpoint := &countingEndpoint{bytes: onePixelPNG()}
	r := NewRenderer(endpoint, identityJitterer{}, &fakeClock{}, 10, 0)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Render(context.Background(), "same-source", entities.DialectGantt)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), endpoint.calls)
}

func TestRenderer_RefusesOversizedOutput(t *testing.T) {
	endpoint := &countingEndpoint{bytes: make([]byte, MaxOutputBytes+1)}
	r := NewRenderer(endpoint, identityJitterer{}, &fakeClock{}, 10, 0)

	_, err := r.Render(context.Background(), "a->b", entities.DialectClass)
	require.Error(t, err)
	assert.Equal(t, entities.EDiagramTooLarge, entities.KindOf(err))
}

func TestRenderer_Stats(t *testing.T) {
	endpoint := &countingEndpoint{bytes: onePixelPNG()}
	r := NewRenderer(endpoint, identityJitterer{}, &fakeClock{}, 10, 0)

	_, err := r.Render(context.Background(), "a->b", entities.DialectState)
	require.NoError(t, err)
	_, err = r.Render(context.Background(), "a->b", entities.DialectState)
	require.NoError(t, err)

	stats := r.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(1), stats.Hits)
}
