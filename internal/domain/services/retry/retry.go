// Package retry implements the backoff/classification policy shared by every upstream
// caller (the Slide API client and the Diagram render endpoint): Transient failures back
// off and retry, Permanent failures never retry, Auth failures get one re-auth-then-retry.
package retry

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/deckforge/deckforge/internal/domain/entities"
	"github.com/deckforge/deckforge/internal/domain/ports"
)

// MaxAttempts is the hard cap on attempts for a Transient failure: 3 attempts total
// including the first, so at most the 1s and 2s backoff delays are slept.
const MaxAttempts = 3

// Backoff returns the base delay for the given zero-indexed attempt: 1s*2^attempt.
func Backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

// Jittered applies a jitterer's ±20% randomisation to a base backoff duration.
func Jittered(base time.Duration, j ports.Jitterer) time.Duration {
	if j == nil {
		return base
	}
	return time.Duration(j.Jitter(float64(base)))
}

// Classify maps an error to its DeckError ErrorKind, defaulting to EUpstreamPermanent for
// errors that are not already a *entities.DeckError (never retry an error we don't
// understand).
func Classify(err error) entities.ErrorKind {
	if err == nil {
		return ""
	}
	kind := entities.KindOf(err)
	if kind == "" {
		return entities.EUpstreamPermanent
	}
	return kind
}

// IsRetryable reports whether a classified error kind warrants another attempt.
func IsRetryable(kind entities.ErrorKind) bool {
	switch kind {
	case entities.EUpstreamTransient, entities.EAuth, entities.ERateLimited:
		return true
	default:
		return false
	}
}

// markedRetryable reports whether err is a *entities.DeckError with its Retryable flag set,
// independent of Kind — this lets a caller classify under a domain-specific kind (e.g.
// EDiagramRenderer) while still opting into the shared backoff schedule.
func markedRetryable(err error) bool {
	var de *entities.DeckError
	if errors.As(err, &de) {
		return de.Retryable
	}
	return false
}

// Op is a single upstream attempt. reauth, when non-nil, is invoked exactly once the first
// time an Auth failure is observed; if it returns an error the retry loop aborts.
type Op func(ctx context.Context, attempt int) error

// Do runs op up to MaxAttempts times, sleeping a jittered exponential backoff between
// Transient attempts, and performing a single re-auth-then-retry on an Auth failure. It
// returns the last error once attempts are exhausted or a Permanent failure is hit.
func Do(ctx context.Context, sleep func(time.Duration), j ports.Jitterer, reauth func(ctx context.Context) error, op Op) error {
	var lastErr error
	reauthed := false

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return entities.Wrap(entities.ECancelled, "context cancelled before attempt", err)
		}

		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		kind := Classify(err)
		switch kind {
		case entities.EAuth:
			if reauthed || reauth == nil {
				return err
			}
			reauthed = true
			if reauthErr := reauth(ctx); reauthErr != nil {
				return reauthErr
			}
			continue

		case entities.EUpstreamTransient, entities.ERateLimited:
			if attempt == MaxAttempts-1 {
				return err
			}
			delay := Jittered(Backoff(attempt), j)
			if sleep != nil {
				sleep(delay)
			}
			continue

		default:
			if !markedRetryable(err) {
				return err
			}
			if attempt == MaxAttempts-1 {
				return err
			}
			delay := Jittered(Backoff(attempt), j)
			if sleep != nil {
				sleep(delay)
			}
			continue
		}
	}
	return lastErr
}
