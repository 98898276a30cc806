// Package resilience wraps calls to external dependencies with
// bounded retries and a circuit breaker. Each Guard owns one breaker
// for one dependency; short infrastructure-level retries here are
// independent of the slower recovery loop that re-runs whole jobs.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Outcome is how a classifier judges one failure: Transient failures
// are retried in place, and only failures that CountAgainstBreaker
// move the breaker toward tripping.
type Outcome struct {
	Transient           bool
	CountAgainstBreaker bool
}

type Classifier func(err error) Outcome

// Guard protects one dependency. Zero value is not usable; construct
// with NewGuard.
type Guard struct {
	name     string
	policy   Policy
	classify Classifier
	breaker  *gobreaker.CircuitBreaker[any]
	logger   *slog.Logger
}

func NewGuard(name string, policy Policy, classify Classifier, logger *slog.Logger) *Guard {
	policy = policy.normalize()
	if classify == nil {
		classify = func(error) Outcome {
			return Outcome{Transient: false, CountAgainstBreaker: true}
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Guard{
		name:     name,
		policy:   policy,
		classify: classify,
		logger:   logger,
	}
	if !policy.BreakerDisabled {
		g.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:        name,
			MaxRequests: policy.HalfOpenCalls,
			Timeout:     policy.CoolDown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < policy.TripMinRequests {
					return false
				}
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				return ratio >= policy.TripRatio
			},
			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				return !classify(err).CountAgainstBreaker
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state change",
					"dependency", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
		})
	}
	return g
}

// Do runs fn under the breaker, retrying transient failures with
// exponential backoff until the attempt budget runs out.
func (g *Guard) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("resilience: nil callback for %s.%s", g.name, op)
	}
	if g.breaker == nil {
		return g.withRetry(ctx, op, fn)
	}
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.withRetry(ctx, op, fn)
	})
	return err
}

func (g *Guard) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	wait := g.policy.BackoffStart

	var lastErr error
	for attempt := 1; attempt <= g.policy.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !g.classify(lastErr).Transient || attempt == g.policy.Attempts {
			return lastErr
		}

		g.logger.Warn("transient failure, backing off",
			"dependency", g.name,
			"operation", op,
			"attempt", attempt,
			"attempts", g.policy.Attempts,
			"backoff", wait,
			"error", lastErr,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}

		wait = time.Duration(float64(wait) * g.policy.BackoffFactor)
		if wait > g.policy.BackoffCap {
			wait = g.policy.BackoffCap
		}
	}
	return lastErr
}

// IsCircuitOpen reports whether err came from a tripped or saturated
// breaker rather than the dependency itself.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
