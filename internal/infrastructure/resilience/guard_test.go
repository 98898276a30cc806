package resilience

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDoRetriesTransientFailure(t *testing.T) {
	errTemp := errors.New("temporary")
	guard := NewGuard("dep", Policy{
		Attempts:        3,
		BackoffStart:    1 * time.Millisecond,
		BackoffCap:      2 * time.Millisecond,
		BreakerDisabled: true,
	}, func(err error) Outcome {
		return Outcome{Transient: errors.Is(err, errTemp), CountAgainstBreaker: true}
	}, testLogger())

	attempts := 0
	err := guard.Do(context.Background(), "op", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTemp
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoDoesNotRetryPermanentFailure(t *testing.T) {
	guard := NewGuard("dep", Policy{
		Attempts:        3,
		BackoffStart:    1 * time.Millisecond,
		BreakerDisabled: true,
	}, func(error) Outcome {
		return Outcome{Transient: false, CountAgainstBreaker: false}
	}, testLogger())

	attempts := 0
	errPermanent := errors.New("permanent")
	err := guard.Do(context.Background(), "op", func(context.Context) error {
		attempts++
		return errPermanent
	})
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestDoOpensCircuitAfterFailures(t *testing.T) {
	errTemp := errors.New("temporary")
	guard := NewGuard("dep", Policy{
		Attempts:        1,
		BackoffStart:    1 * time.Millisecond,
		TripMinRequests: 2,
		TripRatio:       0.5,
		CoolDown:        50 * time.Millisecond,
		HalfOpenCalls:   1,
	}, func(error) Outcome {
		return Outcome{Transient: false, CountAgainstBreaker: true}
	}, testLogger())

	for i := 0; i < 2; i++ {
		err := guard.Do(context.Background(), "op", func(context.Context) error {
			return errTemp
		})
		if !errors.Is(err, errTemp) {
			t.Fatalf("expected temporary error on iteration %d, got %v", i, err)
		}
	}

	err := guard.Do(context.Background(), "op", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if !IsCircuitOpen(err) {
		t.Fatalf("IsCircuitOpen() = false for %v", err)
	}
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	guard := NewGuard("dep", Policy{
		Attempts:        5,
		BackoffStart:    1 * time.Millisecond,
		BreakerDisabled: true,
	}, func(error) Outcome {
		return Outcome{Transient: true, CountAgainstBreaker: true}
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	errTemp := errors.New("temporary")
	err := guard.Do(ctx, "op", func(context.Context) error {
		attempts++
		cancel()
		return errTemp
	})
	if !errors.Is(err, errTemp) {
		t.Fatalf("expected last failure, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected cancellation to stop retries, got %d attempts", attempts)
	}
}
