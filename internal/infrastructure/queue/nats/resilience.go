package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/rashidmajid/docuflow/internal/core/domain"
	"github.com/rashidmajid/docuflow/internal/infrastructure/resilience"
)

// ClassifyError treats connectivity losses as transient; anything
// else is a hard failure.
func ClassifyError(err error) resilience.Outcome {
	if err == nil {
		return resilience.Outcome{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Outcome{Transient: false, CountAgainstBreaker: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.Outcome{Transient: true, CountAgainstBreaker: true}
	}
	if errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, nats.ErrDisconnected) {
		return resilience.Outcome{Transient: true, CountAgainstBreaker: true}
	}

	return resilience.Outcome{Transient: false, CountAgainstBreaker: true}
}

func wrapTemporaryIfNeeded(err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if out := ClassifyError(err); out.Transient || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, "nats publish", err)
	}
	return err
}
