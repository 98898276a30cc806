package genai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/rashidmajid/docuflow/internal/core/domain"
	"github.com/rashidmajid/docuflow/internal/infrastructure/resilience"
)

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "genai status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("genai %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("genai %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

// ClassifyError is the resilience classifier for the generate
// endpoint: context ends never retry and never count, transient HTTP
// statuses and network failures retry and count.
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

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if isRetryableHTTPStatus(statusErr.StatusCode) {
			return resilience.Outcome{Transient: true, CountAgainstBreaker: true}
		}
		return resilience.Outcome{Transient: false, CountAgainstBreaker: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Outcome{Transient: true, CountAgainstBreaker: true}
	}

	return resilience.Outcome{Transient: false, CountAgainstBreaker: true}
}

// wrapTemporaryIfNeeded marks transient failures so the recovery
// agent can categorize them without inspecting transport types.
func wrapTemporaryIfNeeded(operation string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if out := ClassifyError(err); out.Transient || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
