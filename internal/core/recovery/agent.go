// Package recovery classifies processing failures and decides how the
// orchestrator should respond: retry with backoff, degrade to a
// deterministic fallback, skip, or escalate to a human.
package recovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

const (
	// DefaultMaxRetries caps automatic retries per job.
	DefaultMaxRetries = 3

	baseRetryDelay = 1 * time.Second
	maxRetryDelay  = 30 * time.Second

	// Success-probability decay for successive retries. Geometric so
	// the estimate stays strictly decreasing but never reaches zero.
	retryBaseProbability     = 0.7
	retryDecayFactor         = 0.6
	manualSuccessProbability = 0.95

	// PatternFallbackMethod marks a job degraded to deterministic
	// pattern-only extraction.
	PatternFallbackMethod = "pattern_fallback"
)

// categoryRule pairs the keyword set that identifies a category with
// its fixed retryability and severity. Order is precedence: messages
// can contain overlapping terms, the first match wins.
type categoryRule struct {
	category  domain.ErrorCategory
	keywords  []string
	retryable bool
	severity  domain.Severity
}

var categoryRules = []categoryRule{
	{domain.CategoryNetworkError, []string{"enotfound", "econnrefused", "etimedout", "network"}, true, domain.SeverityMedium},
	{domain.CategoryAPIRateLimit, []string{"rate limit", "429", "too many requests"}, true, domain.SeverityMedium},
	{domain.CategoryAPIQuotaExceeded, []string{"quota", "usage limit"}, false, domain.SeverityHigh},
	{domain.CategoryTimeout, []string{"timeout", "timed out"}, true, domain.SeverityMedium},
	{domain.CategoryParseError, []string{"parse", "syntax error"}, true, domain.SeverityLow},
	{domain.CategoryInvalidInput, []string{"invalid input", "malformed", "missing required field"}, false, domain.SeverityHigh},
	{domain.CategoryModelError, []string{"model error", "inference failed"}, false, domain.SeverityHigh},
	{domain.CategoryValidationError, []string{"validation failed", "schema error"}, false, domain.SeverityLow},
}

var unknownRule = categoryRule{
	category:  domain.CategoryUnknown,
	retryable: false,
	severity:  domain.SeverityHigh,
}

type Agent struct {
	maxRetries int
}

// NewAgent clamps maxRetries into [1,10]; zero or negative selects
// the default.
func NewAgent(maxRetries int) *Agent {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if maxRetries > 10 {
		maxRetries = 10
	}
	return &Agent{maxRetries: maxRetries}
}

func (a *Agent) MaxRetries() int { return a.maxRetries }

// ClassifyError categorizes an arbitrary failure by case-insensitive
// keyword matching against its message. A nil error or a message with
// no recognized term is unknown, the safe high-severity default.
func (a *Agent) ClassifyError(err error) domain.ErrorCategory {
	return ruleFor(err).category
}

// RetryDelay is the exponential backoff before a given attempt:
// 1s, 2s, 4s, ... capped at 30s.
func (a *Agent) RetryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := baseRetryDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}

// ShouldAttemptRecovery reports whether an automatic retry is
// worthwhile: the category must be retryable and the retry budget not
// yet spent.
func (a *Agent) ShouldAttemptRecovery(retryCount int, category domain.ErrorCategory) bool {
	rule := ruleForCategory(category)
	return rule.retryable && retryCount < a.maxRetries
}

// Analyze produces the full breakdown for one failure: category,
// effective retryability, severity, and candidate actions in
// preference order.
func (a *Agent) Analyze(err error, state domain.ProcessingState, retryCount int) domain.ErrorAnalysis {
	rule := ruleFor(err)
	retryable := rule.retryable && retryCount < a.maxRetries

	var actions []domain.RecoveryAction
	if retryable {
		delay := a.RetryDelay(retryCount)
		actions = append(actions, domain.RecoveryAction{
			Type:               domain.ActionRetry,
			TargetAgent:        state.DocumentID,
			Reason:             fmt.Sprintf("%s is transient, retry %d of %d", rule.category, retryCount+1, a.maxRetries),
			SuccessProbability: retrySuccessProbability(retryCount),
			EstimatedTime:      delay + baseRetryDelay,
			Parameters:         map[string]any{"delay_ms": delay.Milliseconds()},
		})
	}
	// A fallback is offered at most once per job: a degraded run that
	// still fails has nothing further to degrade to.
	if rule.category == domain.CategoryAPIRateLimit && state.ExtractionMethod != PatternFallbackMethod {
		actions = append(actions, domain.RecoveryAction{
			Type:               domain.ActionFallback,
			TargetAgent:        state.DocumentID,
			Reason:             "rate limited, degrade to deterministic pattern extraction",
			SuccessProbability: 0.6,
			EstimatedTime:      baseRetryDelay,
			Parameters:         map[string]any{"delay_ms": baseRetryDelay.Milliseconds(), "method": PatternFallbackMethod},
		})
	}
	if !retryable {
		actions = append(actions, domain.RecoveryAction{
			Type:               domain.ActionManual,
			TargetAgent:        state.DocumentID,
			Reason:             fmt.Sprintf("%s is not recoverable automatically", rule.category),
			SuccessProbability: manualSuccessProbability,
			EstimatedTime:      0,
		})
	}

	return domain.ErrorAnalysis{
		Category:         rule.category,
		Retryable:        retryable,
		Severity:         rule.severity,
		SuggestedActions: actions,
	}
}

// Recover selects the single action to execute for one failure:
// retry while the budget allows, then fallback when one is offered,
// then manual escalation.
func (a *Agent) Recover(err error, state domain.ProcessingState, retryCount int) domain.RecoveryAction {
	analysis := a.Analyze(err, state, retryCount)
	for _, preferred := range []domain.ActionType{domain.ActionRetry, domain.ActionFallback, domain.ActionManual} {
		for _, action := range analysis.SuggestedActions {
			if action.Type == preferred {
				return action
			}
		}
	}
	// Unreachable: Analyze always suggests manual for non-retryable
	// failures.
	return domain.RecoveryAction{
		Type:               domain.ActionManual,
		TargetAgent:        state.DocumentID,
		Reason:             "no automated recovery available",
		SuccessProbability: manualSuccessProbability,
	}
}

// ExecuteAction applies one action to the processing state. Retry
// waits out the action's delay (cancellable through ctx) and bumps
// the retry counter; fallback switches the extraction method marker;
// skip and manual flag the job for human review. Execution reports
// false only when the context is cancelled mid-wait.
func (a *Agent) ExecuteAction(ctx context.Context, action domain.RecoveryAction, state domain.ProcessingState) (domain.ProcessingState, bool) {
	switch action.Type {
	case domain.ActionRetry:
		if delay := actionDelay(action); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return state, false
			case <-timer.C:
			}
		}
		state.Control.RetryCount++
		return state, true

	case domain.ActionFallback:
		state.ExtractionMethod = PatternFallbackMethod
		return state, true

	case domain.ActionSkip:
		state.NeedsHumanReview = true
		if action.Reason != "" {
			state.Warnings = append(state.Warnings, action.Reason)
		}
		return state, true

	case domain.ActionManual:
		state.NeedsHumanReview = true
		state.ReviewRequired = true
		return state, true

	default:
		state.NeedsHumanReview = true
		state.Warnings = append(state.Warnings, fmt.Sprintf("unrecognized recovery action %q", action.Type))
		return state, true
	}
}

// retrySuccessProbability decays strictly as retries accumulate.
func retrySuccessProbability(retryCount int) float64 {
	p := retryBaseProbability
	for i := 0; i < retryCount; i++ {
		p *= retryDecayFactor
	}
	return p
}

func actionDelay(action domain.RecoveryAction) time.Duration {
	raw, ok := action.Parameters["delay_ms"]
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case int64:
		return time.Duration(v) * time.Millisecond
	case int:
		return time.Duration(v) * time.Millisecond
	case float64:
		return time.Duration(v) * time.Millisecond
	default:
		return 0
	}
}

func ruleFor(err error) categoryRule {
	if err == nil {
		return unknownRule
	}
	message := strings.ToLower(err.Error())
	if strings.TrimSpace(message) == "" {
		return unknownRule
	}
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(message, kw) {
				return rule
			}
		}
	}
	return unknownRule
}

func ruleForCategory(category domain.ErrorCategory) categoryRule {
	for _, rule := range categoryRules {
		if rule.category == category {
			return rule
		}
	}
	return unknownRule
}
