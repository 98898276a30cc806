package domain

import "time"

type ErrorCategory string

const (
	CategoryNetworkError     ErrorCategory = "network_error"
	CategoryAPIRateLimit     ErrorCategory = "api_rate_limit"
	CategoryAPIQuotaExceeded ErrorCategory = "api_quota_exceeded"
	CategoryTimeout          ErrorCategory = "timeout"
	CategoryParseError       ErrorCategory = "parse_error"
	CategoryInvalidInput     ErrorCategory = "invalid_input"
	CategoryModelError       ErrorCategory = "model_error"
	CategoryValidationError  ErrorCategory = "validation_error"
	CategoryUnknown          ErrorCategory = "unknown"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type ActionType string

const (
	ActionRetry    ActionType = "retry"
	ActionFallback ActionType = "fallback"
	ActionSkip     ActionType = "skip"
	ActionManual   ActionType = "manual"
)

// RecoveryAction is the agent's decision for one classified failure.
// The orchestrator executes it and feeds the updated state back in.
type RecoveryAction struct {
	Type               ActionType     `json:"type"`
	TargetAgent        string         `json:"target_agent"`
	Reason             string         `json:"reason"`
	SuccessProbability float64        `json:"success_probability"`
	EstimatedTime      time.Duration  `json:"estimated_time_ms"`
	Parameters         map[string]any `json:"parameters,omitempty"`
}

// ErrorAnalysis is the full breakdown of one failure: its category,
// whether another attempt is worthwhile, and candidate actions in
// preference order.
type ErrorAnalysis struct {
	Category         ErrorCategory    `json:"category"`
	Retryable        bool             `json:"retryable"`
	Severity         Severity         `json:"severity"`
	SuggestedActions []RecoveryAction `json:"suggested_actions"`
}

// ProcessingControl is the retry bookkeeping for one job. It is
// mutated only by executing a retry action, or reset by the
// orchestrator between jobs.
type ProcessingControl struct {
	RetryCount int `json:"retry_count"`
}

// ProcessingState is the externally owned snapshot of one document
// processing job that recovery actions operate on.
type ProcessingState struct {
	DocumentID       string            `json:"document_id"`
	ExtractionMethod string            `json:"extraction_method,omitempty"`
	Control          ProcessingControl `json:"control"`
	NeedsHumanReview bool              `json:"needs_human_review"`
	ReviewRequired   bool              `json:"review_required"`
	Warnings         []string          `json:"warnings,omitempty"`
}
