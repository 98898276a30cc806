package classify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rashidmajid/docuflow/internal/core/domain"
	"github.com/rashidmajid/docuflow/internal/core/ports"
)

// Service classifies a document with the external generative
// classifier when one is configured, degrading to the pattern
// fallback on any failure. It never returns an error: the worst case
// is the fallback's own UNKNOWN result.
type Service struct {
	ai       ports.AIClassifier
	patterns *PatternClassifier
	logger   *slog.Logger
}

// NewService accepts a nil AI classifier, which forces the fallback
// for every call.
func NewService(ai ports.AIClassifier, patterns *PatternClassifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ai: ai, patterns: patterns, logger: logger}
}

// ClassifyWithPatterns bypasses the AI path entirely, for jobs
// degraded to deterministic mode by a fallback recovery action.
func (s *Service) ClassifyWithPatterns(text string) domain.ClassificationResult {
	return s.patterns.Classify(text)
}

// Classify runs the AI-first, pattern-fallback policy. The AI answer
// has its category normalized onto the closed set and its confidence
// clamped to [0,100]; pattern metadata is attached either way.
func (s *Service) Classify(ctx context.Context, text string, image []byte) domain.ClassificationResult {
	if s.ai == nil {
		return s.patterns.Classify(text)
	}

	raw, err := s.ai.Classify(ctx, text, image)
	if err != nil {
		s.logger.Warn("ai classification failed, using pattern fallback", "error", err)
		return s.patterns.Classify(text)
	}

	result := domain.ClassificationResult{
		DocumentType: NormalizeCategory(raw.DocumentType),
		Confidence:   clampConfidence(raw.Confidence),
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		result.Metadata = metadataFor(strings.ToLower(text), text)
	}
	return result
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
