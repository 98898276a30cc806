// Package classify detects the category of a document from its raw
// text: an external generative classifier when one is configured, a
// deterministic keyword-pattern fallback always.
package classify

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rashidmajid/docuflow/internal/core/domain"
)

const (
	// minCategoryScore is the floor below which no category is
	// considered detected.
	minCategoryScore = 2
	// runnerUpMargin keeps alternatives whose score is this close to
	// the winner's.
	runnerUpMargin  = 1
	maxAlternatives = 3
)

var photoKeywords = []string{"photo", "photograph", "صورة"}

// PatternClassifier is the deterministic keyword/pattern fallback.
type PatternClassifier struct {
	patterns []categoryPattern
}

// NewPatternClassifier builds the classifier from the built-in tables
// plus optional per-category extra keywords.
func NewPatternClassifier(extraKeywords map[domain.DocumentType][]string) *PatternClassifier {
	patterns := make([]categoryPattern, len(defaultPatterns))
	copy(patterns, defaultPatterns)
	for i := range patterns {
		if extra, ok := extraKeywords[patterns[i].docType]; ok {
			merged := make([]string, 0, len(patterns[i].keywords)+len(extra))
			merged = append(merged, patterns[i].keywords...)
			for _, kw := range extra {
				merged = append(merged, strings.ToLower(kw))
			}
			patterns[i].keywords = merged
		}
	}
	return &PatternClassifier{patterns: patterns}
}

// Classify scores every category by keyword and pattern hits and
// returns the best one, UNKNOWN when nothing clears the floor. Empty
// or whitespace-only text is UNKNOWN at confidence 0 with no metadata.
// Never fails.
func (c *PatternClassifier) Classify(text string) domain.ClassificationResult {
	if strings.TrimSpace(text) == "" {
		return domain.ClassificationResult{DocumentType: domain.TypeUnknown, Confidence: 0}
	}

	lowered := strings.ToLower(text)
	metadata := metadataFor(lowered, text)

	type scored struct {
		docType domain.DocumentType
		score   int
	}
	scores := make([]scored, 0, len(c.patterns))
	for _, p := range c.patterns {
		s := 0
		for _, kw := range p.keywords {
			if strings.Contains(lowered, kw) {
				s++
			}
		}
		for _, re := range p.patterns {
			if re.MatchString(text) {
				s += 2
			}
		}
		scores = append(scores, scored{docType: p.docType, score: s})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	best := scores[0]
	if best.score < minCategoryScore {
		return domain.ClassificationResult{
			DocumentType: domain.TypeUnknown,
			Confidence:   scoreConfidence(best.score),
			Metadata:     metadata,
		}
	}

	var alternatives []domain.TypeScore
	for _, s := range scores[1:] {
		if s.score < minCategoryScore || s.score < best.score-runnerUpMargin {
			break
		}
		alternatives = append(alternatives, domain.TypeScore{
			Type:       s.docType,
			Confidence: scoreConfidence(s.score),
		})
		if len(alternatives) == maxAlternatives {
			break
		}
	}

	return domain.ClassificationResult{
		DocumentType:     best.docType,
		Confidence:       scoreConfidence(best.score),
		AlternativeTypes: alternatives,
		Metadata:         metadata,
	}
}

// scoreConfidence converts a raw hit score to a 0-100 confidence.
// Scores under the floor stay well below 50.
func scoreConfidence(score int) float64 {
	if score < minCategoryScore {
		return float64(score) * 20
	}
	conf := 40 + float64(score)*15
	if conf > 95 {
		conf = 95
	}
	return conf
}

func metadataFor(lowered, text string) *domain.ClassificationMetadata {
	return &domain.ClassificationMetadata{
		Language: detectLanguage(text),
		HasPhoto: containsAnyFold(lowered, photoKeywords),
	}
}

func detectLanguage(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Arabic, r) {
			return "ar"
		}
	}
	return "en"
}

func containsAnyFold(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
