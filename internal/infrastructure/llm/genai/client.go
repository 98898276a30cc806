// Package genai is the HTTP client for the external generative
// document classifier. Requests are throttled by a local rate limiter
// and guarded by a circuit breaker; every failure surfaces as an
// error so the caller can run its pattern fallback.
package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rashidmajid/docuflow/internal/core/domain"
	"github.com/rashidmajid/docuflow/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	guard      *resilience.Guard
}

// New builds a client for the generate endpoint at baseURL. A zero or
// negative requestsPerSecond disables local throttling; a nil guard
// disables the breaker and retry layer.
func New(baseURL, model string, requestsPerSecond float64, guard *resilience.Guard) *Client {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		limiter:    rate.NewLimiter(limit, 1),
		guard:      guard,
	}
}

// Classifier adapts the client to the AI classification port.
type Classifier struct {
	client *Client
}

func NewClassifier(client *Client) *Classifier {
	return &Classifier{client: client}
}

func (c *Classifier) Classify(ctx context.Context, text string, image []byte) (domain.AIClassification, error) {
	respText, err := c.client.generateJSON(ctx, buildClassificationPrompt(text), image)
	if err != nil {
		return domain.AIClassification{}, err
	}

	var result domain.AIClassification
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &result); err != nil {
		return domain.AIClassification{}, fmt.Errorf("parse classification json: %w", err)
	}
	if strings.TrimSpace(result.DocumentType) == "" {
		return domain.AIClassification{}, fmt.Errorf("parse classification json: missing document_type in %q", respText)
	}
	return result, nil
}

func (c *Client) generateJSON(ctx context.Context, prompt string, image []byte) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}
	if len(image) > 0 {
		reqBody["images"] = []string{base64.StdEncoding.EncodeToString(image)}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("genai rate limit wait: %w", err)
	}

	var response struct {
		Response string `json:"response"`
	}
	call := func(ctx context.Context) error {
		return c.postJSON(ctx, "/api/generate", reqBody, &response, "generate")
	}

	var err error
	if c.guard != nil {
		err = c.guard.Do(ctx, "generate", call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapTemporaryIfNeeded("generate classification", err)
	}
	return strings.TrimSpace(response.Response), nil
}

// extractJSONObject tolerates prose or fencing around the JSON body
// some models emit despite the format flag.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
