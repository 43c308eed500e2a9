package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultModel = "anthropic/claude-3.5-sonnet"

	requestTimeout = 90 * time.Second
	maxTokens      = 2048
)

// Adapter is a Generator over the OpenRouter chat completions API.
type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
	log     logrus.FieldLogger
}

// APIError is a non-2xx answer from the API. Body is truncated and has
// secrets redacted.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openrouter status %d: %s", e.StatusCode, e.Body)
}

func New(apiKey, model, baseURL string, log logrus.FieldLogger) *Adapter {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	baseURL = normalizeBaseURL(baseURL)
	return &Adapter{
		key:     apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Minute},
		log:     log.WithField("model", model),
	}
}

func (a *Adapter) Model() string { return a.model }

// Submit sends prompt as a single user message and returns the raw text of
// the first choice.
func (a *Adapter) Submit(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":      a.model,
		"stream":     false,
		"max_tokens": maxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	url := a.baseURL + "/api/v1/chat/completions"

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("openrouter timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return "", fmt.Errorf("openrouter request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("openrouter status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return "", &APIError{StatusCode: resp.StatusCode, Body: truncate(redactSecrets(string(rb), a.key), 400)}
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("openrouter decode: %w", err)
	}
	// No choices or unreadable content reads as empty text.
	if len(raw.Choices) == 0 {
		a.log.Debug("openrouter returned no choices")
		return "", nil
	}
	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		a.log.WithError(err).Debug("openrouter content unreadable")
		return "", nil
	}
	return content, nil
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("openrouter: empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("openrouter: unexpected content type %T", v)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
