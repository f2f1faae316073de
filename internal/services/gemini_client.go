package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"ai-companion/internal/models"
)

const (
	// GeminiBaseURL is the Google Generative Language API endpoint.
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// historyWindow caps how many of the most recent conversation turns
	// are forwarded to the backend. Older turns are dropped, not summarized.
	historyWindow = 10
)

// defaultModels is the ranked fallback order. Once the client advances past
// a model it is not retried again within this process.
var defaultModels = []string{
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
}

// apologies rotate as the degraded response when every model and retry is
// exhausted. The chat UI must never see a raw error instead of one of these.
var apologies = []string{
	"ขออภัยค่ะ ตอนนี้ระบบมีผู้ใช้งานจำนวนมาก ขอให้ลองใหม่อีกครั้งในอีกสักครู่นะ",
	"ขอโทษด้วยนะ ตอนนี้เราตอบไม่ได้ชั่วคราว แต่เรายังอยู่ตรงนี้ ลองพิมพ์มาใหม่อีกครั้งได้เลย",
	"ขออภัยค่ะ การเชื่อมต่อมีปัญหาชั่วคราว กรุณาลองใหม่อีกครั้งในภายหลังนะ",
}

// quotaApology is the terminal message for quota exhaustion; it is not retried.
const quotaApology = "เกินโควต้าการใช้งานชั่วคราว กรุณาลองใหม่ในภายหลังนะ ขอโทษด้วยค่ะ"

// ValidationError reports malformed conversation history. It is a
// client-side programming error, raised before any network call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid conversation history: " + e.Reason
}

// GenerationResult is the outcome of one Generate call. Degraded is set
// when Text is a canned apology rather than model output.
type GenerationResult struct {
	Text     string
	Model    string
	Degraded bool
}

// GenerationClient produces a reply for a prompt plus conversation history.
type GenerationClient interface {
	Generate(ctx context.Context, prompt string, history []models.ChatMessage) (*GenerationResult, error)
}

// RetryPolicy bounds the per-model retry loop. Backoff grows with the
// attempt number so the policy is unit-testable without real delays.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy mirrors the original deployment: 3 attempts with
// exponential backoff between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 1 * time.Second}
}

// Backoff returns the delay before the given 1-based attempt. The delay
// grows quadratically, so repeated failures back off hard.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return time.Duration(attempt*attempt) * p.BaseDelay
}

// SleepFunc waits for d or until ctx is done. Injected so tests can
// observe backoffs instead of waiting them out.
type SleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GeminiClient calls the Gemini generateContent API with conversation
// history shaping, ranked model fallback, bounded retry with backoff, and
// graceful degradation to a canned apology.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	models     []string
	httpClient *http.Client
	retry      RetryPolicy
	sleep      SleepFunc
	logger     *log.Logger

	// modelIndex is process-wide and only ever advances. Concurrent chat
	// sessions may race on it: a session can observe a model already
	// advanced by another session's failure. That is benign (an eager
	// switch, never a rewind or corruption), so it is CAS-advanced
	// rather than locked.
	modelIndex atomic.Int32

	// apologyIndex rotates the degraded responses.
	apologyIndex atomic.Uint32
}

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	BaseURL        string
	APIKey         string
	Models         []string
	AttemptTimeout time.Duration
	Retry          RetryPolicy
}

// NewGeminiClient creates a client with sensible defaults for anything
// unset in cfg.
func NewGeminiClient(cfg GeminiConfig, logger *log.Logger) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = GeminiBaseURL
	}
	if len(cfg.Models) == 0 {
		cfg.Models = defaultModels
	}
	if cfg.AttemptTimeout == 0 {
		cfg.AttemptTimeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryPolicy()
	}

	return &GeminiClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		models:  cfg.Models,
		httpClient: &http.Client{
			Timeout: cfg.AttemptTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retry:  cfg.Retry,
		sleep:  defaultSleep,
		logger: logger,
	}
}

// HealthStatus reports the client's configuration state. It does not
// spend quota on a live upstream call.
type HealthStatus struct {
	Configured      bool   `json:"configured"`
	CurrentModel    string `json:"currentModel,omitempty"`
	ModelsRemaining int    `json:"modelsRemaining"`
}

// Health returns the client's current configuration state.
func (c *GeminiClient) Health() HealthStatus {
	status := HealthStatus{Configured: c.apiKey != ""}
	idx := int(c.modelIndex.Load())
	if idx < len(c.models) {
		status.CurrentModel = c.models[idx]
		status.ModelsRemaining = len(c.models) - idx
	}
	return status
}

// ============================================================================
// Gemini API wire format
// ============================================================================

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"` // "user" or "model"
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// attemptError classifies a failed attempt so the loop knows whether to
// back off, switch models, or give up.
type attemptError struct {
	kind  string // "overloaded", "rejected", "quota", "network", "upstream"
	model string
	err   error
}

func (e *attemptError) Error() string {
	return fmt.Sprintf("gemini %s (%s): %v", e.kind, e.model, e.err)
}

func (e *attemptError) Unwrap() error { return e.err }

// ============================================================================
// Generate
// ============================================================================

// Generate sends the prompt plus a bounded window of conversation history
// to the highest-ranked model still considered healthy.
//
// Per call: SELECT_MODEL → SEND → success, or backoff and re-SEND on a
// retryable failure, or advance to the next model when the current one is
// overloaded. When everything is exhausted it returns a degraded apology
// with a nil error; the only error it ever returns is a *ValidationError,
// raised before any network I/O.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, history []models.ChatMessage) (*GenerationResult, error) {
	if err := validateHistory(history); err != nil {
		return nil, err
	}
	contents := buildContents(prompt, truncateHistory(history, historyWindow))

	for {
		idx := c.modelIndex.Load()
		if int(idx) >= len(c.models) {
			c.logger.Printf("all models exhausted, returning degraded response")
			return c.degraded(), nil
		}
		model := c.models[idx]

		switchModel := false
		for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
			if attempt > 1 {
				if err := c.sleep(ctx, c.retry.Backoff(attempt-1)); err != nil {
					return nil, err
				}
			}

			text, err := c.send(ctx, model, contents)
			if err == nil {
				return &GenerationResult{Text: text, Model: model}, nil
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			ae, ok := err.(*attemptError)
			if !ok {
				c.logger.Printf("gemini call failed (%s): %v", model, err)
				return c.degraded(), nil
			}
			switch ae.kind {
			case "quota":
				// Terminal for this call; hammering the API further
				// will not help.
				c.logger.Printf("quota exceeded on %s", model)
				return &GenerationResult{Text: quotaApology, Model: model, Degraded: true}, nil
			case "overloaded":
				c.logger.Printf("model %s overloaded, switching (attempt %d/%d)", model, attempt, c.retry.MaxAttempts)
				switchModel = true
			case "rejected":
				c.logger.Printf("request rejected by %s, not retrying: %v", model, err)
				switchModel = true
			default:
				c.logger.Printf("gemini call failed (%s, attempt %d/%d): %v", model, attempt, c.retry.MaxAttempts, err)
			}
			if switchModel {
				break
			}
		}

		// Either the model reported itself overloaded or its retry budget
		// ran out; move past it for the rest of this process's lifetime.
		c.advancePast(idx)
	}
}

// send performs one SEND transition against a single model.
func (c *GeminiClient) send(ctx context.Context, model string, contents []geminiContent) (string, error) {
	reqBody := geminiRequest{
		Contents: contents,
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &attemptError{kind: "network", model: model, err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &attemptError{kind: "network", model: model, err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyHTTPError(model, resp.StatusCode, body)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &attemptError{kind: "upstream", model: model, err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", &attemptError{kind: "upstream", model: model, err: fmt.Errorf("empty response")}
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

func classifyHTTPError(model string, status int, body []byte) *attemptError {
	msg := string(body)
	base := fmt.Errorf("HTTP %d: %s", status, msg)

	switch {
	case status == http.StatusServiceUnavailable || strings.Contains(msg, "overloaded"):
		return &attemptError{kind: "overloaded", model: model, err: base}
	case status == http.StatusTooManyRequests || strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "quota"):
		return &attemptError{kind: "quota", model: model, err: base}
	case status >= 500:
		return &attemptError{kind: "upstream", model: model, err: base}
	default:
		// 4xx other than quota (bad request, bad API key): retrying an
		// identical request will not change the outcome.
		return &attemptError{kind: "rejected", model: model, err: base}
	}
}

// advancePast moves the fallback index past from, if nobody else already
// did. The index never rewinds.
func (c *GeminiClient) advancePast(from int32) {
	c.modelIndex.CompareAndSwap(from, from+1)
}

// degraded returns the next apology in rotation.
func (c *GeminiClient) degraded() *GenerationResult {
	i := c.apologyIndex.Add(1) - 1
	return &GenerationResult{
		Text:     apologies[int(i)%len(apologies)],
		Degraded: true,
	}
}

// ============================================================================
// History shaping
// ============================================================================

// validateHistory checks every turn before any network call is made.
func validateHistory(history []models.ChatMessage) error {
	for i, msg := range history {
		if msg.Role != "user" && msg.Role != "assistant" {
			return &ValidationError{Reason: fmt.Sprintf("turn %d has role %q", i, msg.Role)}
		}
		if msg.Content == "" {
			return &ValidationError{Reason: fmt.Sprintf("turn %d has empty content", i)}
		}
	}
	return nil
}

// truncateHistory keeps the most recent n turns.
func truncateHistory(history []models.ChatMessage, n int) []models.ChatMessage {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// buildContents converts chat-format turns to the Gemini wire format and
// appends the prompt as the final user turn.
func buildContents(prompt string, history []models.ChatMessage) []geminiContent {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, msg := range history {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: prompt}},
	})
	return contents
}
