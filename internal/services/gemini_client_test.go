package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ai-companion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test harness
// ============================================================================

// scriptedBackend plays back a fixed sequence of responses and records
// every request it saw.
type scriptedBackend struct {
	mu        sync.Mutex
	responses []scriptedResponse
	requests  []recordedRequest
}

type scriptedResponse struct {
	status int
	body   string
}

type recordedRequest struct {
	path     string
	contents []geminiContent
}

func (b *scriptedBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		var req geminiRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.requests = append(b.requests, recordedRequest{path: r.URL.Path, contents: req.Contents})

		if len(b.responses) == 0 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":{"code":500,"message":"script exhausted"}}`)
			return
		}
		next := b.responses[0]
		b.responses = b.responses[1:]
		w.WriteHeader(next.status)
		fmt.Fprint(w, next.body)
	}
}

func (b *scriptedBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func okBody(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, text)
}

func newTestClient(t *testing.T, backend *scriptedBackend, models []string) (*GeminiClient, *[]time.Duration) {
	t.Helper()

	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	client := NewGeminiClient(GeminiConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Models:  models,
		Retry:   RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second},
	}, log.New(&bytes.Buffer{}, "", 0))

	var slept []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return client, &slept
}

// ============================================================================
// Tests
// ============================================================================

func TestGeminiClient_Generate(t *testing.T) {
	t.Run("success returns text and model", func(t *testing.T) {
		backend := &scriptedBackend{responses: []scriptedResponse{
			{http.StatusOK, okBody("สู้ๆ นะ")},
		}}
		client, _ := newTestClient(t, backend, []string{"model-a"})

		result, err := client.Generate(context.Background(), "prompt", nil)
		require.NoError(t, err)
		assert.Equal(t, "สู้ๆ นะ", result.Text)
		assert.Equal(t, "model-a", result.Model)
		assert.False(t, result.Degraded)
		assert.Equal(t, 1, backend.requestCount())
	})

	t.Run("history is truncated to the most recent window", func(t *testing.T) {
		backend := &scriptedBackend{responses: []scriptedResponse{
			{http.StatusOK, okBody("ok")},
		}}
		client, _ := newTestClient(t, backend, []string{"model-a"})

		var history []models.ChatMessage
		for i := 0; i < 25; i++ {
			role := "user"
			if i%2 == 1 {
				role = "assistant"
			}
			history = append(history, models.ChatMessage{Role: role, Content: fmt.Sprintf("turn-%d", i)})
		}

		_, err := client.Generate(context.Background(), "current", history)
		require.NoError(t, err)

		require.Equal(t, 1, backend.requestCount())
		contents := backend.requests[0].contents
		// 10 history turns plus the prompt itself.
		require.Len(t, contents, historyWindow+1)
		assert.Equal(t, "turn-15", contents[0].Parts[0].Text)
		assert.Equal(t, "current", contents[len(contents)-1].Parts[0].Text)
	})

	t.Run("assistant turns are sent with role model", func(t *testing.T) {
		backend := &scriptedBackend{responses: []scriptedResponse{
			{http.StatusOK, okBody("ok")},
		}}
		client, _ := newTestClient(t, backend, []string{"model-a"})

		_, err := client.Generate(context.Background(), "current", []models.ChatMessage{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		})
		require.NoError(t, err)

		contents := backend.requests[0].contents
		require.Len(t, contents, 3)
		assert.Equal(t, "user", contents[0].Role)
		assert.Equal(t, "model", contents[1].Role)
		assert.Equal(t, "user", contents[2].Role)
	})

	t.Run("invalid history fails before any network call", func(t *testing.T) {
		backend := &scriptedBackend{}
		client, _ := newTestClient(t, backend, []string{"model-a"})

		_, err := client.Generate(context.Background(), "prompt", []models.ChatMessage{
			{Role: "system", Content: "nope"},
		})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, 0, backend.requestCount())

		_, err = client.Generate(context.Background(), "prompt", []models.ChatMessage{
			{Role: "user", Content: ""},
		})
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, 0, backend.requestCount())
	})

	t.Run("overloaded models are skipped with one attempt each", func(t *testing.T) {
		backend := &scriptedBackend{responses: []scriptedResponse{
			{http.StatusServiceUnavailable, `{"error":{"code":503,"message":"The model is overloaded"}}`},
			{http.StatusServiceUnavailable, `{"error":{"code":503,"message":"The model is overloaded"}}`},
			{http.StatusOK, okBody("answer")},
		}}
		client, slept := newTestClient(t, backend, []string{"model-a", "model-b", "model-c"})

		result, err := client.Generate(context.Background(), "prompt", nil)
		require.NoError(t, err)
		assert.Equal(t, "answer", result.Text)
		assert.Equal(t, "model-c", result.Model)

		// One call per model, no backoff sleeps: overloaded means switch,
		// not retry.
		assert.Equal(t, 3, backend.requestCount())
		assert.Empty(t, *slept)
	})

	t.Run("bad requests are not retried", func(t *testing.T) {
		backend := &scriptedBackend{responses: []scriptedResponse{
			{http.StatusUnauthorized, `{"error":{"code":401,"message":"API key not valid"}}`},
			{http.StatusUnauthorized, `{"error":{"code":401,"message":"API key not valid"}}`},
		}}
		client, slept := newTestClient(t, backend, []string{"model-a", "model-b"})

		result, err := client.Generate(context.Background(), "prompt", nil)
		require.NoError(t, err)
		assert.True(t, result.Degraded)
		assert.Contains(t, apologies, result.Text)

		// One attempt per model, no backoff: an identical request cannot
		// start succeeding.
		assert.Equal(t, 2, backend.requestCount())
		assert.Empty(t, *slept)
	})

	t.Run("transient failures are retried with growing backoff", func(t *testing.T) {
		backend := &scriptedBackend{responses: []scriptedResponse{
			{http.StatusInternalServerError, `{"error":{"code":500,"message":"internal"}}`},
			{http.StatusInternalServerError, `{"error":{"code":500,"message":"internal"}}`},
			{http.StatusOK, okBody("answer")},
		}}
		client, slept := newTestClient(t, backend, []string{"model-a"})

		result, err := client.Generate(context.Background(), "prompt", nil)
		require.NoError(t, err)
		assert.Equal(t, "answer", result.Text)
		assert.Equal(t, "model-a", result.Model)
		assert.Equal(t, 3, backend.requestCount())
		assert.Equal(t, []time.Duration{1 * time.Second, 4 * time.Second}, *slept)
	})

	t.Run("quota exhaustion is terminal", func(t *testing.T) {
		backend := &scriptedBackend{responses: []scriptedResponse{
			{http.StatusTooManyRequests, `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"quota"}}`},
			{http.StatusOK, okBody("later")},
		}}
		client, slept := newTestClient(t, backend, []string{"model-a", "model-b"})

		result, err := client.Generate(context.Background(), "prompt", nil)
		require.NoError(t, err)
		assert.True(t, result.Degraded)
		assert.Equal(t, quotaApology, result.Text)
		assert.Equal(t, 1, backend.requestCount())
		assert.Empty(t, *slept)

		// Quota does not burn the model: the next call tries it again.
		result, err = client.Generate(context.Background(), "prompt", nil)
		require.NoError(t, err)
		assert.Equal(t, "later", result.Text)
		assert.Equal(t, "model-a", result.Model)
	})

	t.Run("fallback index never rewinds across calls", func(t *testing.T) {
		backend := &scriptedBackend{responses: []scriptedResponse{
			{http.StatusServiceUnavailable, `{"error":{"code":503,"message":"overloaded"}}`},
			{http.StatusOK, okBody("first")},
			{http.StatusOK, okBody("second")},
		}}
		client, _ := newTestClient(t, backend, []string{"model-a", "model-b"})

		result, err := client.Generate(context.Background(), "prompt", nil)
		require.NoError(t, err)
		assert.Equal(t, "model-b", result.Model)

		result, err = client.Generate(context.Background(), "prompt", nil)
		require.NoError(t, err)
		assert.Equal(t, "model-b", result.Model)
		assert.Contains(t, backend.requests[2].path, "model-b")
	})

	t.Run("total failure degrades with rotating apologies", func(t *testing.T) {
		var responses []scriptedResponse
		for i := 0; i < 6; i++ {
			responses = append(responses, scriptedResponse{
				http.StatusServiceUnavailable, `{"error":{"code":503,"message":"overloaded"}}`,
			})
		}
		backend := &scriptedBackend{responses: responses}
		client, _ := newTestClient(t, backend, []string{"model-a", "model-b"})

		first, err := client.Generate(context.Background(), "prompt", nil)
		require.NoError(t, err)
		assert.True(t, first.Degraded)
		assert.Contains(t, apologies, first.Text)

		// Models are exhausted now; further calls degrade without any
		// network traffic and rotate the apology.
		sent := backend.requestCount()
		second, err := client.Generate(context.Background(), "prompt", nil)
		require.NoError(t, err)
		assert.True(t, second.Degraded)
		assert.Equal(t, sent, backend.requestCount())
		assert.NotEqual(t, first.Text, second.Text)
	})

	t.Run("context cancellation is surfaced", func(t *testing.T) {
		backend := &scriptedBackend{responses: []scriptedResponse{
			{http.StatusOK, okBody("never")},
		}}
		client, _ := newTestClient(t, backend, []string{"model-a"})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Generate(ctx, "prompt", nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGeminiClient_Health(t *testing.T) {
	t.Run("reports configuration and current model", func(t *testing.T) {
		client := NewGeminiClient(GeminiConfig{APIKey: "k"}, log.New(&bytes.Buffer{}, "", 0))
		status := client.Health()
		assert.True(t, status.Configured)
		assert.Equal(t, defaultModels[0], status.CurrentModel)
		assert.Equal(t, len(defaultModels), status.ModelsRemaining)
	})

	t.Run("reports missing key", func(t *testing.T) {
		client := NewGeminiClient(GeminiConfig{}, log.New(&bytes.Buffer{}, "", 0))
		assert.False(t, client.Health().Configured)
	})
}

func TestRetryPolicy_Backoff(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}
	assert.Equal(t, 500*time.Millisecond, policy.Backoff(1))
	assert.Equal(t, 2*time.Second, policy.Backoff(2))
	assert.Equal(t, 4500*time.Millisecond, policy.Backoff(3))

	// The schedule is super-linear: each gap widens.
	for attempt := 3; attempt <= 6; attempt++ {
		gap := policy.Backoff(attempt) - policy.Backoff(attempt-1)
		prevGap := policy.Backoff(attempt-1) - policy.Backoff(attempt-2)
		assert.Greater(t, gap, prevGap)
	}
}
