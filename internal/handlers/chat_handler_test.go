package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-companion/internal/models"
	"ai-companion/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator returns a fixed result for every Generate call.
type stubGenerator struct {
	result *services.GenerationResult
	err    error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, history []models.ChatMessage) (*services.GenerationResult, error) {
	return s.result, s.err
}

func newChatHandler(generator services.GenerationClient) *ChatHandler {
	logger := log.New(&bytes.Buffer{}, "", 0)
	chatService := services.NewChatService(
		services.NewClassifier(),
		services.NewRuleTable(),
		services.NewPromptBuilder(),
		generator,
		logger,
	)
	return NewChatHandler(chatService, logger)
}

func postChat(t *testing.T, handler *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Chat(rec, req)
	return rec
}

func TestChatHandler_Chat(t *testing.T) {
	t.Run("crisis message answers from the rule table", func(t *testing.T) {
		handler := newChatHandler(&stubGenerator{})

		rec := postChat(t, handler, `{"message":"อยากตายทุกวัน"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.ChatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, models.SourceRule, resp.Source)
		assert.Equal(t, models.CategoryDepression, resp.Category)
		assert.Equal(t, 1.0, resp.Confidence)
		assert.Contains(t, resp.Message, services.CrisisHotline)
	})

	t.Run("generated answer is tagged gemini", func(t *testing.T) {
		handler := newChatHandler(&stubGenerator{
			result: &services.GenerationResult{Text: "ลองหายใจลึกๆ นะ", Model: "gemini-2.0-flash"},
		})

		rec := postChat(t, handler, `{"message":"ไม่รู้จะทำยังไงกับความเครียดเรื่องสอบ"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.ChatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, models.SourceGemini, resp.Source)
		assert.Equal(t, models.CategoryStress, resp.Category)
		assert.Equal(t, "ลองหายใจลึกๆ นะ", resp.Message)
	})

	t.Run("degraded answer is tagged prompt", func(t *testing.T) {
		handler := newChatHandler(&stubGenerator{
			result: &services.GenerationResult{Text: "ขออภัยค่ะ ลองใหม่อีกครั้งนะ", Degraded: true},
		})

		rec := postChat(t, handler, `{"message":"เครียดมากเลย"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.ChatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, models.SourcePrompt, resp.Source)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		handler := newChatHandler(&stubGenerator{})

		rec := postChat(t, handler, `{"message":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp models.ChatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		handler := newChatHandler(&stubGenerator{})
		rec := postChat(t, handler, `{"message":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid history role is rejected before generation", func(t *testing.T) {
		handler := newChatHandler(&stubGenerator{})
		rec := postChat(t, handler, `{"message":"เครียด","history":[{"role":"system","content":"x"}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty history content is rejected", func(t *testing.T) {
		handler := newChatHandler(&stubGenerator{})
		rec := postChat(t, handler, `{"message":"เครียด","history":[{"role":"user","content":""}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
