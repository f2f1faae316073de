package handlers

import (
	"log"
	"net/http"

	"ai-companion/internal/services"
)

// LLMHandler exposes the generation backend's health.
type LLMHandler struct {
	client *services.GeminiClient
	logger *log.Logger
}

// NewLLMHandler creates a new LLM handler
func NewLLMHandler(client *services.GeminiClient, logger *log.Logger) *LLMHandler {
	return &LLMHandler{client: client, logger: logger}
}

// Health reports the generation backend's state
// @Summary LLM backend health
// @Description Reports whether the Gemini client is configured and which model it currently prefers
// @Tags general
// @Produce json
// @Success 200 {object} services.HealthStatus
// @Router /llm/health [get]
func (h *LLMHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.client.Health()
	code := http.StatusOK
	if !status.Configured {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}
