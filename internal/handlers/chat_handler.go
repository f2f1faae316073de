package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"ai-companion/internal/models"
	"ai-companion/internal/services"
)

// ChatHandler handles chat requests from the frontend
type ChatHandler struct {
	chatService *services.ChatService
	logger      *log.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService, logger *log.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, logger: logger}
}

// Chat handles one user turn
// @Summary Chat with the AI companion
// @Description Send a message plus optional conversation history and get a tagged response
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Chat request with message and optional history"
// @Success 200 {object} models.ChatResponse
// @Failure 400 {object} models.ChatResponse
// @Router /chat [post]
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var request models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ChatResponse{
			Message: "รูปแบบคำขอไม่ถูกต้อง: " + err.Error(),
			Status:  "error",
		})
		return
	}

	if request.Message == "" {
		writeJSON(w, http.StatusBadRequest, models.ChatResponse{
			Message: "กรุณาพิมพ์ข้อความ",
			Status:  "error",
		})
		return
	}

	// History problems are the caller's bug; reject before routing so the
	// router's never-throws contract holds.
	for _, msg := range request.History {
		if (msg.Role != "user" && msg.Role != "assistant") || msg.Content == "" {
			writeJSON(w, http.StatusBadRequest, models.ChatResponse{
				Message: "ข้อมูลประวัติการสนทนาไม่ถูกต้อง กรุณาลองใหม่อีกครั้ง",
				Status:  "error",
			})
			return
		}
	}

	result := h.chatService.Respond(r.Context(), request.Message, request.History)

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Message:    result.Answer,
		Status:     "success",
		Category:   result.Category,
		Source:     result.Source,
		Confidence: result.Confidence,
	})
}
