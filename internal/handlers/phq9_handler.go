package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"ai-companion/internal/models"
	"ai-companion/internal/services"
)

// PHQ9Handler serves the depression screener.
type PHQ9Handler struct {
	service *services.PHQ9Service
	logger  *log.Logger
}

// NewPHQ9Handler creates a new screener handler
func NewPHQ9Handler(service *services.PHQ9Service, logger *log.Logger) *PHQ9Handler {
	return &PHQ9Handler{service: service, logger: logger}
}

// Questions returns the screener questions
// @Summary Get PHQ-9 questions
// @Description Get the nine screener questions with their answer options
// @Tags phq9
// @Produce json
// @Success 200 {array} models.PHQ9Question
// @Router /api/phq9/questions [get]
func (h *PHQ9Handler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Questions())
}

// Score scores a completed answer set
// @Summary Score a PHQ-9 answer set
// @Description Total nine answers (each 0..3) and return the severity band
// @Tags phq9
// @Accept json
// @Produce json
// @Param answers body models.PHQ9ScoreRequest true "Nine answers, each 0..3"
// @Success 200 {object} models.PHQ9Result
// @Failure 400 {object} handlers.ErrorResponse
// @Router /api/phq9/score [post]
func (h *PHQ9Handler) Score(w http.ResponseWriter, r *http.Request) {
	var request models.PHQ9ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	result, err := h.service.Score(request.Answers)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
