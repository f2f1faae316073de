package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"ai-companion/internal/models"
	"ai-companion/internal/repositories"

	"github.com/google/uuid"
)

const (
	maxMoodTags     = 20
	maxMoodNoteLen  = 2000
	maxMoodPageSize = 100
)

// MoodHandler handles mood-tracker requests.
type MoodHandler struct {
	repo   repositories.MoodRepository
	logger *log.Logger
}

// NewMoodHandler creates a new mood handler
func NewMoodHandler(repo repositories.MoodRepository, logger *log.Logger) *MoodHandler {
	return &MoodHandler{repo: repo, logger: logger}
}

// MoodInput is the create payload for a mood entry.
type MoodInput struct {
	UserID    string   `json:"userId"`
	MoodScore int      `json:"moodScore"`
	Tags      []string `json:"tags"`
	Note      string   `json:"note"`
}

// Create records a mood entry
// @Summary Record a mood entry
// @Description Store one mood sample for a user. Scores outside 1..5, extra tags and an overlong note are clamped, not rejected.
// @Tags moods
// @Accept json
// @Produce json
// @Param entry body handlers.MoodInput true "Mood entry"
// @Success 201 {object} models.MoodEntry
// @Failure 400 {object} handlers.ErrorResponse
// @Router /api/moods [post]
func (h *MoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input MoodInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if input.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	// Out-of-bounds input is clamped, never rejected: extra tags and note
	// tail are dropped the same way an out-of-range score is pulled back
	// into 1..5.
	tags := input.Tags
	if len(tags) > maxMoodTags {
		tags = tags[:maxMoodTags]
	}
	note := input.Note
	if runes := []rune(note); len(runes) > maxMoodNoteLen {
		note = string(runes[:maxMoodNoteLen])
	}

	score := input.MoodScore
	if score < 1 {
		score = 1
	}
	if score > 5 {
		score = 5
	}

	entry := &models.MoodEntry{
		ID:        uuid.New().String(),
		UserID:    input.UserID,
		MoodScore: score,
		Tags:      tags,
		Note:      note,
		CreatedAt: time.Now(),
	}

	if err := h.repo.Create(r.Context(), entry); err != nil {
		h.logger.Printf("Failed to store mood entry for %s: %v", input.UserID, err)
		writeError(w, http.StatusInternalServerError, "Failed to store mood entry")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// List returns a page of a user's mood entries
// @Summary List mood entries
// @Description Get a user's mood entries newest first, optionally bounded by time
// @Tags moods
// @Produce json
// @Param userId query string true "User ID"
// @Param from query string false "RFC3339 lower bound on createdAt"
// @Param to query string false "RFC3339 upper bound on createdAt"
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Entries per page (max 100)" default(20)
// @Success 200 {object} models.MoodPage
// @Failure 400 {object} handlers.ErrorResponse
// @Router /api/moods [get]
func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := models.MoodQuery{
		UserID:   params.Get("userId"),
		Page:     1,
		PageSize: 20,
	}
	if query.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if raw := params.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be RFC3339")
			return
		}
		query.From = &t
	}
	if raw := params.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to must be RFC3339")
			return
		}
		query.To = &t
	}
	if raw := params.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		query.Page = parsed
	}
	if raw := params.Get("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "pageSize must be a positive integer")
			return
		}
		if parsed > maxMoodPageSize {
			parsed = maxMoodPageSize
		}
		query.PageSize = parsed
	}

	page, err := h.repo.List(r.Context(), query)
	if err != nil {
		h.logger.Printf("Failed to list mood entries for %s: %v", query.UserID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list mood entries")
		return
	}

	writeJSON(w, http.StatusOK, page)
}
