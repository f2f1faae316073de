package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"ai-companion/internal/models"
	"ai-companion/internal/repositories"
	"ai-companion/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// articleNotFoundMessage is the Thai not-found message shown in the admin
// panel.
const articleNotFoundMessage = "ไม่พบบทความนี้"

// ArticleHandler handles the resource-library CRUD used by the admin panel.
type ArticleHandler struct {
	repo      repositories.ArticleRepository
	suggester *services.TagSuggester
	logger    *log.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(repo repositories.ArticleRepository, suggester *services.TagSuggester, logger *log.Logger) *ArticleHandler {
	return &ArticleHandler{repo: repo, suggester: suggester, logger: logger}
}

// List returns all articles
// @Summary List articles
// @Description Get all articles in the resource library, newest first
// @Tags articles
// @Produce json
// @Success 200 {array} models.Article
// @Failure 500 {object} handlers.ErrorResponse
// @Router /api/articles [get]
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Printf("Failed to list articles: %v", err)
		writeError(w, http.StatusInternalServerError, "ไม่สามารถโหลดรายการบทความได้")
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}
	writeJSON(w, http.StatusOK, articles)
}

// Get returns a single article by id
// @Summary Get an article
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} models.Article
// @Failure 404 {object} handlers.ErrorResponse
// @Router /api/articles/{id} [get]
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	article, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if repositories.IsNotFound(err) {
			writeError(w, http.StatusNotFound, articleNotFoundMessage)
			return
		}
		h.logger.Printf("Failed to get article %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "ไม่สามารถโหลดบทความได้")
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// Create adds a new article
// @Summary Create an article
// @Tags articles
// @Accept json
// @Produce json
// @Param article body models.ArticleInput true "Article payload"
// @Success 201 {object} models.Article
// @Failure 400 {object} handlers.ErrorResponse
// @Router /api/articles [post]
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "รูปแบบคำขอไม่ถูกต้อง")
		return
	}
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	article := &models.Article{
		ID:        uuid.New().String(),
		Title:     input.Title,
		Content:   input.Content,
		Source:    input.Source,
		URL:       input.URL,
		ImageURL:  input.ImageURL,
		Category:  input.Category,
		Date:      input.Date,
		Author:    input.Author,
		Tags:      input.Tags,
		CreatedAt: now,
	}

	if err := h.repo.Create(r.Context(), article); err != nil {
		h.logger.Printf("Failed to create article: %v", err)
		writeError(w, http.StatusInternalServerError, "ไม่สามารถบันทึกบทความได้")
		return
	}

	h.logger.Printf("Created article %s (%s)", article.ID, article.Title)
	writeJSON(w, http.StatusCreated, article)
}

// Update replaces an existing article
// @Summary Update an article
// @Tags articles
// @Accept json
// @Produce json
// @Param id path string true "Article ID"
// @Param article body models.ArticleInput true "Article payload"
// @Success 200 {object} models.Article
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Router /api/articles/{id} [put]
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input models.ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "รูปแบบคำขอไม่ถูกต้อง")
		return
	}
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if repositories.IsNotFound(err) {
			writeError(w, http.StatusNotFound, articleNotFoundMessage)
			return
		}
		h.logger.Printf("Failed to load article %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "ไม่สามารถแก้ไขบทความได้")
		return
	}

	article := &models.Article{
		ID:        id,
		Title:     input.Title,
		Content:   input.Content,
		Source:    input.Source,
		URL:       input.URL,
		ImageURL:  input.ImageURL,
		Category:  input.Category,
		Date:      input.Date,
		Author:    input.Author,
		Tags:      input.Tags,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Update(r.Context(), article); err != nil {
		if repositories.IsNotFound(err) {
			writeError(w, http.StatusNotFound, articleNotFoundMessage)
			return
		}
		h.logger.Printf("Failed to update article %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "ไม่สามารถแก้ไขบทความได้")
		return
	}

	writeJSON(w, http.StatusOK, article)
}

// Delete removes an article
// @Summary Delete an article
// @Tags articles
// @Param id path string true "Article ID"
// @Success 204 "No Content"
// @Failure 404 {object} handlers.ErrorResponse
// @Router /api/articles/{id} [delete]
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if repositories.IsNotFound(err) {
			writeError(w, http.StatusNotFound, articleNotFoundMessage)
			return
		}
		h.logger.Printf("Failed to delete article %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "ไม่สามารถลบบทความได้")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Keywords suggests tags for an article
// @Summary Suggest tags for an article
// @Description Extract candidate tags from the article's title and content
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Param limit query int false "Maximum number of suggestions" default(10)
// @Success 200 {array} services.TagSuggestion
// @Failure 404 {object} handlers.ErrorResponse
// @Router /api/articles/{id}/keywords [get]
func (h *ArticleHandler) Keywords(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	article, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if repositories.IsNotFound(err) {
			writeError(w, http.StatusNotFound, articleNotFoundMessage)
			return
		}
		h.logger.Printf("Failed to load article %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "ไม่สามารถแนะนำแท็กได้")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit ต้องเป็นจำนวนเต็มบวก")
			return
		}
		limit = parsed
	}

	suggestions, err := h.suggester.SuggestTop(*article, limit)
	if err != nil {
		h.logger.Printf("Keyword extraction failed for article %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "ไม่สามารถแนะนำแท็กได้")
		return
	}
	if suggestions == nil {
		suggestions = []services.TagSuggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}
