package handlers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-companion/internal/models"
	"ai-companion/internal/repositories"
	"ai-companion/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArticleRouter(repo repositories.ArticleRepository) *mux.Router {
	logger := log.New(&bytes.Buffer{}, "", 0)
	handler := NewArticleHandler(repo, services.NewTagSuggester(), logger)

	router := mux.NewRouter()
	router.HandleFunc("/api/articles", handler.List).Methods(http.MethodGet)
	router.HandleFunc("/api/articles", handler.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/articles/{id}", handler.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/articles/{id}", handler.Update).Methods(http.MethodPut)
	router.HandleFunc("/api/articles/{id}", handler.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/api/articles/{id}/keywords", handler.Keywords).Methods(http.MethodGet)
	return router
}

func validArticleInput() models.ArticleInput {
	return models.ArticleInput{
		Title:    "Coping with exam stress",
		Content:  "Exam stress builds when sleep and planning slip. Short breathing breaks help students reset focus.",
		Source:   "กรมสุขภาพจิต",
		URL:      "https://example.com/exam-stress",
		Category: "stress",
		Date:     "2024-03-01",
	}
}

func doJSON(t *testing.T, router *mux.Router, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestArticleHandler_CRUD(t *testing.T) {
	t.Run("create returns the stored article with an id", func(t *testing.T) {
		router := newArticleRouter(repositories.NewMemoryArticleRepository(nil))

		rec := doJSON(t, router, http.MethodPost, "/api/articles", validArticleInput())
		require.Equal(t, http.StatusCreated, rec.Code)

		var created models.Article
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Coping with exam stress", created.Title)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("create rejects missing fields", func(t *testing.T) {
		router := newArticleRouter(repositories.NewMemoryArticleRepository(nil))

		input := validArticleInput()
		input.Title = ""
		input.Category = ""
		rec := doJSON(t, router, http.MethodPost, "/api/articles", input)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "กรุณากรอกข้อมูลให้ครบถ้วน")
		assert.Contains(t, rec.Body.String(), "title")
		assert.Contains(t, rec.Body.String(), "category")
	})

	t.Run("create rejects malformed urls", func(t *testing.T) {
		router := newArticleRouter(repositories.NewMemoryArticleRepository(nil))

		input := validArticleInput()
		input.URL = "not-a-url"
		rec := doJSON(t, router, http.MethodPost, "/api/articles", input)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get unknown id returns 404 in Thai", func(t *testing.T) {
		router := newArticleRouter(repositories.NewMemoryArticleRepository(nil))

		rec := doJSON(t, router, http.MethodGet, "/api/articles/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "ไม่พบบทความนี้")
	})

	t.Run("update keeps createdAt and sets updatedAt", func(t *testing.T) {
		createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		repo := repositories.NewMemoryArticleRepository([]models.Article{{
			ID: "a1", Title: "old", Content: "c", Source: "s",
			URL: "https://example.com/a", Category: "stress", Date: "2024-01-01",
			CreatedAt: createdAt,
		}})
		router := newArticleRouter(repo)

		rec := doJSON(t, router, http.MethodPut, "/api/articles/a1", validArticleInput())
		require.Equal(t, http.StatusOK, rec.Code)

		var updated models.Article
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, "a1", updated.ID)
		assert.Equal(t, createdAt, updated.CreatedAt)
		assert.False(t, updated.UpdatedAt.IsZero())
	})

	t.Run("update unknown id returns 404", func(t *testing.T) {
		router := newArticleRouter(repositories.NewMemoryArticleRepository(nil))
		rec := doJSON(t, router, http.MethodPut, "/api/articles/missing", validArticleInput())
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete removes the article", func(t *testing.T) {
		repo := repositories.NewMemoryArticleRepository([]models.Article{{
			ID: "a1", Title: "t", Content: "c", Source: "s",
			URL: "https://example.com/a", Category: "stress", Date: "2024-01-01",
		}})
		router := newArticleRouter(repo)

		rec := doJSON(t, router, http.MethodDelete, "/api/articles/a1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/api/articles/a1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list returns an array even when empty", func(t *testing.T) {
		router := newArticleRouter(repositories.NewMemoryArticleRepository(nil))

		rec := doJSON(t, router, http.MethodGet, "/api/articles", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestArticleHandler_Keywords(t *testing.T) {
	repo := repositories.NewMemoryArticleRepository([]models.Article{{
		ID:       "a1",
		Title:    "Managing exam stress with breathing exercises",
		Content:  "Students facing exams report stress. Breathing exercises reduce stress and improve sleep before exams.",
		Source:   "s",
		URL:      "https://example.com/a",
		Category: "stress",
		Date:     "2024-01-01",
	}})
	router := newArticleRouter(repo)

	t.Run("returns scored suggestions", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/articles/a1/keywords?limit=5", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var suggestions []services.TagSuggestion
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &suggestions))
		require.NotEmpty(t, suggestions)
		assert.LessOrEqual(t, len(suggestions), 5)
		for _, s := range suggestions {
			assert.NotEmpty(t, s.Word)
			assert.Greater(t, s.Frequency, 0)
		}
	})

	t.Run("rejects a non-numeric limit", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/articles/a1/keywords?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown article returns 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/articles/missing/keywords", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
