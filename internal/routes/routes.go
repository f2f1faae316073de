package routes

import (
	"net/http"

	"ai-companion/internal/handlers"

	"github.com/gorilla/mux"
)

// Handlers bundles everything RegisterRoutes needs to wire the API.
type Handlers struct {
	Health http.HandlerFunc
	Home   http.HandlerFunc

	Chat    *handlers.ChatHandler
	LLM     *handlers.LLMHandler
	Article *handlers.ArticleHandler
	Mood    *handlers.MoodHandler
	PHQ9    *handlers.PHQ9Handler
	Visit   *handlers.VisitHandler
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(router *mux.Router, h *Handlers) {
	// Health endpoints
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/llm/health", h.LLM.Health).Methods(http.MethodGet)

	// Chat
	router.HandleFunc("/chat", h.Chat.Chat).Methods(http.MethodPost)

	// Resource library
	router.HandleFunc("/api/articles", h.Article.List).Methods(http.MethodGet)
	router.HandleFunc("/api/articles", h.Article.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/articles/{id}", h.Article.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/articles/{id}", h.Article.Update).Methods(http.MethodPut)
	router.HandleFunc("/api/articles/{id}", h.Article.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/api/articles/{id}/keywords", h.Article.Keywords).Methods(http.MethodGet)

	// Mood tracker
	router.HandleFunc("/api/moods", h.Mood.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/moods", h.Mood.List).Methods(http.MethodGet)

	// PHQ-9 screener
	router.HandleFunc("/api/phq9/questions", h.PHQ9.Questions).Methods(http.MethodGet)
	router.HandleFunc("/api/phq9/score", h.PHQ9.Score).Methods(http.MethodPost)

	// Visit counter
	router.HandleFunc("/api/visit-stats", h.Visit.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/visit-stats", h.Visit.Record).Methods(http.MethodPost)

	// Home last so it doesn't shadow anything
	router.HandleFunc("/", h.Home).Methods(http.MethodGet)
}
