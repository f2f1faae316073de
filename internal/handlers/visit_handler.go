package handlers

import (
	"log"
	"net/http"

	"ai-companion/internal/repositories"
)

// VisitHandler serves the site visit counter.
type VisitHandler struct {
	repo   repositories.VisitRepository
	logger *log.Logger
}

// NewVisitHandler creates a new visit handler
func NewVisitHandler(repo repositories.VisitRepository, logger *log.Logger) *VisitHandler {
	return &VisitHandler{repo: repo, logger: logger}
}

// Get returns the current visit stats
// @Summary Get visit stats
// @Description Read the visit counter without incrementing it
// @Tags visits
// @Produce json
// @Success 200 {object} models.VisitStats
// @Failure 500 {object} handlers.ErrorResponse
// @Router /api/visit-stats [get]
func (h *VisitHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.Get(r.Context())
	if err != nil {
		h.logger.Printf("Failed to read visit stats: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to read visit stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Record increments the visit counter
// @Summary Record a visit
// @Description Add one visit and return the new stats
// @Tags visits
// @Produce json
// @Success 200 {object} models.VisitStats
// @Failure 500 {object} handlers.ErrorResponse
// @Router /api/visit-stats [post]
func (h *VisitHandler) Record(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.Increment(r.Context())
	if err != nil {
		h.logger.Printf("Failed to record visit: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to record visit")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
