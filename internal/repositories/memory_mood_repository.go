package repositories

import (
	"context"
	"sort"
	"sync"

	"ai-companion/internal/models"
)

// MemoryMoodRepository keeps mood entries in memory. Used for tests and
// deployments without MongoDB.
type MemoryMoodRepository struct {
	mu      sync.RWMutex
	entries []models.MoodEntry
}

// NewMemoryMoodRepository creates an empty in-memory mood store.
func NewMemoryMoodRepository() *MemoryMoodRepository {
	return &MemoryMoodRepository{}
}

// Create stores a mood entry.
func (r *MemoryMoodRepository) Create(ctx context.Context, entry *models.MoodEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

// List returns a page of a user's entries, newest first.
func (r *MemoryMoodRepository) List(ctx context.Context, query models.MoodQuery) (*models.MoodPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.MoodEntry
	for _, e := range r.entries {
		if e.UserID != query.UserID {
			continue
		}
		if query.From != nil && e.CreatedAt.Before(*query.From) {
			continue
		}
		if query.To != nil && e.CreatedAt.After(*query.To) {
			continue
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (query.Page - 1) * query.PageSize
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + query.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	items := append([]models.MoodEntry{}, matched[start:end]...)
	return &models.MoodPage{Items: items, Total: total, Page: query.Page, PageSize: query.PageSize}, nil
}
