package repositories

import (
	"context"

	"ai-companion/internal/models"
)

// MoodRepository stores tracked mood entries per user.
type MoodRepository interface {
	Create(ctx context.Context, entry *models.MoodEntry) error
	// List returns a page of a user's entries, newest first, plus the
	// total count matching the query.
	List(ctx context.Context, query models.MoodQuery) (*models.MoodPage, error)
}
