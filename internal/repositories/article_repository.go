package repositories

import (
	"context"

	"ai-companion/internal/models"
)

// ArticleRepository is the storage contract for the resource library.
// Implementations are interchangeable: a JSON file, an in-memory list,
// or MongoDB, selected at startup.
type ArticleRepository interface {
	List(ctx context.Context) ([]models.Article, error)
	Get(ctx context.Context, id string) (*models.Article, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id string) error
}
