package repositories

import (
	"context"
	"sync"

	"ai-companion/internal/models"
)

// MemoryArticleRepository keeps articles in a slice. Used for tests and
// deployments with neither a writable disk nor MongoDB.
type MemoryArticleRepository struct {
	mu       sync.RWMutex
	articles []models.Article
}

// NewMemoryArticleRepository creates an empty in-memory repository,
// optionally pre-seeded.
func NewMemoryArticleRepository(seed []models.Article) *MemoryArticleRepository {
	return &MemoryArticleRepository{articles: append([]models.Article{}, seed...)}
}

// List returns a copy of every article.
func (r *MemoryArticleRepository) List(ctx context.Context) ([]models.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Article{}, r.articles...), nil
}

// Get retrieves an article by id.
func (r *MemoryArticleRepository) Get(ctx context.Context, id string) (*models.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.articles {
		if r.articles[i].ID == id {
			a := r.articles[i]
			return &a, nil
		}
	}
	return nil, ArticleNotFoundError(id)
}

// Create appends a new article.
func (r *MemoryArticleRepository) Create(ctx context.Context, article *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.articles = append(r.articles, *article)
	return nil
}

// Update replaces the article with the same id.
func (r *MemoryArticleRepository) Update(ctx context.Context, article *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.articles {
		if r.articles[i].ID == article.ID {
			r.articles[i] = *article
			return nil
		}
	}
	return ArticleNotFoundError(article.ID)
}

// Delete removes the article with the given id.
func (r *MemoryArticleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.articles {
		if r.articles[i].ID == id {
			r.articles = append(r.articles[:i], r.articles[i+1:]...)
			return nil
		}
	}
	return ArticleNotFoundError(id)
}
