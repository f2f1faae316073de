package repositories

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"ai-companion/internal/models"
)

// FileArticleRepository persists articles as a single pretty-printed JSON
// file, matching the original flat-file deployment. A mutex serializes
// read-modify-write cycles; the expected load is one admin editing.
type FileArticleRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileArticleRepository creates a repository backed by the JSON file at
// path. The file and its directory are created lazily on first write.
func NewFileArticleRepository(path string) *FileArticleRepository {
	return &FileArticleRepository{path: path}
}

func (r *FileArticleRepository) read() ([]models.Article, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return []models.Article{}, nil
	}
	if err != nil {
		return nil, NewRepositoryError("read_articles", "", err, "")
	}

	var articles []models.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, NewRepositoryError("read_articles", "", err, "failed to parse articles file")
	}
	return articles, nil
}

func (r *FileArticleRepository) write(articles []models.Article) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return NewRepositoryError("write_articles", "", err, "")
	}
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return NewRepositoryError("write_articles", "", err, "")
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return NewRepositoryError("write_articles", "", err, "")
	}
	return nil
}

// List returns every article in file order.
func (r *FileArticleRepository) List(ctx context.Context) ([]models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

// Get retrieves an article by id.
func (r *FileArticleRepository) Get(ctx context.Context, id string) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	articles, err := r.read()
	if err != nil {
		return nil, err
	}
	for i := range articles {
		if articles[i].ID == id {
			return &articles[i], nil
		}
	}
	return nil, ArticleNotFoundError(id)
}

// Create appends a new article.
func (r *FileArticleRepository) Create(ctx context.Context, article *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	articles, err := r.read()
	if err != nil {
		return err
	}
	articles = append(articles, *article)
	return r.write(articles)
}

// Update replaces the article with the same id.
func (r *FileArticleRepository) Update(ctx context.Context, article *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	articles, err := r.read()
	if err != nil {
		return err
	}
	for i := range articles {
		if articles[i].ID == article.ID {
			articles[i] = *article
			return r.write(articles)
		}
	}
	return ArticleNotFoundError(article.ID)
}

// Delete removes the article with the given id.
func (r *FileArticleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	articles, err := r.read()
	if err != nil {
		return err
	}
	for i := range articles {
		if articles[i].ID == id {
			articles = append(articles[:i], articles[i+1:]...)
			return r.write(articles)
		}
	}
	return ArticleNotFoundError(id)
}
