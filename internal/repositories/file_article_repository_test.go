package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ai-companion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArticle(id, title string) *models.Article {
	return &models.Article{
		ID:        id,
		Title:     title,
		Content:   "เนื้อหาบทความ",
		Source:    "กรมสุขภาพจิต",
		URL:       "https://example.com/" + id,
		Category:  "stress",
		Date:      "2024-03-01",
		CreatedAt: time.Now().Truncate(time.Second),
	}
}

func TestFileArticleRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file lists as empty", func(t *testing.T) {
		repo := NewFileArticleRepository(filepath.Join(t.TempDir(), "articles.json"))
		articles, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, articles)
	})

	t.Run("create then get round-trips", func(t *testing.T) {
		repo := NewFileArticleRepository(filepath.Join(t.TempDir(), "articles.json"))

		article := testArticle("a1", "บทความแรก")
		require.NoError(t, repo.Create(ctx, article))

		got, err := repo.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "บทความแรก", got.Title)
		assert.Equal(t, article.URL, got.URL)
	})

	t.Run("survives a reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "articles.json")
		require.NoError(t, NewFileArticleRepository(path).Create(ctx, testArticle("a1", "x")))

		reopened := NewFileArticleRepository(path)
		articles, err := reopened.List(ctx)
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "a1", articles[0].ID)
	})

	t.Run("update replaces in place", func(t *testing.T) {
		repo := NewFileArticleRepository(filepath.Join(t.TempDir(), "articles.json"))
		require.NoError(t, repo.Create(ctx, testArticle("a1", "เก่า")))

		updated := testArticle("a1", "ใหม่")
		require.NoError(t, repo.Update(ctx, updated))

		got, err := repo.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "ใหม่", got.Title)

		articles, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, articles, 1)
	})

	t.Run("delete removes the article", func(t *testing.T) {
		repo := NewFileArticleRepository(filepath.Join(t.TempDir(), "articles.json"))
		require.NoError(t, repo.Create(ctx, testArticle("a1", "x")))
		require.NoError(t, repo.Create(ctx, testArticle("a2", "y")))

		require.NoError(t, repo.Delete(ctx, "a1"))

		_, err := repo.Get(ctx, "a1")
		assert.True(t, IsNotFound(err))

		articles, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "a2", articles[0].ID)
	})

	t.Run("unknown ids report not found", func(t *testing.T) {
		repo := NewFileArticleRepository(filepath.Join(t.TempDir(), "articles.json"))

		_, err := repo.Get(ctx, "nope")
		assert.True(t, IsNotFound(err))
		assert.True(t, IsNotFound(repo.Update(ctx, testArticle("nope", "x"))))
		assert.True(t, IsNotFound(repo.Delete(ctx, "nope")))
	})

	t.Run("corrupt file surfaces a repository error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "articles.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := NewFileArticleRepository(path).List(ctx)
		require.Error(t, err)
		assert.False(t, IsNotFound(err))
	})
}

func TestMemoryArticleRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("seed articles are listed", func(t *testing.T) {
		repo := NewMemoryArticleRepository([]models.Article{*testArticle("s1", "seed")})
		articles, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "s1", articles[0].ID)
	})

	t.Run("crud round-trip", func(t *testing.T) {
		repo := NewMemoryArticleRepository(nil)

		require.NoError(t, repo.Create(ctx, testArticle("a1", "เก่า")))
		require.NoError(t, repo.Update(ctx, testArticle("a1", "ใหม่")))

		got, err := repo.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "ใหม่", got.Title)

		require.NoError(t, repo.Delete(ctx, "a1"))
		_, err = repo.Get(ctx, "a1")
		assert.True(t, IsNotFound(err))
	})

	t.Run("listed slice is a copy", func(t *testing.T) {
		repo := NewMemoryArticleRepository([]models.Article{*testArticle("a1", "original")})

		articles, err := repo.List(ctx)
		require.NoError(t, err)
		articles[0].Title = "mutated"

		got, err := repo.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "original", got.Title)
	})
}
