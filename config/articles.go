package config

import (
	"encoding/json"
	"os"

	"ai-companion/internal/models"
)

// LoadArticles reads seed articles from a JSON file. Used to populate the
// in-memory store so a fresh deployment is not empty.
func LoadArticles(path string) ([]models.Article, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var articles []models.Article
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&articles); err != nil {
		return nil, err
	}

	return articles, nil
}
