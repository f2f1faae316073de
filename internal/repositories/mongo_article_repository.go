package repositories

import (
	"context"
	"errors"

	"ai-companion/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const articlesCollection = "articles"

// MongoArticleRepository stores articles in a MongoDB collection, keyed by
// the article id as _id.
type MongoArticleRepository struct {
	coll *mongo.Collection
}

// NewMongoArticleRepository creates a repository over db's articles
// collection.
func NewMongoArticleRepository(db *mongo.Database) *MongoArticleRepository {
	return &MongoArticleRepository{coll: db.Collection(articlesCollection)}
}

// List returns all articles, newest first.
func (r *MongoArticleRepository) List(ctx context.Context) ([]models.Article, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, NewRepositoryError("list_articles", "", err, "")
	}
	defer cursor.Close(ctx)

	articles := []models.Article{}
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, NewRepositoryError("list_articles", "", err, "")
	}
	return articles, nil
}

// Get retrieves an article by id.
func (r *MongoArticleRepository) Get(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ArticleNotFoundError(id)
	}
	if err != nil {
		return nil, NewRepositoryError("get_article", id, err, "")
	}
	return &article, nil
}

// Create inserts a new article.
func (r *MongoArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if _, err := r.coll.InsertOne(ctx, article); err != nil {
		return NewRepositoryError("create_article", article.ID, err, "")
	}
	return nil
}

// Update replaces the article with the same id.
func (r *MongoArticleRepository) Update(ctx context.Context, article *models.Article) error {
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": article.ID}, article)
	if err != nil {
		return NewRepositoryError("update_article", article.ID, err, "")
	}
	if result.MatchedCount == 0 {
		return ArticleNotFoundError(article.ID)
	}
	return nil
}

// Delete removes the article with the given id.
func (r *MongoArticleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return NewRepositoryError("delete_article", id, err, "")
	}
	if result.DeletedCount == 0 {
		return ArticleNotFoundError(id)
	}
	return nil
}
