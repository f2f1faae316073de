package repositories

import (
	"context"

	"ai-companion/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const moodsCollection = "mood_entries"

// MongoMoodRepository stores mood entries in MongoDB, indexed on
// userId+createdAt for the listing query.
type MongoMoodRepository struct {
	coll *mongo.Collection
}

// NewMongoMoodRepository creates a repository over db's mood_entries
// collection.
func NewMongoMoodRepository(db *mongo.Database) *MongoMoodRepository {
	return &MongoMoodRepository{coll: db.Collection(moodsCollection)}
}

// Create stores a mood entry.
func (r *MongoMoodRepository) Create(ctx context.Context, entry *models.MoodEntry) error {
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return NewRepositoryError("create_mood", entry.ID, err, "")
	}
	return nil
}

// List returns a page of a user's entries, newest first, plus the total.
func (r *MongoMoodRepository) List(ctx context.Context, query models.MoodQuery) (*models.MoodPage, error) {
	filter := bson.M{"userId": query.UserID}
	if query.From != nil || query.To != nil {
		created := bson.M{}
		if query.From != nil {
			created["$gte"] = *query.From
		}
		if query.To != nil {
			created["$lte"] = *query.To
		}
		filter["createdAt"] = created
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((query.Page - 1) * query.PageSize)).
		SetLimit(int64(query.PageSize))

	cursor, err := r.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, NewRepositoryError("list_moods", "", err, "")
	}
	defer cursor.Close(ctx)

	items := []models.MoodEntry{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, NewRepositoryError("list_moods", "", err, "")
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, NewRepositoryError("list_moods", "", err, "")
	}

	return &models.MoodPage{Items: items, Total: total, Page: query.Page, PageSize: query.PageSize}, nil
}
