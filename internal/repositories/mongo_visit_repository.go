package repositories

import (
	"context"
	"errors"
	"time"

	"ai-companion/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	visitsCollection = "visits"
	visitCounterName = "site"
)

type visitDoc struct {
	CounterName string    `bson:"counterName"`
	VisitCount  int64     `bson:"visitCount"`
	LastUpdated time.Time `bson:"lastUpdated"`
}

// MongoVisitRepository keeps the counter as a single document addressed by
// counterName, incremented with $inc upserts.
type MongoVisitRepository struct {
	coll *mongo.Collection
}

// NewMongoVisitRepository creates a Mongo-backed counter over db's visits
// collection.
func NewMongoVisitRepository(db *mongo.Database) *MongoVisitRepository {
	return &MongoVisitRepository{coll: db.Collection(visitsCollection)}
}

// Get returns the current stats.
func (r *MongoVisitRepository) Get(ctx context.Context) (*models.VisitStats, error) {
	var doc visitDoc
	err := r.coll.FindOne(ctx, bson.M{"counterName": visitCounterName}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.VisitStats{VisitCount: initialVisitCount, LastUpdated: time.Now()}, nil
	}
	if err != nil {
		return nil, NewRepositoryError("get_visits", "", err, "")
	}
	return &models.VisitStats{VisitCount: doc.VisitCount, LastUpdated: doc.LastUpdated}, nil
}

// Increment atomically adds one visit, seeding the document on first use.
func (r *MongoVisitRepository) Increment(ctx context.Context) (*models.VisitStats, error) {
	now := time.Now()

	var doc visitDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"counterName": visitCounterName},
		bson.M{
			"$inc":         bson.M{"visitCount": 1},
			"$set":         bson.M{"lastUpdated": now},
			"$setOnInsert": bson.M{"counterName": visitCounterName},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, NewRepositoryError("increment_visits", "", err, "")
	}

	// A freshly upserted document starts from 1; lift it onto the seed so
	// the counter continues from the original deployment's value.
	if doc.VisitCount <= 1 {
		update := r.coll.FindOneAndUpdate(ctx,
			bson.M{"counterName": visitCounterName},
			bson.M{"$inc": bson.M{"visitCount": initialVisitCount}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)
		if err := update.Decode(&doc); err != nil {
			return nil, NewRepositoryError("increment_visits", "", err, "")
		}
	}

	return &models.VisitStats{VisitCount: doc.VisitCount, LastUpdated: now}, nil
}
