package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds configuration for the MongoDB connection
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// DefaultMongoConfig returns a MongoDB configuration with sensible defaults
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:      "mongodb://localhost:27017",
		Database: "ai_counselor",
		Timeout:  10 * time.Second,
	}
}

// MongoClient wraps the MongoDB client and the application database handle
type MongoClient struct {
	client *mongo.Client
	db     *mongo.Database
	config MongoConfig
}

// NewMongoClient connects to MongoDB and verifies the connection
func NewMongoClient(ctx context.Context, config MongoConfig) (*MongoClient, error) {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, err
	}

	return &MongoClient{
		client: client,
		db:     client.Database(config.Database),
		config: config,
	}, nil
}

// Ping checks if MongoDB is alive
func (m *MongoClient) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the repositories rely on. Index errors
// are returned but safe to log-and-continue; they must not take the
// service down.
func (m *MongoClient) EnsureIndexes(ctx context.Context) error {
	_, err := m.db.Collection("visits").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "counterName", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = m.db.Collection("mood_entries").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// Database returns the application database handle for repository use
func (m *MongoClient) Database() *mongo.Database {
	return m.db
}

// Close disconnects from MongoDB
func (m *MongoClient) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
