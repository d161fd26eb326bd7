package dataset

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/arcforge/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "arcforge"
	DefaultMongoCollection = "items"
	mongoConnectTimeout    = 10 * time.Second
)

// MongoSource reads items from a MongoDB collection. Documents use the
// same field names as dataset files.
type MongoSource struct {
	URI        string
	Database   string
	Collection string
}

// String describes the collection without credentials.
func (s MongoSource) String() string {
	return fmt.Sprintf("mongodb %s.%s", s.database(), s.collection())
}

func (s MongoSource) database() string {
	if s.Database == "" {
		return DefaultMongoDatabase
	}
	return s.Database
}

func (s MongoSource) collection() string {
	if s.Collection == "" {
		return DefaultMongoCollection
	}
	return s.Collection
}

// Load connects, reads every document sorted by id and disconnects.
// Network failures and timeouts are retried with backoff.
func (s MongoSource) Load(ctx context.Context) ([]Item, error) {
	if s.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongodb uri is required")
	}

	var items []Item
	err := retry(ctx, loadAttempts, loadDelay, func() error {
		var err error
		items, err = s.load(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s MongoSource) load(ctx context.Context) ([]Item, error) {
	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(s.URI))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", s, err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	coll := client.Database(s.database()).Collection(s.collection())
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, transient(fmt.Errorf("query %s: %w", s, err))
	}
	defer cur.Close(ctx)

	var items []Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, transient(fmt.Errorf("decode %s: %w", s, err))
	}
	return items, nil
}

// Store replaces the collection contents with items. It backs the
// "items import" command.
func (s MongoSource) Store(ctx context.Context, items []Item) error {
	if s.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "mongodb uri is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URI))
	if err != nil {
		return fmt.Errorf("connect %s: %w", s, err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	coll := client.Database(s.database()).Collection(s.collection())
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear %s: %w", s, err)
	}
	if len(items) == 0 {
		return nil
	}
	docs := make([]any, len(items))
	for i, it := range items {
		docs[i] = it
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert into %s: %w", s, err)
	}
	return nil
}
