package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend is a MongoDB database handle.
type MongoBackend struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoBackend connects to uri and pings the server before returning.
func NewMongoBackend(ctx context.Context, uri, dbName string) (*MongoBackend, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &MongoBackend{client: client, db: client.Database(dbName)}, nil
}

func (b *MongoBackend) Name() string { return "mongo" }

func (b *MongoBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx, nil)
}

func (b *MongoBackend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

type mongoCollection[T any] struct {
	coll *mongo.Collection
}

func (c *mongoCollection[T]) Insert(ctx context.Context, id string, doc T) error {
	setID(&doc, id)
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// CreateIfAbsent upserts on the uniqueness field so the check and the write are one operation.
func (c *mongoCollection[T]) CreateIfAbsent(ctx context.Context, id string, doc T, field string, value any) error {
	setID(&doc, id)
	res, err := c.coll.UpdateOne(ctx,
		bson.M{field: value},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.UpsertedCount == 0 {
		return ErrDuplicate
	}
	return nil
}

func (c *mongoCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, ErrNotFound
	}
	return doc, err
}

func (c *mongoCollection[T]) FindEqual(ctx context.Context, field string, value any, limit int) ([]T, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return c.find(ctx, bson.M{field: value}, opts)
}

func (c *mongoCollection[T]) List(ctx context.Context) ([]T, error) {
	return c.find(ctx, bson.M{}, options.Find())
}

func (c *mongoCollection[T]) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *mongoCollection[T]) Replace(ctx context.Context, id string, doc T) error {
	setID(&doc, id)
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureUnique creates a unique index on field.
func (c *mongoCollection[T]) EnsureUnique(ctx context.Context, field string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_" + field),
	}
	if _, err := c.coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create unique index on %s.%s: %w", c.coll.Name(), field, err)
	}
	return nil
}
