package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MarkerRepository stores named timestamps that let one job signal to the
// next that its output is complete.
type MarkerRepository interface {
	SetMarker(ctx context.Context, name string, at time.Time) error
	GetMarker(ctx context.Context, name string) (time.Time, bool, error)
}

type MongoMarkerRepository struct {
	collection *mongo.Collection
}

func NewMarkerRepository(client *mongo.Client, dbName, collectionName string) MarkerRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoMarkerRepository{collection: collection}
}

func (r *MongoMarkerRepository) SetMarker(ctx context.Context, name string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"at": at.UTC(), "updated_at": time.Now().UTC()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": name}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set marker %s: %w", name, err)
	}
	return nil
}

func (r *MongoMarkerRepository) GetMarker(ctx context.Context, name string) (time.Time, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var marker models.JobMarker
	err := r.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&marker)
	if err == mongo.ErrNoDocuments {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return marker.At.UTC(), true, nil
}

// RedisMarkerRepository keeps markers as RFC 3339 strings under a key prefix.
// Values are truncated to milliseconds so they compare equal to the ones the
// Mongo implementation returns.
type RedisMarkerRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisMarkerRepository(client *redis.Client, prefix string) MarkerRepository {
	return &RedisMarkerRepository{client: client, prefix: prefix}
}

func (r *RedisMarkerRepository) key(name string) string {
	return r.prefix + name
}

func (r *RedisMarkerRepository) SetMarker(ctx context.Context, name string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	value := at.UTC().Truncate(time.Millisecond).Format(time.RFC3339Nano)
	if err := r.client.Set(ctx, r.key(name), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set marker %s: %w", name, err)
	}
	return nil
}

func (r *RedisMarkerRepository) GetMarker(ctx context.Context, name string) (time.Time, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	value, err := r.client.Get(ctx, r.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	at, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("marker %s holds %q: %w", name, value, err)
	}
	return at.UTC(), true, nil
}
