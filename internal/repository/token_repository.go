package repository

import (
	"context"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type RefreshTokenRepository interface {
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type MongoRefreshTokenRepository struct {
	collection *mongo.Collection
}

func NewRefreshTokenRepository(client *mongo.Client, dbName, collectionName string) RefreshTokenRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoRefreshTokenRepository{collection: collection}
}

func (r *MongoRefreshTokenRepository) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	token.ID = primitive.NewObjectID()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	if token.ExpiryDate.IsZero() {
		token.ExpiryDate = token.CreatedAt.Add(models.DefaultRefreshTokenTTL)
	}
	_, err := r.collection.InsertOne(ctx, token)
	return err
}

func (r *MongoRefreshTokenRepository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var rt models.RefreshToken
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&rt)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// DeleteRefreshToken removes a token if present. A missing token is not an
// error; the bool reports whether anything was deleted.
func (r *MongoRefreshTokenRepository) DeleteRefreshToken(ctx context.Context, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (r *MongoRefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, bulkTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"expiry_date": bson.M{"$lt": now}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
