package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TradeRepository interface {
	SaveTrade(ctx context.Context, trade *models.LiveTrade) error
	GetTradeByID(ctx context.Context, id primitive.ObjectID) (*models.LiveTrade, error)
	GetTradesByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.LiveTrade, error)
	GetAllTrades(ctx context.Context) ([]*models.LiveTrade, error)
	UpdateTradeOutcome(ctx context.Context, trade *models.LiveTrade) (bool, error)
}

type MongoTradeRepository struct {
	collection *mongo.Collection
}

func NewTradeRepository(client *mongo.Client, dbName, collectionName string) TradeRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoTradeRepository{collection: collection}
}

func (r *MongoTradeRepository) SaveTrade(ctx context.Context, trade *models.LiveTrade) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()
	trade.ID = primitive.NewObjectID()
	trade.CreatedAt = now
	trade.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, trade)
	return err
}

func (r *MongoTradeRepository) GetTradeByID(ctx context.Context, id primitive.ObjectID) (*models.LiveTrade, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var trade models.LiveTrade
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trade)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *MongoTradeRepository) GetTradesByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.LiveTrade, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MongoTradeRepository) GetAllTrades(ctx context.Context) ([]*models.LiveTrade, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoTradeRepository) find(ctx context.Context, filter bson.M) ([]*models.LiveTrade, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trades []*models.LiveTrade
	if err := cursor.All(ctx, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// UpdateTradeOutcome persists the closing fields of a trade that has not been
// closed yet. It reports false when closed_at was already set.
func (r *MongoTradeRepository) UpdateTradeOutcome(ctx context.Context, trade *models.LiveTrade) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	set := bson.M{
		"status":      trade.Status,
		"exit_price":  trade.ExitPrice,
		"profit_loss": trade.ProfitLoss,
		"updated_at":  time.Now(),
	}
	if trade.ClosedAt != nil {
		set["closed_at"] = trade.ClosedAt
		set["duration"] = trade.Duration
	}

	filter := bson.M{"_id": trade.ID, "closed_at": nil}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update trade: %w", err)
	}
	return result.MatchedCount == 1, nil
}
