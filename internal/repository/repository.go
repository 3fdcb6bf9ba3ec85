package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	opTimeout   = 5 * time.Second
	bulkTimeout = 30 * time.Second
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

// Collection names used by cmd/server and EnsureIndexes.
const (
	UsersCollection         = "users"
	PricesCollection        = "live_prices"
	InvestmentsCollection   = "investments"
	PlansCollection         = "plans"
	TradesCollection        = "live_trades"
	AdminsCollection        = "admins"
	RefreshTokensCollection = "admin_refresh_tokens"
	TransactionsCollection  = "transactions"
	LogsCollection          = "logs"
	MarkersCollection       = "job_markers"
)

// EnsureIndexes creates the secondary indexes the jobs and lookups rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, bulkTimeout)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		PricesCollection: {
			{Keys: bson.D{{Key: "asset_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		InvestmentsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expiry_date", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		TradesCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		AdminsCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		RefreshTokensCollection: {
			{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "expiry_date", Value: 1}}},
		},
		TransactionsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "request_time", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		LogsCollection: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
