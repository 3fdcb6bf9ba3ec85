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

type TransactionFilter struct {
	UserID primitive.ObjectID
	Status models.TransactionStatus
	Type   models.TransactionType
}

type TransactionRepository interface {
	SaveTransaction(ctx context.Context, transaction *models.Transaction) error
	GetTransactionByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error)
	ResolvePending(ctx context.Context, id primitive.ObjectID, status models.TransactionStatus, note string, at time.Time) (bool, error)
	Reopen(ctx context.Context, id primitive.ObjectID, from models.TransactionStatus) error
}

type MongoTransactionRepository struct {
	collection *mongo.Collection
}

func NewTransactionRepository(client *mongo.Client, dbName, collectionName string) TransactionRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoTransactionRepository{collection: collection}
}

func (r *MongoTransactionRepository) SaveTransaction(ctx context.Context, transaction *models.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	transaction.ID = primitive.NewObjectID()
	transaction.RequestTime = time.Now()
	_, err := r.collection.InsertOne(ctx, transaction)
	return err
}

func (r *MongoTransactionRepository) GetTransactionByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var transaction models.Transaction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&transaction)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *MongoTransactionRepository) GetTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := bson.M{}
	if !filter.UserID.IsZero() {
		query["user_id"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["transaction_type"] = filter.Type
	}

	var transactions []*models.Transaction
	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.M{"request_time": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// ResolvePending moves a pending transaction to its final status. It reports
// false when the transaction was already reviewed.
func (r *MongoTransactionRepository) ResolvePending(ctx context.Context, id primitive.ObjectID, status models.TransactionStatus, note string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": models.TransactionStatusPending}
	update := bson.M{
		"$set": bson.M{
			"status":        status,
			"response_time": at,
			"admin_note":    note,
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update transaction: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

// Reopen returns a reviewed transaction to pending, used when the wallet
// side of an approval could not be applied.
func (r *MongoTransactionRepository) Reopen(ctx context.Context, id primitive.ObjectID, from models.TransactionStatus) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": from}
	update := bson.M{
		"$set":   bson.M{"status": models.TransactionStatusPending},
		"$unset": bson.M{"response_time": "", "admin_note": ""},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
