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

type InvestmentFilter struct {
	UserID primitive.ObjectID
	Status models.InvestmentStatus
}

type InvestmentRepository interface {
	SaveInvestment(ctx context.Context, inv *models.Investment) error
	GetInvestmentByID(ctx context.Context, id primitive.ObjectID) (*models.Investment, error)
	GetInvestments(ctx context.Context, filter InvestmentFilter) ([]*models.Investment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.InvestmentStatus) error
	Activate(ctx context.Context, id primitive.ObjectID, start, expiry time.Time) (bool, error)
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

type MongoInvestmentRepository struct {
	collection *mongo.Collection
}

func NewInvestmentRepository(client *mongo.Client, dbName, collectionName string) InvestmentRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoInvestmentRepository{collection: collection}
}

func (r *MongoInvestmentRepository) SaveInvestment(ctx context.Context, inv *models.Investment) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()
	inv.ID = primitive.NewObjectID()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, inv)
	return err
}

func (r *MongoInvestmentRepository) GetInvestmentByID(ctx context.Context, id primitive.ObjectID) (*models.Investment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var inv models.Investment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&inv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *MongoInvestmentRepository) GetInvestments(ctx context.Context, filter InvestmentFilter) ([]*models.Investment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := bson.M{}
	if !filter.UserID.IsZero() {
		query["user_id"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var investments []*models.Investment
	if err := cursor.All(ctx, &investments); err != nil {
		return nil, err
	}
	return investments, nil
}

// openInvestment matches an investment that has not reached a terminal status.
func openInvestment(id primitive.ObjectID) bson.M {
	return bson.M{
		"_id":    id,
		"status": bson.M{"$nin": bson.A{models.InvestmentFailed, models.InvestmentExpired}},
	}
}

// UpdateStatus returns ErrNotFound when the investment is missing or already
// terminal.
func (r *MongoInvestmentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.InvestmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, openInvestment(id), update)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Activate sets status, start and expiry in one write, but only while the
// investment is open and has no expiry yet. It reports whether the dates were
// written.
func (r *MongoInvestmentRepository) Activate(ctx context.Context, id primitive.ObjectID, start, expiry time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := openInvestment(id)
	filter["expiry_date"] = nil
	update := bson.M{"$set": bson.M{
		"status":      models.InvestmentActive,
		"start_date":  start,
		"expiry_date": expiry,
		"updated_at":  time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to activate investment: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

// ExpireDue marks every active investment whose expiry has passed as expired.
func (r *MongoInvestmentRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, bulkTimeout)
	defer cancel()

	filter := bson.M{
		"status":      models.InvestmentActive,
		"expiry_date": bson.M{"$lte": now},
	}
	update := bson.M{"$set": bson.M{"status": models.InvestmentExpired, "updated_at": now}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire investments: %w", err)
	}
	return result.ModifiedCount, nil
}
