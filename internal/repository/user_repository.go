package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	GetWallets(ctx context.Context) ([]*models.User, error)
	ApplyValuations(ctx context.Context, vals []models.WalletValuation) (*BulkOutcome, error)
	SettleProfits(ctx context.Context) (int64, error)
	IncrementWallet(ctx context.Context, id primitive.ObjectID, field models.BalanceField, amount float64) error
	ApplyDeposit(ctx context.Context, id primitive.ObjectID, amount, bonus float64) error
	ApplyWithdrawal(ctx context.Context, id primitive.ObjectID, amount float64) error
}

// BulkOutcome reports an unordered bulk write where some documents may have
// failed while the rest were applied. Missed counts updates whose filter
// matched nothing.
type BulkOutcome struct {
	Matched  int64
	Modified int64
	Missed   int64
	Failed   []primitive.ObjectID
	Errors   []error
}

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(client *mongo.Client, dbName, collectionName string) UserRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoUserRepository{collection: collection}
}

func (r *MongoUserRepository) SaveUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return r.find(ctx, options.Find().SetSort(bson.M{"created_at": -1}))
}

// GetWallets loads only what the valuation engine needs.
func (r *MongoUserRepository) GetWallets(ctx context.Context) ([]*models.User, error) {
	return r.find(ctx, options.Find().SetProjection(bson.M{"_id": 1, "email": 1, "wallet": 1}))
}

func (r *MongoUserRepository) find(ctx context.Context, opts *options.FindOptions) ([]*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, bulkTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ApplyValuations writes one update per user in a single unordered bulk
// write, so a failing document never blocks the others. A user whose crypto
// balance changed since it was read is missed rather than revalued twice.
func (r *MongoUserRepository) ApplyValuations(ctx context.Context, vals []models.WalletValuation) (*BulkOutcome, error) {
	outcome := &BulkOutcome{}
	if len(vals) == 0 {
		return outcome, nil
	}

	ctx, cancel := context.WithTimeout(ctx, bulkTimeout)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(vals))
	for _, v := range vals {
		filter, update := valuationUpdate(v)
		writes = append(writes, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update))
	}

	res, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if res != nil {
		outcome.Matched = res.MatchedCount
		outcome.Modified = res.ModifiedCount
	}
	if err != nil {
		var bwe mongo.BulkWriteException
		if !errors.As(err, &bwe) || bwe.WriteConcernError != nil {
			return outcome, err
		}
		for _, we := range bwe.WriteErrors {
			if we.Index >= 0 && we.Index < len(vals) {
				outcome.Failed = append(outcome.Failed, vals[we.Index].UserID)
			}
			outcome.Errors = append(outcome.Errors, errors.New(we.Message))
		}
	}

	if missed := int64(len(vals)-len(outcome.Failed)) - outcome.Matched; missed > 0 {
		outcome.Missed = missed
	}
	return outcome, nil
}

// valuationUpdate moves the change in crypto value into balance with $inc so
// concurrent deposits and adjustments survive. The filter pins the crypto
// balance the delta was computed from; a missing field reads as zero.
func valuationUpdate(v models.WalletValuation) (bson.M, bson.M) {
	filter := bson.M{"_id": v.UserID, "wallet.crypto.crypto_balance": v.OldCryptoBalance}
	if v.OldCryptoBalance == 0 {
		filter["wallet.crypto.crypto_balance"] = bson.M{"$in": bson.A{0.0, nil}}
	}
	update := bson.M{
		"$inc": bson.M{"wallet.balance": v.Delta},
		"$set": bson.M{
			"wallet.crypto.crypto_balance": v.CryptoBalance,
			"wallet.fluctuation":           v.Fluctuation,
		},
	}
	return filter, update
}

// SettleProfits moves every user's accrued profits into balance with one
// pipeline update, evaluated per document by the server.
func (r *MongoUserRepository) SettleProfits(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, bulkTimeout)
	defer cancel()

	filter := bson.M{"wallet.profits": bson.M{"$exists": true, "$ne": 0}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "wallet.balance", Value: bson.M{"$add": bson.A{
				bson.M{"$ifNull": bson.A{"$wallet.balance", 0}},
				"$wallet.profits",
			}}},
			{Key: "wallet.profits", Value: 0},
		}}},
	}

	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to settle profits: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoUserRepository) IncrementWallet(ctx context.Context, id primitive.ObjectID, field models.BalanceField, amount float64) error {
	path := field.Path()
	if path == "" {
		return fmt.Errorf("invalid wallet field: %d", field)
	}
	return r.inc(ctx, bson.M{"_id": id}, bson.M{path: amount}, ErrNotFound)
}

func (r *MongoUserRepository) ApplyDeposit(ctx context.Context, id primitive.ObjectID, amount, bonus float64) error {
	credit := decimal.NewFromFloat(amount).Add(decimal.NewFromFloat(bonus)).InexactFloat64()
	return r.inc(ctx, bson.M{"_id": id}, bson.M{
		models.FieldBalance.Path():      credit,
		models.FieldTotalDeposit.Path(): amount,
		models.FieldTotalBonus.Path():   bonus,
	}, ErrNotFound)
}

// ApplyWithdrawal debits balance only while it covers the amount.
func (r *MongoUserRepository) ApplyWithdrawal(ctx context.Context, id primitive.ObjectID, amount float64) error {
	filter := bson.M{"_id": id, models.FieldBalance.Path(): bson.M{"$gte": amount}}
	return r.inc(ctx, filter, bson.M{
		models.FieldBalance.Path():   -amount,
		models.FieldWithdrawn.Path(): amount,
	}, ErrInsufficientFunds)
}

func (r *MongoUserRepository) inc(ctx context.Context, filter, fields bson.M, missErr error) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{
		"$inc": fields,
		"$set": bson.M{"updated_at": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	if result.MatchedCount == 0 {
		return missErr
	}
	return nil
}
