package repository

import (
	"context"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PlanRepository interface {
	SavePlan(ctx context.Context, plan *models.Plan) error
	GetPlanByID(ctx context.Context, id primitive.ObjectID) (*models.Plan, error)
	GetAllPlans(ctx context.Context) ([]*models.Plan, error)
}

type MongoPlanRepository struct {
	collection *mongo.Collection
}

func NewPlanRepository(client *mongo.Client, dbName, collectionName string) PlanRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoPlanRepository{collection: collection}
}

func (r *MongoPlanRepository) SavePlan(ctx context.Context, plan *models.Plan) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, plan)
	return err
}

func (r *MongoPlanRepository) GetPlanByID(ctx context.Context, id primitive.ObjectID) (*models.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var plan models.Plan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *MongoPlanRepository) GetAllPlans(ctx context.Context) ([]*models.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"limits.min": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []*models.Plan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}
