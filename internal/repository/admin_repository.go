package repository

import (
	"context"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AdminRepository interface {
	SaveAdmin(ctx context.Context, admin *models.AdminAccount) error
	GetAdminByID(ctx context.Context, id primitive.ObjectID) (*models.AdminAccount, error)
	GetAdminByUsername(ctx context.Context, username string) (*models.AdminAccount, error)
}

type MongoAdminRepository struct {
	collection *mongo.Collection
}

func NewAdminRepository(client *mongo.Client, dbName, collectionName string) AdminRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoAdminRepository{collection: collection}
}

func (r *MongoAdminRepository) SaveAdmin(ctx context.Context, admin *models.AdminAccount) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, admin)
	return err
}

func (r *MongoAdminRepository) GetAdminByID(ctx context.Context, id primitive.ObjectID) (*models.AdminAccount, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoAdminRepository) GetAdminByUsername(ctx context.Context, username string) (*models.AdminAccount, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoAdminRepository) findOne(ctx context.Context, filter bson.M) (*models.AdminAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var admin models.AdminAccount
	err := r.collection.FindOne(ctx, filter).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
