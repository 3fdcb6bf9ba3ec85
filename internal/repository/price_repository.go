package repository

import (
	"context"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PriceRepository interface {
	UpsertPrices(ctx context.Context, prices []*models.LivePrice) (int64, error)
	GetAllPrices(ctx context.Context) ([]*models.LivePrice, error)
	GetPriceByAssetID(ctx context.Context, assetID int) (*models.LivePrice, error)
}

type MongoPriceRepository struct {
	collection *mongo.Collection
}

func NewPriceRepository(client *mongo.Client, dbName, collectionName string) PriceRepository {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoPriceRepository{collection: collection}
}

// UpsertPrices replaces the stored quote of every given asset, keyed by
// asset_id, in one unordered bulk write. It returns the number of documents
// matched or inserted.
func (r *MongoPriceRepository) UpsertPrices(ctx context.Context, prices []*models.LivePrice) (int64, error) {
	if len(prices) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(prices))
	for _, p := range prices {
		if p == nil {
			continue
		}
		p.UpdatedAt = now
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"asset_id": p.AssetID}).
			SetUpdate(bson.M{"$set": bson.M{
				"asset_id":     p.AssetID,
				"name":         p.Name,
				"symbol":       p.Symbol,
				"slug":         p.Slug,
				"quote":        p.Quote,
				"last_updated": p.LastUpdated,
				"updated_at":   now,
			}}).
			SetUpsert(true))
	}
	if len(writes) == 0 {
		return 0, nil
	}

	res, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return res.MatchedCount + res.UpsertedCount, nil
}

func (r *MongoPriceRepository) GetAllPrices(ctx context.Context) ([]*models.LivePrice, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"asset_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prices []*models.LivePrice
	if err := cursor.All(ctx, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *MongoPriceRepository) GetPriceByAssetID(ctx context.Context, assetID int) (*models.LivePrice, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var price models.LivePrice
	err := r.collection.FindOne(ctx, bson.M{"asset_id": assetID}).Decode(&price)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &price, nil
}
