package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestPriceRepositoryUpsertPrices(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matched and inserted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 1},
			bson.E{Key: "upserted", Value: bson.A{
				bson.D{{Key: "index", Value: 1}, {Key: "_id", Value: "x"}},
			}},
		))
		repo := NewPriceRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())

		n, err := repo.UpsertPrices(context.Background(), []*models.LivePrice{
			{AssetID: 1, Symbol: "BTC"},
			{AssetID: 52, Symbol: "XRP"},
		})
		require.NoError(mt, err)
		assert.EqualValues(mt, 2, n)
	})

	mt.Run("nothing to write", func(mt *mtest.T) {
		repo := NewPriceRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())

		n, err := repo.UpsertPrices(context.Background(), []*models.LivePrice{nil})
		require.NoError(mt, err)
		assert.Zero(mt, n)
	})
}

func TestPriceRepositoryGetAllPrices(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes quotes", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "asset_id", Value: 1}, {Key: "quote", Value: bson.D{{Key: "USD", Value: bson.D{{Key: "price", Value: 600.0}}}}}},
			bson.D{{Key: "asset_id", Value: 1027}, {Key: "quote", Value: bson.D{{Key: "USD", Value: bson.D{{Key: "price", Value: 25.0}}}}}},
		))
		repo := NewPriceRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())

		prices, err := repo.GetAllPrices(context.Background())
		require.NoError(mt, err)
		require.Len(mt, prices, 2)
		assert.Equal(mt, 600.0, prices[0].Quote.USD.Price)
		assert.Equal(mt, 1027, prices[1].AssetID)
	})
}

func TestPriceRepositoryGetPriceByAssetID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "asset_id", Value: 52}, {Key: "quote", Value: bson.D{{Key: "USD", Value: bson.D{{Key: "price", Value: 0.5}}}}}},
		))
		repo := NewPriceRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())

		price, err := repo.GetPriceByAssetID(context.Background(), 52)
		require.NoError(mt, err)
		require.NotNil(mt, price)
		assert.Equal(mt, 0.5, price.Quote.USD.Price)
	})

	mt.Run("missing", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewPriceRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())

		price, err := repo.GetPriceByAssetID(context.Background(), 52)
		require.NoError(mt, err)
		assert.Nil(mt, price)
	})
}
