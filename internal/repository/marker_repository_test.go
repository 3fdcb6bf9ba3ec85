package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestRedisMarkerRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := NewRedisMarkerRepository(client, "genesisio:marker:")
	ctx := context.Background()

	_, ok, err := repo.GetMarker(ctx, models.MarkerPricesRefreshed)
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC)
	require.NoError(t, repo.SetMarker(ctx, models.MarkerPricesRefreshed, at))

	got, ok, err := repo.GetMarker(ctx, models.MarkerPricesRefreshed)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Equal(at.Truncate(time.Millisecond)), got.String())
	assert.True(t, mr.Exists("genesisio:marker:"+models.MarkerPricesRefreshed))
}

func TestRedisMarkerRepositoryCorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("m:"+models.MarkerWalletsRevalued, "yesterday"))

	_, _, err := NewRedisMarkerRepository(client, "m:").GetMarker(context.Background(), models.MarkerWalletsRevalued)
	assert.Error(t, err)
}

func TestMongoMarkerRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("absent", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMarkerRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())

		_, ok, err := repo.GetMarker(context.Background(), models.MarkerPricesRefreshed)
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("present", func(mt *mtest.T) {
		at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: models.MarkerPricesRefreshed},
			{Key: "at", Value: at},
		}))
		repo := NewMarkerRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())

		got, ok, err := repo.GetMarker(context.Background(), models.MarkerPricesRefreshed)
		require.NoError(mt, err)
		assert.True(mt, ok)
		assert.True(mt, got.Equal(at))
	})

	mt.Run("set upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewMarkerRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())

		assert.NoError(mt, repo.SetMarker(context.Background(), models.MarkerPricesRefreshed, time.Now()))
	})
}
