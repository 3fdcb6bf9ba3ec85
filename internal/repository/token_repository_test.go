package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestRefreshTokenRepositoryDelete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing token is not an error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewRefreshTokenRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())

		deleted, err := repo.DeleteRefreshToken(context.Background(), "gone")
		require.NoError(mt, err)
		assert.False(mt, deleted)
	})

	mt.Run("purge expired", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 7}))
		repo := NewRefreshTokenRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())

		n, err := repo.DeleteExpired(context.Background(), time.Now())
		require.NoError(mt, err)
		assert.EqualValues(mt, 7, n)
	})
}
