package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
)

func TestSettleDailyProfits(t *testing.T) {
	ctx := context.Background()
	earner := &models.User{Wallet: models.Wallet{Balance: 100, Profits: 25}}
	idle := &models.User{Wallet: models.Wallet{Balance: 40}}
	loser := &models.User{Wallet: models.Wallet{Balance: 50, Profits: -10}}
	users := newUserRepoMock(earner, idle, loser)
	svc := NewSettlementService(users)

	n, err := svc.SettleDailyProfits(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 125.0, earner.Wallet.Balance)
	assert.Zero(t, earner.Wallet.Profits)
	assert.Equal(t, 40.0, idle.Wallet.Balance)
	assert.Equal(t, 40.0, loser.Wallet.Balance)

	n, err = svc.SettleDailyProfits(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 125.0, earner.Wallet.Balance)
}

func TestSettleDailyProfitsError(t *testing.T) {
	users := newUserRepoMock()
	users.err = errBoom
	_, err := NewSettlementService(users).SettleDailyProfits(context.Background())
	assert.ErrorIs(t, err, errBoom)
}
