package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
)

func newAuthFixture(t *testing.T) (*authService, *TokenRepoMock, *models.AdminAccount) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	admin := &models.AdminAccount{ID: newID(), Username: "root", Password: string(hash)}
	admins := newAdminRepoMock(admin)
	tokens := newTokenRepoMock()

	svc := NewAuthService(admins, tokens, &IssuerMock{}, time.Hour).(*authService)
	return svc, tokens, admin
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens, admin := newAuthFixture(t)

	got, pair, err := svc.Login(ctx, "root", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.Equal(t, "access-"+admin.ID.Hex(), pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Contains(t, tokens.tokens, pair.RefreshToken)

	_, _, err = svc.Login(ctx, "root", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	ctx := context.Background()
	svc, tokens, _ := newAuthFixture(t)

	_, pair, err := svc.Login(ctx, "root", "s3cret")
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)
	assert.NotContains(t, tokens.tokens, pair.RefreshToken)
	assert.Contains(t, tokens.tokens, next.RefreshToken)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc, tokens, admin := newAuthFixture(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	tokens.tokens["old"] = &models.RefreshToken{Token: "old", AdminID: admin.ID, ExpiryDate: now.Add(-time.Minute)}

	_, err := svc.Refresh(ctx, "old")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	assert.NotContains(t, tokens.tokens, "old")
}

func TestLogoutAndPurge(t *testing.T) {
	ctx := context.Background()
	svc, tokens, admin := newAuthFixture(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	assert.NoError(t, svc.Logout(ctx, "missing"))

	tokens.tokens["a"] = &models.RefreshToken{Token: "a", AdminID: admin.ID, ExpiryDate: now.Add(-time.Hour)}
	tokens.tokens["b"] = &models.RefreshToken{Token: "b", AdminID: admin.ID, ExpiryDate: now.Add(time.Hour)}

	n, err := svc.PurgeExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Contains(t, tokens.tokens, "b")

	require.NoError(t, svc.Logout(ctx, "b"))
	assert.Empty(t, tokens.tokens)
}
