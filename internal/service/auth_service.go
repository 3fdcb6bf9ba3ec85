package service

import (
	"context"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/metrics"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs short-lived admin access tokens.
type TokenIssuer interface {
	IssueAdminToken(adminID string) (string, time.Time, error)
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.AdminAccount, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type authService struct {
	adminRepo  repository.AdminRepository
	tokenRepo  repository.RefreshTokenRepository
	issuer     TokenIssuer
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(adminRepo repository.AdminRepository, tokenRepo repository.RefreshTokenRepository, issuer TokenIssuer, refreshTTL time.Duration) AuthService {
	if refreshTTL <= 0 {
		refreshTTL = models.DefaultRefreshTokenTTL
	}
	return &authService{
		adminRepo:  adminRepo,
		tokenRepo:  tokenRepo,
		issuer:     issuer,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.AdminAccount, *TokenPair, error) {
	admin, err := s.adminRepo.GetAdminByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if admin == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, admin)
	if err != nil {
		return nil, nil, err
	}
	return admin, pair, nil
}

// Refresh rotates a refresh token: the presented token is consumed and a new
// pair is issued.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrInvalidRefreshToken
	}

	deleted, err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !deleted || stored.Expired(s.now()) {
		return nil, ErrInvalidRefreshToken
	}

	admin, err := s.adminRepo.GetAdminByID(ctx, stored.AdminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidRefreshToken
	}
	return s.issue(ctx, admin)
}

// Logout deletes the refresh token if it exists; an unknown token is fine.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	_, err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken)
	return err
}

func (s *authService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.tokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	metrics.AddTokensPurged(n)
	zap.L().Info("Expired refresh tokens purged", zap.Int64("count", n))
	return n, nil
}

func (s *authService) issue(ctx context.Context, admin *models.AdminAccount) (*TokenPair, error) {
	access, accessExp, err := s.issuer.IssueAdminToken(admin.ID.Hex())
	if err != nil {
		return nil, err
	}

	now := s.now()
	rt := &models.RefreshToken{
		Token:      uuid.NewString(),
		AdminID:    admin.ID,
		CreatedAt:  now,
		ExpiryDate: now.Add(s.refreshTTL),
	}
	if err := s.tokenRepo.SaveRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     rt.Token,
		RefreshExpiresAt: rt.ExpiryDate,
	}, nil
}
