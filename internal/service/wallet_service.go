package service

import (
	"context"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/metrics"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/valuation"

	"go.uber.org/zap"
)

// ValuationReport summarises one revaluation run.
type ValuationReport struct {
	Skipped    bool      `json:"skipped"`
	Reason     string    `json:"reason,omitempty"`
	PricesAsOf time.Time `json:"prices_as_of,omitempty"`
	Users      int       `json:"users"`
	Updated    int       `json:"updated"`
	Failed     int       `json:"failed"`
	Conflicts  int       `json:"conflicts"`
}

const (
	skipNoRefresh       = "no completed price refresh"
	skipStalePrices     = "latest price refresh is stale"
	skipAlreadyConsumed = "wallets already revalued for latest prices"
	skipNoPrices        = "no price records"
)

type WalletValuationService interface {
	RevalueWallets(ctx context.Context) (*ValuationReport, error)
}

type walletValuationService struct {
	userRepo   repository.UserRepository
	priceRepo  repository.PriceRepository
	markerRepo repository.MarkerRepository
	maxAge     time.Duration
	now        func() time.Time
}

func NewWalletValuationService(userRepo repository.UserRepository, priceRepo repository.PriceRepository, markerRepo repository.MarkerRepository, maxAge time.Duration) WalletValuationService {
	return &walletValuationService{
		userRepo:   userRepo,
		priceRepo:  priceRepo,
		markerRepo: markerRepo,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// RevalueWallets re-prices every user's crypto holdings and moves the change
// in value into the fiat balance. It runs only against a completed price
// refresh it has not consumed yet.
func (s *walletValuationService) RevalueWallets(ctx context.Context) (*ValuationReport, error) {
	refreshedAt, ok, err := s.markerRepo.GetMarker(ctx, models.MarkerPricesRefreshed)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.skip(skipNoRefresh, time.Time{}), nil
	}
	if s.now().Sub(refreshedAt) > s.maxAge {
		return s.skip(skipStalePrices, refreshedAt), nil
	}

	consumed, ok, err := s.markerRepo.GetMarker(ctx, models.MarkerWalletsRevalued)
	if err != nil {
		return nil, err
	}
	if ok && consumed.Equal(refreshedAt) {
		return s.skip(skipAlreadyConsumed, refreshedAt), nil
	}

	prices, err := s.priceRepo.GetAllPrices(ctx)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return s.skip(skipNoPrices, refreshedAt), nil
	}
	table := valuation.NewPriceTable(prices)

	users, err := s.userRepo.GetWallets(ctx)
	if err != nil {
		return nil, err
	}

	vals := make([]models.WalletValuation, 0, len(users))
	for _, user := range users {
		if user == nil {
			continue
		}
		vals = append(vals, valuation.Revalue(user.Wallet, table).Valuation(user))
	}

	outcome, err := s.userRepo.ApplyValuations(ctx, vals)
	if err != nil {
		return nil, err
	}
	for i, id := range outcome.Failed {
		fields := []zap.Field{zap.String("user_id", id.Hex())}
		if i < len(outcome.Errors) {
			fields = append(fields, zap.Error(outcome.Errors[i]))
		}
		zap.L().Warn("Wallet update failed", fields...)
	}

	if outcome.Missed > 0 {
		zap.L().Warn("Wallets changed during revaluation, left for next cycle", zap.Int64("users", outcome.Missed))
	}

	report := &ValuationReport{
		PricesAsOf: refreshedAt,
		Users:      len(vals),
		Updated:    len(vals) - len(outcome.Failed) - int(outcome.Missed),
		Failed:     len(outcome.Failed),
		Conflicts:  int(outcome.Missed),
	}
	metrics.AddWalletsRevalued(int64(report.Updated))
	metrics.AddWalletUpdateFailures(report.Failed + report.Conflicts)

	if err := s.markerRepo.SetMarker(ctx, models.MarkerWalletsRevalued, refreshedAt); err != nil {
		return report, err
	}

	zap.L().Info("Wallets revalued",
		zap.Int("users", report.Users),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
		zap.Int("conflicts", report.Conflicts),
		zap.Time("prices_as_of", refreshedAt))
	return report, nil
}

func (s *walletValuationService) skip(reason string, asOf time.Time) *ValuationReport {
	zap.L().Info("Wallet revaluation skipped", zap.String("reason", reason))
	return &ValuationReport{Skipped: true, Reason: reason, PricesAsOf: asOf}
}
