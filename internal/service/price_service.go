package service

import (
	"context"
	"fmt"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/metrics"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/quote"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"

	"go.uber.org/zap"
)

// PriceBroadcaster pushes freshly stored prices to live dashboards.
type PriceBroadcaster interface {
	BroadcastPrices(prices []*models.LivePrice)
}

type PriceService interface {
	RefreshPrices(ctx context.Context) error
	GetLatestPrices(ctx context.Context) ([]*models.LivePrice, error)
	GetPrice(ctx context.Context, asset string) (*models.LivePrice, error)
}

type priceService struct {
	provider    quote.Provider
	priceRepo   repository.PriceRepository
	markerRepo  repository.MarkerRepository
	broadcaster PriceBroadcaster
	now         func() time.Time
}

func NewPriceService(provider quote.Provider, priceRepo repository.PriceRepository, markerRepo repository.MarkerRepository, broadcaster PriceBroadcaster) PriceService {
	return &priceService{
		provider:    provider,
		priceRepo:   priceRepo,
		markerRepo:  markerRepo,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

// RefreshPrices fetches quotes for every tracked asset and upserts them. The
// completion marker is written only after all quotes are stored, so the
// valuation job never reads a half-written price set.
func (s *priceService) RefreshPrices(ctx context.Context) error {
	prices, err := s.provider.LatestQuotes(ctx, models.TrackedAssetIDs())
	if err != nil {
		return fmt.Errorf("failed to fetch quotes: %w", err)
	}

	n, err := s.priceRepo.UpsertPrices(ctx, prices)
	if err != nil {
		return fmt.Errorf("failed to store prices: %w", err)
	}
	metrics.AddPricesUpserted(n)

	if err := s.markerRepo.SetMarker(ctx, models.MarkerPricesRefreshed, s.now()); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPrices(prices)
	}

	zap.L().Info("Prices refreshed", zap.Int("quotes", len(prices)), zap.Int64("stored", n))
	return nil
}

func (s *priceService) GetLatestPrices(ctx context.Context) ([]*models.LivePrice, error) {
	return s.priceRepo.GetAllPrices(ctx)
}

// GetPrice returns the stored quote for one wallet asset key, e.g. "btc".
func (s *priceService) GetPrice(ctx context.Context, asset string) (*models.LivePrice, error) {
	a, ok := models.ParseAsset(asset)
	if !ok {
		return nil, ErrUnknownAsset
	}
	price, err := s.priceRepo.GetPriceByAssetID(ctx, models.TrackedAssets[a])
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, ErrPriceNotFound
	}
	return price, nil
}
