package service

import (
	"context"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/metrics"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"

	"go.uber.org/zap"
)

type SettlementService interface {
	SettleDailyProfits(ctx context.Context) (int64, error)
}

type settlementService struct {
	userRepo repository.UserRepository
}

func NewSettlementService(userRepo repository.UserRepository) SettlementService {
	return &settlementService{userRepo: userRepo}
}

// SettleDailyProfits moves accrued profits into balance for every user in a
// single server-side update.
func (s *settlementService) SettleDailyProfits(ctx context.Context) (int64, error) {
	n, err := s.userRepo.SettleProfits(ctx)
	if err != nil {
		return 0, err
	}
	metrics.AddProfitsSettled(n)
	zap.L().Info("Daily profits settled", zap.Int64("wallets", n))
	return n, nil
}
