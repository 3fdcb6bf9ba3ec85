package jobs

import (
	"context"
	"fmt"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/config"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/service"
)

// Services are the operations the periodic jobs drive.
type Services struct {
	Prices      service.PriceService
	Wallets     service.WalletValuationService
	Investments service.InvestmentService
	Settlement  service.SettlementService
	Auth        service.AuthService
}

// Tasks binds each job name to the service call it runs.
func Tasks(svc Services) map[string]Task {
	return map[string]Task{
		config.JobPriceRefresh: func(ctx context.Context) error {
			return svc.Prices.RefreshPrices(ctx)
		},
		config.JobWalletRevalue: func(ctx context.Context) error {
			report, err := svc.Wallets.RevalueWallets(ctx)
			if err != nil {
				return err
			}
			if report.Skipped {
				return fmt.Errorf("%w: %s", ErrSkipped, report.Reason)
			}
			return nil
		},
		config.JobInvestmentExpiry: func(ctx context.Context) error {
			_, err := svc.Investments.ExpireInvestments(ctx)
			return err
		},
		config.JobProfitSettlement: func(ctx context.Context) error {
			_, err := svc.Settlement.SettleDailyProfits(ctx)
			return err
		},
		config.JobTokenJanitor: func(ctx context.Context) error {
			_, err := svc.Auth.PurgeExpiredTokens(ctx)
			return err
		},
	}
}

// RegisterAll schedules every task under its configured spec.
func RegisterAll(s *Scheduler, schedules map[string]string, tasks map[string]Task) error {
	for name, task := range tasks {
		spec, ok := schedules[name]
		if !ok {
			return fmt.Errorf("no schedule configured for %s", name)
		}
		if err := s.Register(name, spec, task); err != nil {
			return err
		}
	}
	return nil
}
