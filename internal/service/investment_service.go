package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/metrics"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"

	"go.uber.org/zap"
)

type InvestmentService interface {
	CreatePlan(ctx context.Context, plan *models.Plan) error
	GetAllPlans(ctx context.Context) ([]*models.Plan, error)
	CreateInvestment(ctx context.Context, userID, planID string, amount float64) (*models.Investment, error)
	GetInvestment(ctx context.Context, id string) (*models.Investment, error)
	GetInvestments(ctx context.Context, userID string, status models.InvestmentStatus) ([]*models.Investment, error)
	UpdateInvestmentStatus(ctx context.Context, id string, status models.InvestmentStatus) (*models.Investment, error)
	ExpireInvestments(ctx context.Context) (int64, error)
}

type investmentService struct {
	investmentRepo repository.InvestmentRepository
	planRepo       repository.PlanRepository
	userRepo       repository.UserRepository
	now            func() time.Time
}

func NewInvestmentService(investmentRepo repository.InvestmentRepository, planRepo repository.PlanRepository, userRepo repository.UserRepository) InvestmentService {
	return &investmentService{
		investmentRepo: investmentRepo,
		planRepo:       planRepo,
		userRepo:       userRepo,
		now:            time.Now,
	}
}

func (s *investmentService) CreatePlan(ctx context.Context, plan *models.Plan) error {
	if plan.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPlan)
	}
	if plan.Limits.Min < 0 || plan.Limits.Max < plan.Limits.Min {
		return fmt.Errorf("%w: limits min %.2f max %.2f", ErrInvalidPlan, plan.Limits.Min, plan.Limits.Max)
	}
	if plan.Duration < 0 {
		return fmt.Errorf("%w: duration cannot be negative", ErrInvalidPlan)
	}
	return s.planRepo.SavePlan(ctx, plan)
}

func (s *investmentService) GetAllPlans(ctx context.Context) ([]*models.Plan, error) {
	return s.planRepo.GetAllPlans(ctx)
}

// CreateInvestment snapshots the plan into a new pending investment.
func (s *investmentService) CreateInvestment(ctx context.Context, userID, planID string, amount float64) (*models.Investment, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	pid, err := parseID(planID)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	user, err := s.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	plan, err := s.planRepo.GetPlanByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if amount < plan.Limits.Min || amount > plan.Limits.Max {
		return nil, fmt.Errorf("%w: %.2f not in [%.2f, %.2f]", ErrAmountOutsidePlan, amount, plan.Limits.Min, plan.Limits.Max)
	}

	inv := &models.Investment{
		UserID: user.ID,
		Email:  user.Email,
		Plan:   plan.Snapshot(),
		Amount: amount,
		Status: models.InvestmentPending,
	}
	if err := s.investmentRepo.SaveInvestment(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *investmentService) GetInvestment(ctx context.Context, id string) (*models.Investment, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	inv, err := s.investmentRepo.GetInvestmentByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvestmentNotFound
	}
	return inv, nil
}

func (s *investmentService) GetInvestments(ctx context.Context, userID string, status models.InvestmentStatus) ([]*models.Investment, error) {
	var filter repository.InvestmentFilter
	if userID != "" {
		uid, err := parseID(userID)
		if err != nil {
			return nil, err
		}
		filter.UserID = uid
	}
	if status != "" {
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = status
	}
	return s.investmentRepo.GetInvestments(ctx, filter)
}

// UpdateInvestmentStatus applies an admin status change. Moving into active
// derives start and expiry dates from the plan duration the first time only;
// expired is reserved for the expiry job.
func (s *investmentService) UpdateInvestmentStatus(ctx context.Context, id string, status models.InvestmentStatus) (*models.Investment, error) {
	if !status.Valid() || status == models.InvestmentExpired {
		return nil, ErrInvalidStatus
	}

	inv, err := s.GetInvestment(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status.Terminal() {
		return nil, ErrInvestmentFinal
	}

	if status == models.InvestmentActive {
		if start, expiry, ok := inv.ActivationWindow(s.now()); ok {
			activated, err := s.investmentRepo.Activate(ctx, inv.ID, start, expiry)
			if err != nil {
				return nil, err
			}
			if activated {
				inv.Status = status
				inv.StartDate = &start
				inv.ExpiryDate = &expiry
				return inv, nil
			}
		}
	}

	if err := s.investmentRepo.UpdateStatus(ctx, inv.ID, status); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// Missing, or moved to a terminal status since it was read.
		current, getErr := s.GetInvestment(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if current.Status.Terminal() {
			return nil, ErrInvestmentFinal
		}
		return nil, ErrInvestmentNotFound
	}
	return s.GetInvestment(ctx, id)
}

// ExpireInvestments moves every active investment past its expiry date to
// expired. Running it again is a no-op.
func (s *investmentService) ExpireInvestments(ctx context.Context) (int64, error) {
	n, err := s.investmentRepo.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	metrics.AddInvestmentsExpired(n)
	if n > 0 {
		zap.L().Info("Investments expired", zap.Int64("count", n))
	}
	return n, nil
}
