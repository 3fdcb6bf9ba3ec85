package service

import (
	"context"
	"errors"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"
)

type UserService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	AdjustWallet(ctx context.Context, id string, field models.BalanceField, amount float64) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.GetAllUsers(ctx)
}

// AdjustWallet adds amount (which may be negative) to one wallet counter with
// a single $inc, then returns the updated user.
func (s *userService) AdjustWallet(ctx context.Context, id string, field models.BalanceField, amount float64) (*models.User, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if field.Cumulative() && amount < 0 {
		return nil, ErrCumulativeFieldDecrease
	}

	if err := s.userRepo.IncrementWallet(ctx, objID, field, amount); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, id)
}
