package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"

	"go.uber.org/zap"
)

var ErrInsufficientFunds = repository.ErrInsufficientFunds

type TransactionService interface {
	CreateTransaction(ctx context.Context, userID string, transaction *models.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error)
	GetTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*models.Transaction, error)
	ReviewTransaction(ctx context.Context, id string, status models.TransactionStatus, adminNote string) (*models.Transaction, error)
}

type transactionService struct {
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	now             func() time.Time
}

func NewTransactionService(transactionRepo repository.TransactionRepository, userRepo repository.UserRepository) TransactionService {
	return &transactionService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		now:             time.Now,
	}
}

func (s *transactionService) CreateTransaction(ctx context.Context, userID string, transaction *models.Transaction) error {
	uid, err := parseID(userID)
	if err != nil {
		return err
	}
	if transaction.TransactionType != models.TransactionTypeDeposit && transaction.TransactionType != models.TransactionTypeWithdrawal {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, transaction.TransactionType)
	}
	if transaction.PaymentMethod != models.PaymentMethodCrypto && transaction.PaymentMethod != models.PaymentMethodBankTransfer {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidTransaction, transaction.PaymentMethod)
	}
	if transaction.Amount <= 0 {
		return ErrInvalidAmount
	}
	if transaction.Bonus < 0 || (transaction.Bonus > 0 && transaction.TransactionType != models.TransactionTypeDeposit) {
		return fmt.Errorf("%w: bonus applies to deposits only and cannot be negative", ErrInvalidTransaction)
	}
	if transaction.TransactionType == models.TransactionTypeWithdrawal && transaction.Address == "" {
		return fmt.Errorf("%w: withdrawal address required", ErrInvalidTransaction)
	}

	user, err := s.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	transaction.UserID = uid
	transaction.Email = user.Email
	transaction.Status = models.TransactionStatusPending
	transaction.ResponseTime = nil
	transaction.AdminNote = ""
	return s.transactionRepo.SaveTransaction(ctx, transaction)
}

func (s *transactionService) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	transaction, err := s.transactionRepo.GetTransactionByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}
	return transaction, nil
}

func (s *transactionService) GetTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*models.Transaction, error) {
	return s.transactionRepo.GetTransactions(ctx, filter)
}

// ReviewTransaction approves or rejects a pending transaction. The review is
// claimed first so two admins cannot both apply it; an approval whose wallet
// update fails is put back to pending.
func (s *transactionService) ReviewTransaction(ctx context.Context, id string, status models.TransactionStatus, adminNote string) (*models.Transaction, error) {
	if status != models.TransactionStatusApproved && status != models.TransactionStatusRejected {
		return nil, ErrInvalidStatus
	}

	transaction, err := s.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction.Status != models.TransactionStatusPending {
		return nil, ErrTransactionReviewed
	}

	at := s.now()
	claimed, err := s.transactionRepo.ResolvePending(ctx, transaction.ID, status, adminNote, at)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrTransactionReviewed
	}

	if status == models.TransactionStatusApproved {
		if err := s.applyToWallet(ctx, transaction); err != nil {
			if rerr := s.transactionRepo.Reopen(ctx, transaction.ID, status); rerr != nil {
				zap.L().Error("Failed to reopen transaction after wallet error",
					zap.String("transaction_id", transaction.ID.Hex()), zap.Error(rerr))
			}
			return nil, err
		}
	}

	transaction.Status = status
	transaction.ResponseTime = &at
	transaction.AdminNote = adminNote
	return transaction, nil
}

func (s *transactionService) applyToWallet(ctx context.Context, t *models.Transaction) error {
	var err error
	switch t.TransactionType {
	case models.TransactionTypeDeposit:
		err = s.userRepo.ApplyDeposit(ctx, t.UserID, t.Amount, t.Bonus)
	case models.TransactionTypeWithdrawal:
		err = s.userRepo.ApplyWithdrawal(ctx, t.UserID, t.Amount)
	default:
		return fmt.Errorf("unknown transaction type %q", t.TransactionType)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
