package service

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidID               = errors.New("invalid ID")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrUserNotFound            = errors.New("user not found")
	ErrPlanNotFound            = errors.New("plan not found")
	ErrInvestmentNotFound      = errors.New("investment not found")
	ErrInvestmentFinal         = errors.New("investment is already failed or expired")
	ErrAmountOutsidePlan       = errors.New("amount outside plan limits")
	ErrTradeNotFound           = errors.New("trade not found")
	ErrTradeAlreadyClosed      = errors.New("trade already closed")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrTransactionReviewed     = errors.New("transaction already reviewed")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidRefreshToken     = errors.New("invalid or expired refresh token")
	ErrCumulativeFieldDecrease = errors.New("cumulative wallet counters cannot be decreased")
	ErrInvalidPlan             = errors.New("invalid plan")
	ErrInvalidTransaction      = errors.New("invalid transaction")
	ErrUnknownAsset            = errors.New("unknown asset")
	ErrPriceNotFound           = errors.New("no price stored for asset")
)

// CreditError reports a trade that was closed and persisted but whose profit
// could not be credited to the owner's wallet.
type CreditError struct {
	TradeID primitive.ObjectID
	UserID  primitive.ObjectID
	Err     error
}

func (e *CreditError) Error() string {
	return fmt.Sprintf("trade %s closed, credit to user %s failed: %v", e.TradeID.Hex(), e.UserID.Hex(), e.Err)
}

func (e *CreditError) Unwrap() error {
	return e.Err
}

func parseID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return objID, nil
}
