package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TradeAction string

const (
	TradeActionBuy  TradeAction = "buy"
	TradeActionSell TradeAction = "sell"
)

type TradeStatus string

const (
	TradeStatusActive    TradeStatus = "active"
	TradeStatusCompleted TradeStatus = "completed"
	TradeStatusCanceled  TradeStatus = "canceled"
)

func (s TradeStatus) Valid() bool {
	switch s {
	case TradeStatusActive, TradeStatusCompleted, TradeStatusCanceled:
		return true
	}
	return false
}

type LiveTrade struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Email      string             `bson:"email" json:"email"`
	Asset      string             `bson:"asset" json:"asset"`
	Action     TradeAction        `bson:"action" json:"action"`
	Amount     float64            `bson:"amount" json:"amount"`
	Leverage   int                `bson:"leverage" json:"leverage"`
	EntryPrice float64            `bson:"entry_price" json:"entry_price"`
	StopLoss   float64            `bson:"stop_loss" json:"stop_loss"`
	TakeProfit float64            `bson:"take_profit" json:"take_profit"`
	ExitPrice  float64            `bson:"exit_price" json:"exit_price"`
	ProfitLoss float64            `bson:"profit_loss" json:"profit_loss"`
	Status     TradeStatus        `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	ClosedAt   *time.Time         `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
	Duration   int64              `bson:"duration" json:"duration"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

var (
	ErrInvalidTradeAction = errors.New("action must be buy or sell")
	ErrBuyPriceOrder      = errors.New("buy trade requires stop_loss < entry_price < take_profit")
	ErrSellPriceOrder     = errors.New("sell trade requires take_profit < entry_price < stop_loss")
)

// ValidatePrices checks the stop-loss/take-profit ordering for the trade direction.
func (t *LiveTrade) ValidatePrices() error {
	switch t.Action {
	case TradeActionBuy:
		if !(t.StopLoss < t.EntryPrice && t.EntryPrice < t.TakeProfit) {
			return ErrBuyPriceOrder
		}
	case TradeActionSell:
		if !(t.TakeProfit < t.EntryPrice && t.EntryPrice < t.StopLoss) {
			return ErrSellPriceOrder
		}
	default:
		return ErrInvalidTradeAction
	}
	return nil
}

// MarkClosed stamps closedAt and derives duration. Once closedAt is set it is
// never moved.
func (t *LiveTrade) MarkClosed(now time.Time) {
	if t.ClosedAt != nil {
		return
	}
	t.ClosedAt = &now
	t.Duration = int64(now.Sub(t.CreatedAt) / time.Second)
}
