package service

import (
	"context"
	"errors"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/metrics"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"

	"go.uber.org/zap"
)

type OpenTradeRequest struct {
	UserID     string             `json:"user_id" binding:"required"`
	Asset      string             `json:"asset" binding:"required"`
	Action     models.TradeAction `json:"action" binding:"required"`
	Amount     float64            `json:"amount" binding:"required"`
	Leverage   int                `json:"leverage"`
	EntryPrice float64            `json:"entry_price" binding:"required"`
	StopLoss   float64            `json:"stop_loss"`
	TakeProfit float64            `json:"take_profit"`
}

type CloseTradeRequest struct {
	Status     models.TradeStatus `json:"status" binding:"required"`
	ExitPrice  float64            `json:"exit_price"`
	ProfitLoss float64            `json:"profit_loss"`
}

type TradeService interface {
	CreateTrade(ctx context.Context, req OpenTradeRequest) (*models.LiveTrade, error)
	GetTrade(ctx context.Context, id string) (*models.LiveTrade, error)
	GetTrades(ctx context.Context, userID string) ([]*models.LiveTrade, error)
	CloseTrade(ctx context.Context, id string, req CloseTradeRequest) (*models.LiveTrade, error)
}

type tradeService struct {
	tradeRepo repository.TradeRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

func NewTradeService(tradeRepo repository.TradeRepository, userRepo repository.UserRepository) TradeService {
	return &tradeService{
		tradeRepo: tradeRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

func (s *tradeService) CreateTrade(ctx context.Context, req OpenTradeRequest) (*models.LiveTrade, error) {
	uid, err := parseID(req.UserID)
	if err != nil {
		return nil, err
	}
	if req.Amount <= 0 || req.EntryPrice <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.Leverage < 1 {
		req.Leverage = 1
	}

	trade := &models.LiveTrade{
		UserID:     uid,
		Asset:      req.Asset,
		Action:     req.Action,
		Amount:     req.Amount,
		Leverage:   req.Leverage,
		EntryPrice: req.EntryPrice,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Status:     models.TradeStatusActive,
	}
	if err := trade.ValidatePrices(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	trade.Email = user.Email

	if err := s.tradeRepo.SaveTrade(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

func (s *tradeService) GetTrade(ctx context.Context, id string) (*models.LiveTrade, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	trade, err := s.tradeRepo.GetTradeByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if trade == nil {
		return nil, ErrTradeNotFound
	}
	return trade, nil
}

func (s *tradeService) GetTrades(ctx context.Context, userID string) ([]*models.LiveTrade, error) {
	if userID == "" {
		return s.tradeRepo.GetAllTrades(ctx)
	}
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	return s.tradeRepo.GetTradesByUserID(ctx, uid)
}

// CloseTrade records the outcome of an active trade and stamps it closed. The
// profit or loss is added to the owner's wallet profits unless the exit price
// is negative; when that credit fails the trade stays closed and a
// *CreditError is returned with it.
func (s *tradeService) CloseTrade(ctx context.Context, id string, req CloseTradeRequest) (*models.LiveTrade, error) {
	if !req.Status.Valid() || req.Status == models.TradeStatusActive {
		return nil, ErrInvalidStatus
	}

	trade, err := s.GetTrade(ctx, id)
	if err != nil {
		return nil, err
	}
	if trade.ClosedAt != nil {
		return nil, ErrTradeAlreadyClosed
	}

	trade.Status = req.Status
	trade.ExitPrice = req.ExitPrice
	trade.ProfitLoss = req.ProfitLoss

	trade.MarkClosed(s.now())

	updated, err := s.tradeRepo.UpdateTradeOutcome(ctx, trade)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrTradeAlreadyClosed
	}
	if req.ExitPrice < 0 {
		return trade, nil
	}

	if err := s.userRepo.IncrementWallet(ctx, trade.UserID, models.FieldProfits, trade.ProfitLoss); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrUserNotFound
		}
		metrics.IncTradeCreditFailures()
		zap.L().Error("Trade closed but profit credit failed",
			zap.String("trade_id", trade.ID.Hex()),
			zap.String("user_id", trade.UserID.Hex()),
			zap.Float64("profit_loss", trade.ProfitLoss),
			zap.Error(err))
		return trade, &CreditError{TradeID: trade.ID, UserID: trade.UserID, Err: err}
	}
	return trade, nil
}
