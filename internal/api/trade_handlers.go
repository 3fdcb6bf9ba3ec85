package api

import (
	"errors"
	"net/http"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type TradeHandler struct {
	tradeService service.TradeService
	logService   service.LogService
}

func NewTradeHandler(tradeService service.TradeService, logService service.LogService) *TradeHandler {
	return &TradeHandler{tradeService: tradeService, logService: logService}
}

// @Summary Open a trade
// @Description Opens a live trade for a user; stop loss and take profit must bracket the entry price for the trade direction
// @Tags Trades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trade body service.OpenTradeRequest true "Trade"
// @Success 201 {object} models.LiveTrade
// @Failure 400 {object} map[string]string "Invalid trade"
// @Failure 404 {object} map[string]string "User not found"
// @Router /admin/trades [post]
func (h *TradeHandler) CreateTrade(c *gin.Context) {
	var req service.OpenTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	trade, err := h.tradeService.CreateTrade(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	audit(c, h.logService, "CreateTrade", "Opened trade", map[string]interface{}{
		"trade_id": trade.ID.Hex(),
		"user_id":  trade.UserID.Hex(),
		"asset":    trade.Asset,
		"action":   trade.Action,
		"amount":   trade.Amount,
	})
	c.JSON(http.StatusCreated, trade)
}

// @Summary Get trades
// @Tags Trades
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by user ID"
// @Success 200 {array} models.LiveTrade
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Router /admin/trades [get]
func (h *TradeHandler) GetTrades(c *gin.Context) {
	trades, err := h.tradeService.GetTrades(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trades)
}

// @Summary Get a trade
// @Tags Trades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trade ID"
// @Success 200 {object} models.LiveTrade
// @Failure 404 {object} map[string]string "Trade not found"
// @Router /admin/trades/{id} [get]
func (h *TradeHandler) GetTrade(c *gin.Context) {
	trade, err := h.tradeService.GetTrade(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trade)
}

// @Summary Close a trade
// @Description Closes an active trade with status completed or canceled. A non-negative exit price also credits profit_loss to the user's wallet profits.
// @Tags Trades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trade ID"
// @Param outcome body service.CloseTradeRequest true "Outcome"
// @Success 200 {object} models.LiveTrade
// @Failure 404 {object} map[string]string "Trade not found"
// @Failure 409 {object} map[string]string "Trade already closed"
// @Failure 502 {object} map[string]interface{} "Trade closed but credit failed"
// @Router /admin/trades/{id}/close [put]
func (h *TradeHandler) CloseTrade(c *gin.Context) {
	var req service.CloseTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	trade, err := h.tradeService.CloseTrade(c.Request.Context(), c.Param("id"), req)
	var creditErr *service.CreditError
	if errors.As(err, &creditErr) {
		audit(c, h.logService, "CloseTrade", "Closed trade, profit credit failed", map[string]interface{}{
			"trade_id":    creditErr.TradeID.Hex(),
			"user_id":     creditErr.UserID.Hex(),
			"profit_loss": req.ProfitLoss,
		})
		c.JSON(http.StatusBadGateway, gin.H{"error": creditErr.Error(), "trade": trade})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	audit(c, h.logService, "CloseTrade", "Closed trade", map[string]interface{}{
		"trade_id":    trade.ID.Hex(),
		"status":      trade.Status,
		"exit_price":  trade.ExitPrice,
		"profit_loss": trade.ProfitLoss,
	})
	c.JSON(http.StatusOK, trade)
}
