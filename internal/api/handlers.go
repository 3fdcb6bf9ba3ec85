package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/jobs"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/middleware"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrAmountOutsidePlan),
		errors.Is(err, service.ErrCumulativeFieldDecrease),
		errors.Is(err, service.ErrInvalidPlan),
		errors.Is(err, service.ErrInvalidTransaction),
		errors.Is(err, service.ErrUnknownAsset),
		errors.Is(err, models.ErrInvalidTradeAction),
		errors.Is(err, models.ErrBuyPriceOrder),
		errors.Is(err, models.ErrSellPriceOrder):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrInvestmentNotFound),
		errors.Is(err, service.ErrTradeNotFound),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrPriceNotFound),
		errors.Is(err, jobs.ErrUnknownJob):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvestmentFinal),
		errors.Is(err, service.ErrTradeAlreadyClosed),
		errors.Is(err, service.ErrTransactionReviewed),
		errors.Is(err, repository.ErrInsufficientFunds),
		errors.Is(err, jobs.ErrAlreadyRunning):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func adminID(c *gin.Context) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(c.GetString(middleware.ContextAdminID))
	return id
}

// audit records an admin mutation. A failed audit write never fails the
// request it describes.
func audit(c *gin.Context, logService service.LogService, action, description string, metadata map[string]interface{}) {
	if err := logService.LogAction(c.Request.Context(), adminID(c), action, description, c.ClientIP(), metadata); err != nil {
		zap.L().Warn("Failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}

type PriceHandler struct {
	priceService service.PriceService
}

func NewPriceHandler(priceService service.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// GetPrices lists the latest stored quotes
// @Summary Get latest prices
// @Description Returns the most recent quote stored for every tracked asset
// @Tags Prices
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.LivePrice
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve prices"
// @Router /admin/prices [get]
func (h *PriceHandler) GetPrices(c *gin.Context) {
	prices, err := h.priceService.GetLatestPrices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

// GetPrice returns the latest quote for one asset
// @Summary Get asset price
// @Tags Prices
// @Produce json
// @Security BearerAuth
// @Param asset path string true "Wallet asset key (btc, eth, solana, tether, xrp)"
// @Success 200 {object} models.LivePrice
// @Failure 400 {object} map[string]string "Unknown asset"
// @Failure 404 {object} map[string]string "No price stored"
// @Router /admin/prices/{asset} [get]
func (h *PriceHandler) GetPrice(c *gin.Context) {
	price, err := h.priceService.GetPrice(c.Request.Context(), c.Param("asset"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

// JobRunner is the part of the scheduler exposed to admins.
type JobRunner interface {
	RunNow(ctx context.Context, name string) error
	Jobs() []jobs.Info
}

type JobHandler struct {
	runner     JobRunner
	logService service.LogService
}

func NewJobHandler(runner JobRunner, logService service.LogService) *JobHandler {
	return &JobHandler{runner: runner, logService: logService}
}

// @Summary List scheduled jobs
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} jobs.Info
// @Router /admin/jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, h.runner.Jobs())
}

// @Summary Run a job now
// @Description Runs a scheduled job immediately and waits for it to finish
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Param name path string true "Job name"
// @Success 200 {object} map[string]string "Job finished"
// @Failure 404 {object} map[string]string "Unknown job"
// @Failure 409 {object} map[string]string "Job already running"
// @Failure 500 {object} map[string]string "Job failed"
// @Router /admin/jobs/{name}/run [post]
func (h *JobHandler) RunJob(c *gin.Context) {
	name := c.Param("name")
	err := h.runner.RunNow(c.Request.Context(), name)

	audit(c, h.logService, "RunJob", "Ran job "+name, map[string]interface{}{
		"job":     name,
		"success": err == nil,
	})

	if err != nil {
		if status := statusFor(err); status != http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Job failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Job finished", "job": name})
}
