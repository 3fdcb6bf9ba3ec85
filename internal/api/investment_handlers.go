package api

import (
	"net/http"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateInvestmentRequest struct {
	UserID string  `json:"user_id" binding:"required"`
	PlanID string  `json:"plan_id" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type InvestmentStatusRequest struct {
	Status models.InvestmentStatus `json:"status" binding:"required"`
}

type InvestmentHandler struct {
	investmentService service.InvestmentService
	logService        service.LogService
}

func NewInvestmentHandler(investmentService service.InvestmentService, logService service.LogService) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService, logService: logService}
}

// @Summary Create a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body models.Plan true "Plan"
// @Success 201 {object} models.Plan
// @Failure 400 {object} map[string]string "Invalid plan"
// @Router /admin/plans [post]
func (h *InvestmentHandler) CreatePlan(c *gin.Context) {
	var plan models.Plan
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := h.investmentService.CreatePlan(c.Request.Context(), &plan); err != nil {
		respondError(c, err)
		return
	}

	audit(c, h.logService, "CreatePlan", "Created plan "+plan.Name, map[string]interface{}{
		"plan_id": plan.ID.Hex(),
	})
	c.JSON(http.StatusCreated, plan)
}

// @Summary Get all plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Plan
// @Router /admin/plans [get]
func (h *InvestmentHandler) GetAllPlans(c *gin.Context) {
	plans, err := h.investmentService.GetAllPlans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve plans"})
		return
	}
	c.JSON(http.StatusOK, plans)
}

// @Summary Create an investment
// @Description Creates a pending investment for a user from a plan snapshot
// @Tags Investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param investment body CreateInvestmentRequest true "Investment"
// @Success 201 {object} models.Investment
// @Failure 400 {object} map[string]string "Amount outside plan limits"
// @Failure 404 {object} map[string]string "User or plan not found"
// @Router /admin/investments [post]
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	inv, err := h.investmentService.CreateInvestment(c.Request.Context(), req.UserID, req.PlanID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	audit(c, h.logService, "CreateInvestment", "Created investment", map[string]interface{}{
		"investment_id": inv.ID.Hex(),
		"user_id":       req.UserID,
		"plan":          inv.Plan.Name,
		"amount":        inv.Amount,
	})
	c.JSON(http.StatusCreated, inv)
}

// @Summary Get investments
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by user ID"
// @Param status query string false "Filter by status"
// @Success 200 {array} models.Investment
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /admin/investments [get]
func (h *InvestmentHandler) GetInvestments(c *gin.Context) {
	invs, err := h.investmentService.GetInvestments(c.Request.Context(), c.Query("user_id"), models.InvestmentStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invs)
}

// @Summary Get an investment
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Investment ID"
// @Success 200 {object} models.Investment
// @Failure 404 {object} map[string]string "Investment not found"
// @Router /admin/investments/{id} [get]
func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	inv, err := h.investmentService.GetInvestment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// @Summary Update investment status
// @Description Moves an investment to pending, active or failed. Activating derives start and expiry dates from the plan duration once.
// @Tags Investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Investment ID"
// @Param status body InvestmentStatusRequest true "New status"
// @Success 200 {object} models.Investment
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 404 {object} map[string]string "Investment not found"
// @Failure 409 {object} map[string]string "Investment already failed or expired"
// @Router /admin/investments/{id}/status [put]
func (h *InvestmentHandler) UpdateInvestmentStatus(c *gin.Context) {
	var req InvestmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	inv, err := h.investmentService.UpdateInvestmentStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	audit(c, h.logService, "UpdateInvestmentStatus", "Investment "+string(inv.Status), map[string]interface{}{
		"investment_id": inv.ID.Hex(),
		"status":        inv.Status,
	})
	c.JSON(http.StatusOK, inv)
}
