package api

import (
	"fmt"
	"net/http"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletAdjustmentRequest struct {
	Field  string  `json:"field" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

type UserHandler struct {
	userService service.UserService
	logService  service.LogService
}

func NewUserHandler(userService service.UserService, logService service.LogService) *UserHandler {
	return &UserHandler{userService: userService, logService: logService}
}

// @Summary Get all users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 500 {object} map[string]string "Failed to retrieve users"
// @Router /admin/users [get]
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary Get a user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 404 {object} map[string]string "User not found"
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Adjust a wallet counter
// @Description Adds a signed amount to one wallet field (balance, profits, total_deposit, total_bonus, withdrawn, referral, topup)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param adjustment body WalletAdjustmentRequest true "Field and amount"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string "Invalid field or amount"
// @Failure 404 {object} map[string]string "User not found"
// @Router /admin/users/{id}/wallet [put]
func (h *UserHandler) AdjustWallet(c *gin.Context) {
	var req WalletAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	field, err := models.ParseBalanceField(req.Field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.AdjustWallet(c.Request.Context(), c.Param("id"), field, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	audit(c, h.logService, "AdjustWallet", fmt.Sprintf("Adjusted %s by %.2f", field, req.Amount), map[string]interface{}{
		"user_id": user.ID.Hex(),
		"field":   field.String(),
		"amount":  req.Amount,
	})
	c.JSON(http.StatusOK, user)
}
