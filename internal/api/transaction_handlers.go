package api

import (
	"net/http"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionRequest struct {
	UserID          string                 `json:"user_id" binding:"required"`
	TransactionType models.TransactionType `json:"transaction_type" binding:"required"`
	PaymentMethod   models.PaymentMethod   `json:"payment_method" binding:"required"`
	Amount          float64                `json:"amount" binding:"required,gt=0"`
	Bonus           float64                `json:"bonus"`
	Address         string                 `json:"address"`
}

type TransactionReviewRequest struct {
	Status    models.TransactionStatus `json:"status" binding:"required"`
	AdminNote string                   `json:"admin_note"`
}

type TransactionHandler struct {
	transactionService service.TransactionService
	logService         service.LogService
}

func NewTransactionHandler(transactionService service.TransactionService, logService service.LogService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, logService: logService}
}

// @Summary Record a transaction request
// @Description Records a pending deposit or withdrawal on behalf of a user
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body TransactionRequest true "Transaction data"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} map[string]string "Invalid JSON or parameters"
// @Failure 404 {object} map[string]string "User not found"
// @Router /admin/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	transaction := &models.Transaction{
		TransactionType: req.TransactionType,
		PaymentMethod:   req.PaymentMethod,
		Amount:          req.Amount,
		Bonus:           req.Bonus,
		Address:         req.Address,
	}
	if err := h.transactionService.CreateTransaction(c.Request.Context(), req.UserID, transaction); err != nil {
		respondError(c, err)
		return
	}

	audit(c, h.logService, "CreateTransaction", "Recorded "+string(transaction.TransactionType)+" request", map[string]interface{}{
		"transaction_id": transaction.ID.Hex(),
		"user_id":        req.UserID,
		"amount":         transaction.Amount,
	})
	c.JSON(http.StatusCreated, transaction)
}

// @Summary Get transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by user ID"
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by transaction type"
// @Success 200 {array} models.Transaction
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 500 {object} map[string]string "Failed to retrieve transactions"
// @Router /admin/transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	filter := repository.TransactionFilter{
		Status: models.TransactionStatus(c.Query("status")),
		Type:   models.TransactionType(c.Query("type")),
	}
	if userID := c.Query("user_id"); userID != "" {
		id, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		filter.UserID = id
	}

	transactions, err := h.transactionService.GetTransactions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// @Summary Get transaction by ID
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} map[string]string "Invalid transaction ID"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /admin/transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// @Summary Review a transaction
// @Description Approves or rejects a pending transaction. Approval applies it to the user's wallet.
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param review body TransactionReviewRequest true "Review"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Already reviewed or insufficient balance"
// @Router /admin/transactions/{id}/review [put]
func (h *TransactionHandler) ReviewTransaction(c *gin.Context) {
	var req TransactionReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	transaction, err := h.transactionService.ReviewTransaction(c.Request.Context(), c.Param("id"), req.Status, req.AdminNote)
	if err != nil {
		respondError(c, err)
		return
	}

	audit(c, h.logService, "ReviewTransaction", "Transaction "+string(req.Status), map[string]interface{}{
		"transaction_id": transaction.ID.Hex(),
		"user_id":        transaction.UserID.Hex(),
		"status":         req.Status,
		"admin_note":     req.AdminNote,
	})
	c.JSON(http.StatusOK, transaction)
}
