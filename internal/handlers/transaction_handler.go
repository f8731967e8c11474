package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finassist/internal/errors"
	"finassist/internal/models"
	"finassist/internal/services"
)

// TransactionHandler handles ledger-related requests.
type TransactionHandler struct {
	ledgerService services.LedgerServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerService services.LedgerServicer) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

// CreateTransactionRequest represents the request payload for recording a
// movement. Type is optional; when omitted it is derived from the sign of
// the amount.
type CreateTransactionRequest struct {
	Amount   decimal.Decimal        `json:"amount" binding:"required"`
	Category string                 `json:"category" binding:"required,max=100"`
	Type     models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
}

// CreateTransaction records a movement and updates the budget projection
// for its category.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.ledgerService.Append(userID, req.Amount, req.Category, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetHistory returns the user's most recent movements, newest first.
func (h *TransactionHandler) GetHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit, err := parseLimit(c, 0)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.ledgerService.History(userID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// FilterTransactions returns movements matching a category name or a
// transaction type, matched case-insensitively.
func (h *TransactionHandler) FilterTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filterParam := c.Query("q")
	if filterParam == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "q query parameter is required"))
		return
	}

	limit, err := parseLimit(c, 0)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.ledgerService.Filter(userID, filterParam, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GetLastTransaction returns the user's single most recent movement.
func (h *TransactionHandler) GetLastTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.ledgerService.Last(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction removes a movement and reconciles the budget projection
// for its category in the same database transaction.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteAndReconcile(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// parseLimit parses the optional limit query parameter. Zero means the
// service default applies.
func parseLimit(c *gin.Context, def int) (int, error) {
	v := c.Query("limit")
	if v == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit < 1 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid limit")
	}
	return limit, nil
}
