package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finassist/internal/errors"
	"finassist/internal/pagination"
	"finassist/internal/services"
)

// DebtHandler handles debt ledger requests.
type DebtHandler struct {
	debtService services.DebtServicer
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtService services.DebtServicer) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

// CreateDebtRequest represents the request payload for recording a debt.
// A negative amount is money the user owes; a positive amount is money
// owed to the user.
type CreateDebtRequest struct {
	Debtor  string          `json:"debtor" binding:"required,max=100"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	DueDate *string         `json:"due_date"`
}

// CreateDebt records a new open debt.
func (h *DebtHandler) CreateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, parseErr := parseFlexibleTime(*req.DueDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		dueDate = &parsed
	}

	debt, err := h.debtService.Save(userID, req.Debtor, req.Amount, dueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"debt": debt})
}

// ListActiveDebts returns the user's open debts ordered by due date.
func (h *DebtHandler) ListActiveDebts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debts, err := h.debtService.ListActive(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debts": debts})
}

// GetDebtHistory returns all of the user's debts, open and closed.
func (h *DebtHandler) GetDebtHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.debtService.History(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SettleDebt closes a debt by ID and books the compensating ledger entry.
func (h *DebtHandler) SettleDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	debt, err := h.debtService.Settle(userID, debtID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debt": debt})
}

// SettleDebtByMatchRequest represents the request payload for settling a
// debt matched by debtor and amount instead of ID.
type SettleDebtByMatchRequest struct {
	Debtor string          `json:"debtor" binding:"required,max=100"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// SettleDebtByMatch settles the oldest open debt matching the debtor name
// and signed amount. Exists for the chat flow, which carries no IDs.
func (h *DebtHandler) SettleDebtByMatch(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SettleDebtByMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	debt, err := h.debtService.SettleByMatch(userID, req.Debtor, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debt": debt})
}

// CloseDebt flips a debt to closed without touching the ledger, for debts
// resolved outside the budget (forgiven, paid in kind).
func (h *DebtHandler) CloseDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	debt, err := h.debtService.Close(userID, debtID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debt": debt})
}
