package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finassist/internal/errors"
	"finassist/internal/services"
)

// BudgetHandler handles budget projection requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// SetBudgetRequest represents the request payload for declaring a budget.
type SetBudgetRequest struct {
	Category string          `json:"category" binding:"required,max=100"`
	Amount   decimal.Decimal `json:"amount"`
}

// SetBudget declares the budget for a category. The standing adjustment is
// derived so the projection lands exactly on the declared amount.
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.SetBudget(userID, req.Category, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudgets returns the cached budget projection per category.
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.GetAll(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// GetAvailableTotal returns the sum of the cached budget rows across
// categories.
func (h *BudgetHandler) GetAvailableTotal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.budgetService.AvailableTotal(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": total})
}

// RebuildBudgets regroups every budget row for the user from the ledger and
// standing adjustments. Safe to call repeatedly.
func (h *BudgetHandler) RebuildBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.Rebuild(userID); err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.GetAll(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}
