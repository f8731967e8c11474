package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finassist/internal/errors"
	"finassist/internal/pagination"
	"finassist/internal/services"
)

// PiggyBankHandler handles savings goal requests.
type PiggyBankHandler struct {
	piggyBankService services.PiggyBankServicer
}

// NewPiggyBankHandler creates a new PiggyBankHandler.
func NewPiggyBankHandler(piggyBankService services.PiggyBankServicer) *PiggyBankHandler {
	return &PiggyBankHandler{piggyBankService: piggyBankService}
}

// CreatePiggyBankRequest represents the request payload for creating a
// savings goal.
type CreatePiggyBankRequest struct {
	Name         string          `json:"name" binding:"required,max=100"`
	TargetAmount decimal.Decimal `json:"target_amount" binding:"required,positive_amount"`
	Description  string          `json:"description" binding:"max=500"`
}

// CreatePiggyBank creates a new savings goal.
func (h *PiggyBankHandler) CreatePiggyBank(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePiggyBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.piggyBankService.Create(userID, req.Name, req.TargetAmount, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// AddFundsRequest represents the request payload for moving budget funds
// into a savings goal.
type AddFundsRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,positive_amount"`
}

// AddFunds moves funds from the available budget into the goal. The amount
// is booked as a Savings expense so the budget projection reflects it.
func (h *PiggyBankHandler) AddFunds(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.piggyBankService.AddFunds(userID, goalID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// GetPiggyBank returns a single savings goal.
func (h *PiggyBankHandler) GetPiggyBank(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.piggyBankService.Get(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// ListPiggyBanks returns the user's savings goals, newest first.
func (h *PiggyBankHandler) ListPiggyBanks(c *gin.Context) {
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

	result, err := h.piggyBankService.List(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeletePiggyBank removes a savings goal. Funds already transferred stay
// booked against the Savings category.
func (h *PiggyBankHandler) DeletePiggyBank(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.piggyBankService.Delete(userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}
