package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finassist/internal/errors"
	"finassist/internal/models"
	"finassist/internal/services"
	"finassist/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// --- shared test helpers ---

func injectUserID(uid int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- mock ledger service ---

type mockLedgerService struct {
	appendFn             func(userID int64, amount decimal.Decimal, category string, txType models.TransactionType) (*models.Transaction, error)
	historyFn            func(userID int64, limit int) ([]models.Transaction, error)
	filterFn             func(userID int64, filterParam string, limit int) ([]models.Transaction, error)
	lastFn               func(userID int64) (*models.Transaction, error)
	deleteAndReconcileFn func(userID int64, transactionID uint) error
}

func (m *mockLedgerService) Append(userID int64, amount decimal.Decimal, category string, txType models.TransactionType) (*models.Transaction, error) {
	if m.appendFn != nil {
		return m.appendFn(userID, amount, category, txType)
	}
	return &models.Transaction{}, nil
}

func (m *mockLedgerService) AppendWithDB(_ *gorm.DB, userID int64, amount decimal.Decimal, category string, txType models.TransactionType) (*models.Transaction, error) {
	return m.Append(userID, amount, category, txType)
}

func (m *mockLedgerService) History(userID int64, limit int) ([]models.Transaction, error) {
	if m.historyFn != nil {
		return m.historyFn(userID, limit)
	}
	return []models.Transaction{}, nil
}

func (m *mockLedgerService) Filter(userID int64, filterParam string, limit int) ([]models.Transaction, error) {
	if m.filterFn != nil {
		return m.filterFn(userID, filterParam, limit)
	}
	return []models.Transaction{}, nil
}

func (m *mockLedgerService) Last(userID int64) (*models.Transaction, error) {
	if m.lastFn != nil {
		return m.lastFn(userID)
	}
	return &models.Transaction{}, nil
}

func (m *mockLedgerService) DeleteAndReconcile(userID int64, transactionID uint) error {
	if m.deleteAndReconcileFn != nil {
		return m.deleteAndReconcileFn(userID, transactionID)
	}
	return nil
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetHistory)
	auth.GET("/transactions/filter", handler.FilterTransactions)
	auth.GET("/transactions/last", handler.GetLastTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

// --- tests ---

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockLedgerService{
			appendFn: func(userID int64, amount decimal.Decimal, category string, _ models.TransactionType) (*models.Transaction, error) {
				return &models.Transaction{
					ID:       1,
					UserID:   userID,
					Amount:   amount,
					Category: category,
					Type:     models.TypeForAmount(amount),
				}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "POST", "/transactions", `{"amount":"-49.99","category":"Groceries"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		transaction := result["transaction"].(map[string]interface{})
		if transaction["category"] != "Groceries" {
			t.Errorf("expected Groceries, got %v", transaction["category"])
		}
		if transaction["type"] != "expense" {
			t.Errorf("expected expense, got %v", transaction["type"])
		}
	})

	t.Run("returns 400 on missing category", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockLedgerService{}))

		rec := doRequest(r, "POST", "/transactions", `{"amount":"10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockLedgerService{}))

		rec := doRequest(r, "POST", "/transactions", `{"amount":"10","category":"Salary","type":"transfer"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on type sign mismatch", func(t *testing.T) {
		svc := &mockLedgerService{
			appendFn: func(int64, decimal.Decimal, string, models.TransactionType) (*models.Transaction, error) {
				return nil, apperrors.ErrTypeSignMismatch
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "POST", "/transactions", `{"amount":"10","category":"Salary","type":"expense"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TYPE_SIGN_MISMATCH")
	})
}

func TestTransactionHandler_GetHistory(t *testing.T) {
	t.Run("passes limit through", func(t *testing.T) {
		var gotLimit int
		svc := &mockLedgerService{
			historyFn: func(_ int64, limit int) ([]models.Transaction, error) {
				gotLimit = limit
				return []models.Transaction{{ID: 1}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "GET", "/transactions?limit=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotLimit != 5 {
			t.Errorf("expected limit 5, got %d", gotLimit)
		}
	})

	t.Run("returns 400 on bad limit", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockLedgerService{}))

		rec := doRequest(r, "GET", "/transactions?limit=abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_FilterTransactions(t *testing.T) {
	t.Run("requires q parameter", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockLedgerService{}))

		rec := doRequest(r, "GET", "/transactions/filter", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns matches", func(t *testing.T) {
		svc := &mockLedgerService{
			filterFn: func(_ int64, filterParam string, _ int) ([]models.Transaction, error) {
				if filterParam != "groceries" {
					t.Errorf("expected filter groceries, got %s", filterParam)
				}
				return []models.Transaction{{ID: 1, Category: "Groceries"}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "GET", "/transactions/filter?q=groceries", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var gotID uint
		svc := &mockLedgerService{
			deleteAndReconcileFn: func(_ int64, transactionID uint) error {
				gotID = transactionID
				return nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "DELETE", "/transactions/42", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotID != 42 {
			t.Errorf("expected id 42, got %d", gotID)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockLedgerService{
			deleteAndReconcileFn: func(int64, uint) error {
				return apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "DELETE", "/transactions/42", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockLedgerService{}))

		rec := doRequest(r, "DELETE", "/transactions/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
