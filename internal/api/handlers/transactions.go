package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jfcordoba/billetera/internal/api/middleware"
	"github.com/jfcordoba/billetera/internal/models"
	"github.com/jfcordoba/billetera/internal/repository"
)

type TransactionsHandler struct {
	transactions *repository.TransactionRepository
	log          zerolog.Logger
}

func NewTransactionsHandler(transactions *repository.TransactionRepository, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{transactions: transactions, log: log}
}

type transactionRequest struct {
	AccountID  uuid.UUID              `json:"account_id"`
	CategoryID *uuid.UUID             `json:"category_id"`
	Type       models.TransactionType `json:"type"`
	Name       string                 `json:"name"`
	Amount     decimal.Decimal        `json:"amount"`
	Currency   models.Currency        `json:"currency"`
	Date       string                 `json:"date"`
	Excluded   bool                   `json:"excluded"`
	Notes      string                 `json:"notes"`
}

func (req *transactionRequest) toModel() (*models.Transaction, string) {
	if !req.Type.Valid() {
		return nil, "Unknown transaction type"
	}
	if !req.Currency.Valid() {
		return nil, "Unknown currency"
	}
	if req.Amount.IsNegative() {
		return nil, "Amount must not be negative"
	}
	if req.Name == "" {
		return nil, "Name is required"
	}
	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, "Invalid date, expected YYYY-MM-DD"
		}
		date = parsed
	}
	return &models.Transaction{
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		Type:            req.Type,
		Name:            req.Name,
		Amount:          req.Amount.Round(2),
		Currency:        req.Currency,
		TransactionDate: date,
		Excluded:        req.Excluded,
		Notes:           req.Notes,
	}, ""
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid X-User-ID")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	tx, msg := req.toModel()
	if msg != "" {
		middleware.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	tx.TransactionID = uuid.New()

	if err := h.transactions.Create(r.Context(), tx, uid); err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// ListByAccount handles GET /api/accounts/{id}/transactions
func (h *TransactionsHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid X-User-ID")
		return
	}
	accountID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	transactions, err := h.transactions.GetByAccount(r.Context(), accountID, uid, limit, offset)
	if err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// Get handles GET /api/transactions/{id}
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid X-User-ID")
		return
	}
	transactionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	tx, err := h.transactions.GetByID(r.Context(), transactionID, uid)
	if err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tx)
}

// Update handles PUT /api/transactions/{id}
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid X-User-ID")
		return
	}
	transactionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	tx, msg := req.toModel()
	if msg != "" {
		middleware.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	tx.TransactionID = transactionID

	if err := h.transactions.Update(r.Context(), tx, uid); err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tx)
}

// Delete handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid X-User-ID")
		return
	}
	transactionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	if err := h.transactions.Delete(r.Context(), transactionID, uid); err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
