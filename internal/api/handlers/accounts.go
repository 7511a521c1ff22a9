package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jfcordoba/billetera/internal/api/middleware"
	"github.com/jfcordoba/billetera/internal/models"
	"github.com/jfcordoba/billetera/internal/repository"
	"github.com/jfcordoba/billetera/internal/service"
)

type AccountsHandler struct {
	accounts *repository.AccountRepository
	service  *service.AccountService
	log      zerolog.Logger
}

func NewAccountsHandler(accounts *repository.AccountRepository, svc *service.AccountService, log zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{accounts: accounts, service: svc, log: log}
}

// List handles GET /api/accounts
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid X-User-ID")
		return
	}

	accounts, err := h.accounts.GetByUserID(r.Context(), uid)
	if err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// Get handles GET /api/accounts/{id}
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	account, err := h.accounts.GetByID(r.Context(), accountID, uid)
	if err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, account)
}

type createAccountRequest struct {
	Type           models.AccountType `json:"type"`
	Name           string             `json:"name"`
	Institution    string             `json:"institution"`
	InitialBalance decimal.Decimal    `json:"initial_balance"`
	Currency       models.Currency    `json:"currency"`
	Metadata       map[string]string  `json:"metadata"`
}

// Create handles POST /api/accounts
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid X-User-ID")
		return
	}

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, opening, err := h.service.CreateAccount(r.Context(), uid, service.CreateAccountInput{
		Type:           req.Type,
		Name:           req.Name,
		Institution:    req.Institution,
		InitialBalance: req.InitialBalance,
		Currency:       req.Currency,
		Metadata:       req.Metadata,
	})
	if err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}

	resp := map[string]any{"account": account}
	if opening != nil {
		resp["opening_transaction"] = opening
	}
	middleware.WriteJSON(w, http.StatusCreated, resp)
}

type updateAccountRequest struct {
	Name        *string           `json:"name"`
	Institution *string           `json:"institution"`
	Balance     *decimal.Decimal  `json:"balance"`
	Metadata    map[string]string `json:"metadata"`
}

// Update handles PATCH /api/accounts/{id}
func (h *AccountsHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), uid, accountID, service.UpdateAccountInput{
		Name:        req.Name,
		Institution: req.Institution,
		Balance:     req.Balance,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, account)
}

// Delete handles DELETE /api/accounts/{id}
func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.accounts.Delete(r.Context(), accountID, uid); err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
