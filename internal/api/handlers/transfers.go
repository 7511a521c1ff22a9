package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jfcordoba/billetera/internal/api/middleware"
	"github.com/jfcordoba/billetera/internal/models"
	"github.com/jfcordoba/billetera/internal/service"
)

type TransfersHandler struct {
	service *service.TransferService
	log     zerolog.Logger
}

func NewTransfersHandler(svc *service.TransferService, log zerolog.Logger) *TransfersHandler {
	return &TransfersHandler{service: svc, log: log}
}

type createTransferRequest struct {
	SourceAccountID      uuid.UUID        `json:"source_account_id"`
	DestinationAccountID uuid.UUID        `json:"destination_account_id"`
	Amount               decimal.Decimal  `json:"amount"`
	Currency             models.Currency  `json:"currency"`
	Date                 string           `json:"date"`
	ExchangeRate         *decimal.Decimal `json:"exchange_rate"`
	Notes                string           `json:"notes"`
}

// Create handles POST /api/transfers
func (h *TransfersHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing or invalid X-User-ID")
		return
	}

	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SourceAccountID == req.DestinationAccountID {
		middleware.WriteError(w, http.StatusBadRequest, "Source and destination must differ")
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
	}

	result, err := h.service.CreateTransfer(r.Context(), uid, service.TransferInput{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               req.Amount,
		Currency:             req.Currency,
		Date:                 date,
		ExchangeRate:         req.ExchangeRate,
		Notes:                req.Notes,
	})
	if err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, result)
}
