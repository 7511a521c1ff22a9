package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jfcordoba/billetera/internal/api/middleware"
	"github.com/jfcordoba/billetera/internal/service"
)

type RatesHandler struct {
	rates service.RateSource
	log   zerolog.Logger
}

func NewRatesHandler(rates service.RateSource, log zerolog.Logger) *RatesHandler {
	return &RatesHandler{rates: rates, log: log}
}

// Current handles GET /api/rates/current
func (h *RatesHandler) Current(w http.ResponseWriter, r *http.Request) {
	snap, err := h.rates.CurrentRate(r.Context())
	if err != nil {
		writeDomainError(w, h.log, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, snap)
}
