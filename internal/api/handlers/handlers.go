package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jfcordoba/billetera/internal/api/middleware"
	"github.com/jfcordoba/billetera/internal/models"
)

// userID reads the caller identity set by the upstream auth proxy.
func userID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.Header.Get("X-User-ID"))
}

// writeDomainError translates domain failures into status codes; anything
// unrecognized is a 500 and gets logged with request context.
func writeDomainError(w http.ResponseWriter, log zerolog.Logger, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrTransactionNotFound),
		errors.Is(err, models.ErrCategoryNotFound):
		middleware.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInsufficientBalance),
		errors.Is(err, models.ErrSameAccountTransfer),
		errors.Is(err, models.ErrCurrencyMismatch):
		middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidInput):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrRateUnavailable):
		middleware.WriteError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
