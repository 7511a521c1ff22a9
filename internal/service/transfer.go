package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jfcordoba/billetera/internal/models"
	"github.com/jfcordoba/billetera/internal/rates"
	"github.com/jfcordoba/billetera/internal/repository"
)

// RateSource yields the current COP/USD rate; the cache implements it.
type RateSource interface {
	CurrentRate(ctx context.Context) (rates.Snapshot, error)
}

type TransferService struct {
	store repository.TxRunner
	rates RateSource
	log   zerolog.Logger
}

func NewTransferService(store repository.TxRunner, rateSource RateSource, log zerolog.Logger) *TransferService {
	return &TransferService{store: store, rates: rateSource, log: log}
}

// TransferInput carries one transfer request. Amount is denominated in the
// source account's currency; Currency must match it. ExchangeRate, when set,
// is used instead of the cached TRM.
type TransferInput struct {
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               decimal.Decimal
	Currency             models.Currency
	Date                 time.Time
	ExchangeRate         *decimal.Decimal
	Notes                string
}

type TransferResult struct {
	SourceAccount          *models.Account     `json:"source_account"`
	DestinationAccount     *models.Account     `json:"destination_account"`
	SourceTransaction      *models.Transaction `json:"source_transaction"`
	DestinationTransaction *models.Transaction `json:"destination_transaction"`
	ExchangeRate           *decimal.Decimal    `json:"exchange_rate,omitempty"`
}

// CreateTransfer moves funds between two of the caller's accounts as one
// atomic operation: both balance updates and both transaction rows commit
// together or not at all.
func (s *TransferService) CreateTransfer(ctx context.Context, userID uuid.UUID, in TransferInput) (*TransferResult, error) {
	if in.SourceAccountID == in.DestinationAccountID {
		return nil, models.ErrSameAccountTransfer
	}
	if !in.Amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}
	if !in.Currency.Valid() {
		return nil, fmt.Errorf("%w: unknown currency %q", models.ErrInvalidInput, in.Currency)
	}
	if in.ExchangeRate != nil && !in.ExchangeRate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", models.ErrInvalidInput)
	}

	amount := in.Amount.Round(2)
	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	var result *TransferResult
	err := s.store.InTx(ctx, func(uow repository.UnitOfWork) error {
		source, dest, err := s.lockAccounts(ctx, uow, userID, in.SourceAccountID, in.DestinationAccountID)
		if err != nil {
			return err
		}
		if in.Currency != source.Currency {
			return models.ErrCurrencyMismatch
		}

		credited := amount
		var appliedRate *decimal.Decimal
		if source.Currency != dest.Currency {
			rate, err := s.effectiveRate(ctx, in.ExchangeRate)
			if err != nil {
				return err
			}
			credited = convertAmount(amount, source.Currency, rate)
			appliedRate = &rate
		}

		newSourceBalance := source.Balance.Sub(amount)
		if err := models.CheckBalance(source.Type, newSourceBalance); err != nil {
			return err
		}
		newDestBalance := dest.Balance.Add(credited)

		if err := uow.UpdateAccountBalance(ctx, source.AccountID, newSourceBalance); err != nil {
			return err
		}
		if err := uow.UpdateAccountBalance(ctx, dest.AccountID, newDestBalance); err != nil {
			return err
		}

		debit := &models.Transaction{
			TransactionID:   uuid.New(),
			AccountID:       source.AccountID,
			Type:            models.TransactionTypeExpense,
			Name:            fmt.Sprintf("Transfer to %s", dest.Name),
			Amount:          amount,
			Currency:        source.Currency,
			TransactionDate: date,
			Notes:           in.Notes,
		}
		credit := &models.Transaction{
			TransactionID:   uuid.New(),
			AccountID:       dest.AccountID,
			Type:            models.TransactionTypeIncome,
			Name:            fmt.Sprintf("Transfer from %s", source.Name),
			Amount:          credited,
			Currency:        dest.Currency,
			TransactionDate: date,
			Notes:           in.Notes,
		}
		if err := uow.InsertTransaction(ctx, debit); err != nil {
			return err
		}
		if err := uow.InsertTransaction(ctx, credit); err != nil {
			return err
		}

		source.Balance = newSourceBalance
		dest.Balance = newDestBalance
		result = &TransferResult{
			SourceAccount:          source,
			DestinationAccount:     dest,
			SourceTransaction:      debit,
			DestinationTransaction: credit,
			ExchangeRate:           appliedRate,
		}
		return nil
	})
	if err != nil {
		s.log.Debug().Err(err).
			Str("source_account_id", in.SourceAccountID.String()).
			Str("destination_account_id", in.DestinationAccountID.String()).
			Str("amount", amount.String()).
			Str("currency", string(in.Currency)).
			Msg("transfer rejected")
		return nil, err
	}

	s.log.Info().
		Str("source_account_id", in.SourceAccountID.String()).
		Str("destination_account_id", in.DestinationAccountID.String()).
		Str("amount", amount.String()).
		Str("currency", string(in.Currency)).
		Msg("transfer executed")
	return result, nil
}

// lockAccounts takes both row locks in a stable order so two opposite
// transfers between the same pair cannot deadlock.
func (s *TransferService) lockAccounts(ctx context.Context, uow repository.UnitOfWork, userID, sourceID, destID uuid.UUID) (*models.Account, *models.Account, error) {
	first, second := sourceID, destID
	if bytes.Compare(destID[:], sourceID[:]) < 0 {
		first, second = destID, sourceID
	}

	a, err := uow.AccountForUpdate(ctx, first, userID)
	if err != nil {
		return nil, nil, err
	}
	b, err := uow.AccountForUpdate(ctx, second, userID)
	if err != nil {
		return nil, nil, err
	}

	if a.AccountID == sourceID {
		return a, b, nil
	}
	return b, a, nil
}

func (s *TransferService) effectiveRate(ctx context.Context, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, nil
	}
	snap, err := s.rates.CurrentRate(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return snap.Rate, nil
}

// convertAmount crosses the COP/USD boundary with the TRM quoted as COP per
// USD, rounding half-up to 2 decimal places.
func convertAmount(amount decimal.Decimal, from models.Currency, rate decimal.Decimal) decimal.Decimal {
	if from == models.CurrencyUSD {
		return amount.Mul(rate).Round(2)
	}
	return amount.DivRound(rate, 2)
}
