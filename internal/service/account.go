package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jfcordoba/billetera/internal/models"
	"github.com/jfcordoba/billetera/internal/repository"
)

const openingBalanceName = "Opening balance"

type AccountService struct {
	store repository.TxRunner
	log   zerolog.Logger
}

func NewAccountService(store repository.TxRunner, log zerolog.Logger) *AccountService {
	return &AccountService{store: store, log: log}
}

type CreateAccountInput struct {
	Type           models.AccountType
	Name           string
	Institution    string
	InitialBalance decimal.Decimal
	Currency       models.Currency
	Metadata       map[string]string
}

// CreateAccount opens a new account. A non-zero initial balance produces one
// synthetic opening transaction in the same unit of work, typed by the sign
// of the balance and carrying its absolute value.
func (s *AccountService) CreateAccount(ctx context.Context, userID uuid.UUID, in CreateAccountInput) (*models.Account, *models.Transaction, error) {
	if !in.Type.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown account type %q", models.ErrInvalidInput, in.Type)
	}
	if !in.Currency.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown currency %q", models.ErrInvalidInput, in.Currency)
	}
	if in.Name == "" {
		return nil, nil, fmt.Errorf("%w: account name is required", models.ErrInvalidInput)
	}
	if err := models.CheckBalance(in.Type, in.InitialBalance); err != nil {
		return nil, nil, err
	}

	account := &models.Account{
		AccountID:   uuid.New(),
		UserID:      userID,
		Type:        in.Type,
		Name:        in.Name,
		Institution: in.Institution,
		Balance:     in.InitialBalance.Round(2),
		Currency:    in.Currency,
		Metadata:    in.Metadata,
	}
	if account.Metadata == nil {
		account.Metadata = map[string]string{}
	}

	var opening *models.Transaction
	err := s.store.InTx(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.InsertAccount(ctx, account); err != nil {
			return err
		}
		if account.Balance.IsZero() {
			return nil
		}

		txType := models.TransactionTypeIncome
		if account.Balance.IsNegative() {
			txType = models.TransactionTypeExpense
		}
		opening = &models.Transaction{
			TransactionID:   uuid.New(),
			AccountID:       account.AccountID,
			Type:            txType,
			Name:            openingBalanceName,
			Amount:          account.Balance.Abs(),
			Currency:        account.Currency,
			TransactionDate: time.Now().UTC(),
		}
		return uow.InsertTransaction(ctx, opening)
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().
		Str("account_id", account.AccountID.String()).
		Str("type", string(account.Type)).
		Str("currency", string(account.Currency)).
		Msg("account created")
	return account, opening, nil
}

type UpdateAccountInput struct {
	Name        *string
	Institution *string
	Balance     *decimal.Decimal
	Metadata    map[string]string
}

// UpdateAccount applies the supplied fields to an existing account. An
// explicit balance is checked against the guard using the stored row's type,
// never any incoming one.
func (s *AccountService) UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, in UpdateAccountInput) (*models.Account, error) {
	var account *models.Account
	err := s.store.InTx(ctx, func(uow repository.UnitOfWork) error {
		existing, err := uow.AccountForUpdate(ctx, accountID, userID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			existing.Name = *in.Name
		}
		if in.Institution != nil {
			existing.Institution = *in.Institution
		}
		if in.Metadata != nil {
			existing.Metadata = in.Metadata
		}
		if in.Balance != nil {
			proposed := in.Balance.Round(2)
			if err := models.CheckBalance(existing.Type, proposed); err != nil {
				return err
			}
			existing.Balance = proposed
		}

		if err := uow.UpdateAccount(ctx, existing); err != nil {
			return err
		}
		account = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}
