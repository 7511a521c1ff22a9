package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jfcordoba/billetera/internal/database"
	"github.com/jfcordoba/billetera/internal/models"
)

// UnitOfWork is the primitive set the storage boundary exposes inside one
// atomic transaction. Everything called through it either commits together
// or rolls back together.
type UnitOfWork interface {
	// AccountForUpdate loads an owner-scoped account row and locks it for
	// the remainder of the transaction.
	AccountForUpdate(ctx context.Context, accountID, userID uuid.UUID) (*models.Account, error)
	InsertAccount(ctx context.Context, a *models.Account) error
	UpdateAccount(ctx context.Context, a *models.Account) error
	UpdateAccountBalance(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) error
	InsertTransaction(ctx context.Context, t *models.Transaction) error
}

// TxRunner runs a function against a UnitOfWork with rollback-on-error.
type TxRunner interface {
	InTx(ctx context.Context, fn func(UnitOfWork) error) error
}

// Store is the pgx implementation of TxRunner. Transactions run serializable
// and account rows are taken FOR UPDATE, so two concurrent transfers against
// the same account cannot both read the same balance and lose one deduction.
type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(UnitOfWork) error) error {
	tx, err := s.db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&unitOfWork{q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type unitOfWork struct {
	q database.Querier
}

func (u *unitOfWork) AccountForUpdate(ctx context.Context, accountID, userID uuid.UUID) (*models.Account, error) {
	a := &models.Account{}
	err := u.q.QueryRow(ctx,
		`SELECT account_id, user_id, type, name, institution, balance, currency, metadata, created_at, updated_at
		 FROM accounts WHERE account_id = $1 AND user_id = $2
		 FOR UPDATE`,
		accountID, userID,
	).Scan(&a.AccountID, &a.UserID, &a.Type, &a.Name, &a.Institution, &a.Balance,
		&a.Currency, &a.Metadata, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

func (u *unitOfWork) InsertAccount(ctx context.Context, a *models.Account) error {
	return u.q.QueryRow(ctx,
		`INSERT INTO accounts (account_id, user_id, type, name, institution, balance, currency, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		a.AccountID, a.UserID, a.Type, a.Name, a.Institution, a.Balance, a.Currency, a.Metadata,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (u *unitOfWork) UpdateAccount(ctx context.Context, a *models.Account) error {
	tag, err := u.q.Exec(ctx,
		`UPDATE accounts SET name = $1, institution = $2, balance = $3, metadata = $4,
		 updated_at = CURRENT_TIMESTAMP
		 WHERE account_id = $5 AND user_id = $6`,
		a.Name, a.Institution, a.Balance, a.Metadata, a.AccountID, a.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func (u *unitOfWork) UpdateAccountBalance(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) error {
	tag, err := u.q.Exec(ctx,
		`UPDATE accounts SET balance = $1, updated_at = CURRENT_TIMESTAMP WHERE account_id = $2`,
		balance, accountID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func (u *unitOfWork) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	return u.q.QueryRow(ctx,
		`INSERT INTO transactions (transaction_id, account_id, category_id, type, name, amount, currency,
		 transaction_date, excluded, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		t.TransactionID, t.AccountID, t.CategoryID, t.Type, t.Name, t.Amount, t.Currency,
		t.TransactionDate, t.Excluded, t.Notes,
	).Scan(&t.CreatedAt)
}
