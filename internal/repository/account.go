package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jfcordoba/billetera/internal/database"
	"github.com/jfcordoba/billetera/internal/models"
)

type AccountRepository struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, accountID, userID uuid.UUID) (*models.Account, error) {
	a := &models.Account{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT account_id, user_id, type, name, institution, balance, currency, metadata, created_at, updated_at
		 FROM accounts WHERE account_id = $1 AND user_id = $2`,
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

func (r *AccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Account, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT account_id, user_id, type, name, institution, balance, currency, metadata, created_at, updated_at
		 FROM accounts WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		a := &models.Account{}
		if err := rows.Scan(&a.AccountID, &a.UserID, &a.Type, &a.Name, &a.Institution,
			&a.Balance, &a.Currency, &a.Metadata, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Delete removes the account row; its transactions go with it through the
// schema's cascade.
func (r *AccountRepository) Delete(ctx context.Context, accountID, userID uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM accounts WHERE account_id = $1 AND user_id = $2`,
		accountID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}
