package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jfcordoba/billetera/internal/database"
	"github.com/jfcordoba/billetera/internal/models"
)

type TransactionRepository struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a transaction on one of the caller's accounts. The insert
// and the ownership check are a single statement, so a row only appears when
// the account belongs to the caller.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction, userID uuid.UUID) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO transactions (transaction_id, account_id, category_id, type, name, amount, currency,
		 transaction_date, excluded, notes)
		 SELECT $1, account_id, $3, $4, $5, $6, $7, $8, $9, $10
		 FROM accounts WHERE account_id = $2 AND user_id = $11
		 RETURNING created_at`,
		tx.TransactionID, tx.AccountID, tx.CategoryID, tx.Type, tx.Name, tx.Amount,
		tx.Currency, tx.TransactionDate, tx.Excluded, tx.Notes, userID,
	).Scan(&tx.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrAccountNotFound
		}
		return err
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, transactionID, userID uuid.UUID) (*models.Transaction, error) {
	tx := &models.Transaction{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT t.transaction_id, t.account_id, t.category_id, t.type, t.name, t.amount, t.currency,
		 t.transaction_date, t.excluded, t.notes, t.created_at
		 FROM transactions t
		 JOIN accounts a ON a.account_id = t.account_id
		 WHERE t.transaction_id = $1 AND a.user_id = $2`,
		transactionID, userID,
	).Scan(&tx.TransactionID, &tx.AccountID, &tx.CategoryID, &tx.Type, &tx.Name, &tx.Amount,
		&tx.Currency, &tx.TransactionDate, &tx.Excluded, &tx.Notes, &tx.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (r *TransactionRepository) GetByAccount(ctx context.Context, accountID, userID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT t.transaction_id, t.account_id, t.category_id, t.type, t.name, t.amount, t.currency,
		 t.transaction_date, t.excluded, t.notes, t.created_at
		 FROM transactions t
		 JOIN accounts a ON a.account_id = t.account_id
		 WHERE t.account_id = $1 AND a.user_id = $2
		 ORDER BY t.transaction_date DESC, t.created_at DESC
		 LIMIT $3 OFFSET $4`,
		accountID, userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction, userID uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE transactions t SET category_id = $1, type = $2, name = $3, amount = $4,
		 transaction_date = $5, excluded = $6, notes = $7
		 FROM accounts a
		 WHERE t.transaction_id = $8 AND a.account_id = t.account_id AND a.user_id = $9`,
		tx.CategoryID, tx.Type, tx.Name, tx.Amount, tx.TransactionDate, tx.Excluded,
		tx.Notes, tx.TransactionID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, transactionID, userID uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM transactions t
		 USING accounts a
		 WHERE t.transaction_id = $1 AND a.account_id = t.account_id AND a.user_id = $2`,
		transactionID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTransactionNotFound
	}
	return nil
}

func scanTransactions(rows pgx.Rows) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	for rows.Next() {
		tx := &models.Transaction{}
		if err := rows.Scan(&tx.TransactionID, &tx.AccountID, &tx.CategoryID, &tx.Type, &tx.Name,
			&tx.Amount, &tx.Currency, &tx.TransactionDate, &tx.Excluded, &tx.Notes, &tx.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
