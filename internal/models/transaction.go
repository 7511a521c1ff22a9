package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// Transaction amounts are non-negative magnitudes; direction comes from the
// type.
type Transaction struct {
	TransactionID   uuid.UUID       `json:"transaction_id"`
	AccountID       uuid.UUID       `json:"account_id"`
	CategoryID      *uuid.UUID      `json:"category_id"`
	Type            TransactionType `json:"type"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        Currency        `json:"currency"`
	TransactionDate time.Time       `json:"transaction_date"`
	Excluded        bool            `json:"excluded"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}

type Category struct {
	CategoryID uuid.UUID `json:"category_id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}
