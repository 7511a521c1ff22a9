package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeLoan       AccountType = "loan"
)

// nonNegativeBalance classifies the account types whose balance may never
// drop below zero. Adding a type here is the only change needed to restrict
// it everywhere the guard runs.
var nonNegativeBalance = map[AccountType]bool{
	AccountTypeCash: true,
}

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeCash, AccountTypeSavings, AccountTypeCreditCard,
		AccountTypeInvestment, AccountTypeLoan:
		return true
	}
	return false
}

// RequiresNonNegativeBalance reports whether the type belongs to the
// restricted class.
func (t AccountType) RequiresNonNegativeBalance() bool {
	return nonNegativeBalance[t]
}

// CheckBalance is the balance invariant guard: it decides whether an account
// of the given type may end up holding the proposed balance. It has no side
// effects and is shared by account creation, explicit balance updates and
// the debit side of transfers.
func CheckBalance(t AccountType, proposed decimal.Decimal) error {
	if t.RequiresNonNegativeBalance() && proposed.IsNegative() {
		return ErrInsufficientBalance
	}
	return nil
}

type Currency string

const (
	CurrencyCOP Currency = "COP"
	CurrencyUSD Currency = "USD"
)

func (c Currency) Valid() bool {
	return c == CurrencyCOP || c == CurrencyUSD
}

type Account struct {
	AccountID   uuid.UUID         `json:"account_id"`
	UserID      uuid.UUID         `json:"user_id"`
	Type        AccountType       `json:"type"`
	Name        string            `json:"name"`
	Institution string            `json:"institution"`
	Balance     decimal.Decimal   `json:"balance"`
	Currency    Currency          `json:"currency"`
	Metadata    map[string]string `json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
