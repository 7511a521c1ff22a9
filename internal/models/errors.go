package models

import "errors"

var (
	// ErrAccountNotFound indicates the account does not exist or is not
	// owned by the caller; the two cases are indistinguishable on purpose.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTransactionNotFound indicates the transaction does not exist or
	// belongs to another user's account.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrCategoryNotFound indicates the category does not exist or is not
	// owned by the caller.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrInsufficientBalance indicates the operation would push a
	// non-negative-balance account below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrRateUnavailable indicates no exchange rate could be obtained:
	// nothing cached and the upstream fetch failed.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	// ErrSameAccountTransfer indicates source and destination are the same
	// account.
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")
	// ErrInvalidAmount indicates a zero, negative or malformed amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidInput is the base error for malformed request fields; wrap
	// it with the field detail.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCurrencyMismatch indicates the request currency does not match the
	// source account's currency.
	ErrCurrencyMismatch = errors.New("currency does not match source account")
)
