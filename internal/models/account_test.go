package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccountTypeRequiresNonNegativeBalance(t *testing.T) {
	tests := []struct {
		accountType AccountType
		restricted  bool
	}{
		{AccountTypeCash, true},
		{AccountTypeSavings, false},
		{AccountTypeCreditCard, false},
		{AccountTypeInvestment, false},
		{AccountTypeLoan, false},
	}

	for _, tt := range tests {
		if got := tt.accountType.RequiresNonNegativeBalance(); got != tt.restricted {
			t.Errorf("%s: RequiresNonNegativeBalance() = %v, want %v", tt.accountType, got, tt.restricted)
		}
	}
}

func TestCheckBalance(t *testing.T) {
	tests := []struct {
		name        string
		accountType AccountType
		balance     string
		wantErr     bool
	}{
		{"cash positive", AccountTypeCash, "100.00", false},
		{"cash zero", AccountTypeCash, "0", false},
		{"cash negative", AccountTypeCash, "-0.01", true},
		{"savings negative", AccountTypeSavings, "-500.00", false},
		{"credit card negative", AccountTypeCreditCard, "-1200.50", false},
		{"loan negative", AccountTypeLoan, "-99999.99", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBalance(tt.accountType, decimal.RequireFromString(tt.balance))
			if tt.wantErr {
				if !errors.Is(err, ErrInsufficientBalance) {
					t.Errorf("CheckBalance() = %v, want ErrInsufficientBalance", err)
				}
				return
			}
			if err != nil {
				t.Errorf("CheckBalance() = %v, want nil", err)
			}
		})
	}
}

func TestAccountTypeValid(t *testing.T) {
	if !AccountTypeSavings.Valid() {
		t.Error("savings should be a valid account type")
	}
	if AccountType("checking").Valid() {
		t.Error("checking is not a known account type")
	}
}

func TestCurrencyValid(t *testing.T) {
	if !CurrencyCOP.Valid() || !CurrencyUSD.Valid() {
		t.Error("COP and USD must be valid currencies")
	}
	if Currency("EUR").Valid() {
		t.Error("EUR is not supported")
	}
}
