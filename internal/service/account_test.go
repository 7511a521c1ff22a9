package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jfcordoba/billetera/internal/models"
)

func TestCreateAccountWithPositiveOpeningBalance(t *testing.T) {
	store := newFakeStore()
	svc := NewAccountService(store, zerolog.Nop())

	account, opening, err := svc.CreateAccount(context.Background(), testUser, CreateAccountInput{
		Type:           models.AccountTypeSavings,
		Name:           "Emergency fund",
		Institution:    "Bancolombia",
		InitialBalance: dec("150.75"),
		Currency:       models.CurrencyCOP,
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	if !account.Balance.Equal(dec("150.75")) {
		t.Errorf("balance = %s, want 150.75", account.Balance)
	}
	if opening == nil {
		t.Fatal("expected an opening transaction")
	}
	if opening.Type != models.TransactionTypeIncome {
		t.Errorf("opening type = %s, want income for a positive balance", opening.Type)
	}
	if !opening.Amount.Equal(dec("150.75")) {
		t.Errorf("opening amount = %s, want 150.75", opening.Amount)
	}
	if len(store.transactions) != 1 {
		t.Errorf("stored transactions = %d, want exactly 1", len(store.transactions))
	}
}

func TestCreateAccountWithNegativeOpeningBalance(t *testing.T) {
	store := newFakeStore()
	svc := NewAccountService(store, zerolog.Nop())

	_, opening, err := svc.CreateAccount(context.Background(), testUser, CreateAccountInput{
		Type:           models.AccountTypeCreditCard,
		Name:           "Visa",
		InitialBalance: dec("-200.00"),
		Currency:       models.CurrencyCOP,
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if opening.Type != models.TransactionTypeExpense {
		t.Errorf("opening type = %s, want expense for a negative balance", opening.Type)
	}
	if !opening.Amount.Equal(dec("200.00")) {
		t.Errorf("opening amount = %s, want absolute value 200.00", opening.Amount)
	}
}

func TestCreateAccountZeroBalanceHasNoOpeningTransaction(t *testing.T) {
	store := newFakeStore()
	svc := NewAccountService(store, zerolog.Nop())

	_, opening, err := svc.CreateAccount(context.Background(), testUser, CreateAccountInput{
		Type:     models.AccountTypeCash,
		Name:     "Wallet",
		Currency: models.CurrencyCOP,
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if opening != nil {
		t.Errorf("opening transaction = %+v, want none for zero balance", opening)
	}
	if len(store.transactions) != 0 {
		t.Errorf("stored transactions = %d, want 0", len(store.transactions))
	}
}

func TestCreateAccountNegativeCashRejected(t *testing.T) {
	store := newFakeStore()
	svc := NewAccountService(store, zerolog.Nop())

	_, _, err := svc.CreateAccount(context.Background(), testUser, CreateAccountInput{
		Type:           models.AccountTypeCash,
		Name:           "Wallet",
		InitialBalance: dec("-10.00"),
		Currency:       models.CurrencyCOP,
	})
	if !errors.Is(err, models.ErrInsufficientBalance) {
		t.Fatalf("CreateAccount() error = %v, want ErrInsufficientBalance", err)
	}
	if len(store.accounts) != 0 {
		t.Errorf("stored accounts = %d, want 0", len(store.accounts))
	}
}

func TestCreateAccountValidation(t *testing.T) {
	svc := NewAccountService(newFakeStore(), zerolog.Nop())

	tests := []struct {
		name  string
		input CreateAccountInput
	}{
		{"unknown type", CreateAccountInput{Type: "checking", Name: "x", Currency: models.CurrencyCOP}},
		{"unknown currency", CreateAccountInput{Type: models.AccountTypeCash, Name: "x", Currency: "EUR"}},
		{"missing name", CreateAccountInput{Type: models.AccountTypeCash, Currency: models.CurrencyCOP}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.CreateAccount(context.Background(), testUser, tt.input)
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("CreateAccount() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestUpdateAccountGuardUsesStoredType(t *testing.T) {
	cash := testAccount(models.AccountTypeCash, models.CurrencyCOP, "100.00")
	savings := testAccount(models.AccountTypeSavings, models.CurrencyCOP, "100.00")
	store := newFakeStore(cash, savings)
	svc := NewAccountService(store, zerolog.Nop())

	negative := dec("-5.00")
	_, err := svc.UpdateAccount(context.Background(), testUser, cash.AccountID, UpdateAccountInput{
		Balance: &negative,
	})
	if !errors.Is(err, models.ErrInsufficientBalance) {
		t.Fatalf("UpdateAccount(cash) error = %v, want ErrInsufficientBalance", err)
	}
	if got := store.account(cash.AccountID).Balance; !got.Equal(dec("100.00")) {
		t.Errorf("cash balance = %s, want untouched 100.00", got)
	}

	updated, err := svc.UpdateAccount(context.Background(), testUser, savings.AccountID, UpdateAccountInput{
		Balance: &negative,
	})
	if err != nil {
		t.Fatalf("UpdateAccount(savings) error = %v, savings may go negative", err)
	}
	if !updated.Balance.Equal(dec("-5.00")) {
		t.Errorf("savings balance = %s, want -5.00", updated.Balance)
	}
}

func TestUpdateAccountFields(t *testing.T) {
	account := testAccount(models.AccountTypeSavings, models.CurrencyCOP, "100.00")
	store := newFakeStore(account)
	svc := NewAccountService(store, zerolog.Nop())

	name := "Renamed"
	institution := "Davivienda"
	updated, err := svc.UpdateAccount(context.Background(), testUser, account.AccountID, UpdateAccountInput{
		Name:        &name,
		Institution: &institution,
	})
	if err != nil {
		t.Fatalf("UpdateAccount() error = %v", err)
	}
	if updated.Name != "Renamed" || updated.Institution != "Davivienda" {
		t.Errorf("updated = %s/%s, want Renamed/Davivienda", updated.Name, updated.Institution)
	}
	if !updated.Balance.Equal(dec("100.00")) {
		t.Errorf("balance = %s, want unchanged 100.00", updated.Balance)
	}
}

func TestUpdateAccountNotFound(t *testing.T) {
	svc := NewAccountService(newFakeStore(), zerolog.Nop())

	_, err := svc.UpdateAccount(context.Background(), testUser, uuid.New(), UpdateAccountInput{})
	if !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("UpdateAccount() error = %v, want ErrAccountNotFound", err)
	}
}
