package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jfcordoba/billetera/internal/models"
	"github.com/jfcordoba/billetera/internal/rates"
	"github.com/jfcordoba/billetera/internal/repository"
)

// fakeStore is an in-memory TxRunner with rollback-on-error semantics, so
// tests can assert that failed operations leave no partial writes.
type fakeStore struct {
	accounts     map[uuid.UUID]*models.Account
	transactions []*models.Transaction
}

func newFakeStore(accounts ...*models.Account) *fakeStore {
	s := &fakeStore{accounts: map[uuid.UUID]*models.Account{}}
	for _, a := range accounts {
		cp := *a
		s.accounts[a.AccountID] = &cp
	}
	return s
}

func (s *fakeStore) InTx(ctx context.Context, fn func(repository.UnitOfWork) error) error {
	snapshot := map[uuid.UUID]*models.Account{}
	for id, a := range s.accounts {
		cp := *a
		snapshot[id] = &cp
	}
	txCount := len(s.transactions)

	if err := fn(&fakeUnitOfWork{store: s}); err != nil {
		s.accounts = snapshot
		s.transactions = s.transactions[:txCount]
		return err
	}
	return nil
}

func (s *fakeStore) account(id uuid.UUID) *models.Account {
	return s.accounts[id]
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) AccountForUpdate(ctx context.Context, accountID, userID uuid.UUID) (*models.Account, error) {
	a, ok := u.store.accounts[accountID]
	if !ok || a.UserID != userID {
		return nil, models.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (u *fakeUnitOfWork) InsertAccount(ctx context.Context, a *models.Account) error {
	cp := *a
	u.store.accounts[a.AccountID] = &cp
	return nil
}

func (u *fakeUnitOfWork) UpdateAccount(ctx context.Context, a *models.Account) error {
	existing, ok := u.store.accounts[a.AccountID]
	if !ok || existing.UserID != a.UserID {
		return models.ErrAccountNotFound
	}
	cp := *a
	u.store.accounts[a.AccountID] = &cp
	return nil
}

func (u *fakeUnitOfWork) UpdateAccountBalance(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) error {
	a, ok := u.store.accounts[accountID]
	if !ok {
		return models.ErrAccountNotFound
	}
	a.Balance = balance
	return nil
}

func (u *fakeUnitOfWork) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	cp := *t
	u.store.transactions = append(u.store.transactions, &cp)
	return nil
}

// fakeRateSource counts lookups so tests can assert the cache was or was
// not consulted.
type fakeRateSource struct {
	snap  rates.Snapshot
	err   error
	calls int
}

func (f *fakeRateSource) CurrentRate(ctx context.Context) (rates.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return rates.Snapshot{}, f.err
	}
	return f.snap, nil
}
