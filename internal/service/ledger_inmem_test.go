package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efeltrin/cash-machine/internal/domain"
	"github.com/efeltrin/cash-machine/internal/repository/repoargs"
	"github.com/efeltrin/cash-machine/pkg/uow"
)

// memStore is an in-memory account store with the same unit semantics as the
// real one: units serialize on a per-store lock and roll back on failure.
// It backs the properties that need observable store state, most importantly
// that concurrent deposits never lose updates.
type memStore struct {
	mu           sync.Mutex
	accounts     map[string]*domain.Account
	transactions []domain.Transaction
	nextID       int64
}

func newMemStore() *memStore {
	return &memStore{accounts: make(map[string]*domain.Account)}
}

func accountKey(number string, class domain.AccountClass) string {
	return number + "/" + string(class)
}

func (m *memStore) snapshot() ([]domain.Transaction, map[string]*domain.Account, int64) {
	accounts := make(map[string]*domain.Account, len(m.accounts))
	for k, v := range m.accounts {
		accountCopy := *v
		accounts[k] = &accountCopy
	}
	transactions := make([]domain.Transaction, len(m.transactions))
	copy(transactions, m.transactions)
	return transactions, accounts, m.nextID
}

type memUOW struct {
	store *memStore
}

func (u *memUOW) Register(uow.RepositoryName, uow.RepositoryFactory) error {
	return nil
}

func (u *memUOW) GetRepository(name uow.RepositoryName) (uow.Repository, error) {
	return resolveMemRepo(u.store, name)
}

func (u *memUOW) Do(ctx context.Context, fn func(context.Context, uow.TX) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	transactions, accounts, nextID := u.store.snapshot()
	if err := fn(ctx, &memTX{store: u.store}); err != nil {
		// all-or-nothing: restore pre-unit state
		u.store.transactions = transactions
		u.store.accounts = accounts
		u.store.nextID = nextID
		return err
	}
	return nil
}

type memTX struct {
	store *memStore
}

func (t *memTX) Get(name uow.RepositoryName) (uow.Repository, error) {
	return resolveMemRepo(t.store, name)
}

func resolveMemRepo(store *memStore, name uow.RepositoryName) (uow.Repository, error) {
	switch repoargs.RepositoryName(name) {
	case repoargs.AccountRepoName:
		return &memAccountRepo{store: store}, nil
	case repoargs.TransactionRepoName:
		return &memTransactionRepo{store: store}, nil
	}
	return nil, uow.ErrRepositoryNotRegistered
}

type memAccountRepo struct {
	store *memStore
}

func (r *memAccountRepo) Find(_ context.Context, number string, class domain.AccountClass) (*domain.Account, error) {
	if account, ok := r.store.accounts[accountKey(number, class)]; ok {
		accountCopy := *account
		return &accountCopy, nil
	}
	return nil, domain.ErrRecordNotFound
}

func (r *memAccountRepo) FindForUpdate(ctx context.Context, number string, class domain.AccountClass) (*domain.Account, error) {
	return r.Find(ctx, number, class)
}

func (r *memAccountRepo) Create(_ context.Context, args repoargs.CreateAccount) (*domain.Account, error) {
	key := accountKey(args.Number, args.Class)
	if _, ok := r.store.accounts[key]; ok {
		return nil, domain.ErrDuplicateKey
	}
	r.store.nextID++
	account := &domain.Account{
		ID:      r.store.nextID,
		Number:  args.Number,
		Class:   args.Class,
		Balance: args.Balance,
	}
	r.store.accounts[key] = account
	accountCopy := *account
	return &accountCopy, nil
}

func (r *memAccountRepo) UpdateBalance(_ context.Context, accountID int64, balance decimal.Decimal) (int64, error) {
	for _, account := range r.store.accounts {
		if account.ID == accountID {
			account.Balance = balance
			return 1, nil
		}
	}
	return 0, nil
}

type memTransactionRepo struct {
	store *memStore
}

func (r *memTransactionRepo) Append(_ context.Context, args repoargs.AppendTransaction) (int64, error) {
	r.store.nextID++
	r.store.transactions = append(r.store.transactions, domain.Transaction{
		ID:        r.store.nextID,
		AccountID: args.AccountID,
		Operation: args.Operation,
		Amount:    args.Amount,
		Fee:       args.Fee,
	})
	return 1, nil
}

func (r *memTransactionRepo) SumByAccountID(_ context.Context, accountID int64) (*repoargs.TransactionAggregation, error) {
	var agg repoargs.TransactionAggregation
	for _, t := range r.store.transactions {
		if t.AccountID != accountID {
			continue
		}
		switch t.Operation {
		case domain.OperationDeposit:
			agg.DepositTotal = agg.DepositTotal.Add(t.Amount)
		case domain.OperationWithdraw:
			agg.WithdrawTotal = agg.WithdrawTotal.Add(t.Amount)
		}
		agg.FeeTotal = agg.FeeTotal.Add(t.Fee)
	}
	return &agg, nil
}

func (r *memTransactionRepo) GetByAccountID(_ context.Context, accountID int64) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for _, t := range r.store.transactions {
		if t.AccountID == accountID {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

func newMemLedgerService(t *testing.T) (*LedgerService, *memStore) {
	t.Helper()
	store := newMemStore()
	svs, err := NewLedgerService(&memUOW{store: store})
	require.NoError(t, err)
	return svs, store
}

func TestConcurrentDepositsConverge(t *testing.T) {
	const workers = 32
	amount := decimal.NewFromFloat(5.00)

	svs, store := newMemLedgerService(t)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svs.Deposit(context.Background(), OperationArgs{
				AccountNumber: "123",
				Class:         domain.ClassCurrent,
				Amount:        amount,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	account := store.accounts[accountKey("123", domain.ClassCurrent)]
	require.NotNil(t, account)
	// no lost updates: exactly workers * amount, one audit row per deposit
	assert.True(t, account.Balance.Equal(amount.Mul(decimal.NewFromInt(workers))),
		"final balance %s", account.Balance)
	assert.Len(t, store.transactions, workers)
}

func TestLedgerRoundTrip(t *testing.T) {
	svs, store := newMemLedgerService(t)
	ctx := context.Background()
	args := func(amount float64) OperationArgs {
		return OperationArgs{
			AccountNumber: "900",
			Class:         domain.ClassSavings,
			Amount:        decimal.NewFromFloat(amount),
		}
	}

	_, err := svs.Deposit(ctx, args(500.00))
	require.NoError(t, err)
	_, err = svs.Deposit(ctx, args(120.40))
	require.NoError(t, err)
	_, err = svs.Withdraw(ctx, args(60.00))
	require.NoError(t, err)
	_, err = svs.Withdraw(ctx, args(100.00))
	require.NoError(t, err)

	account := store.accounts[accountKey("900", domain.ClassSavings)]
	require.NotNil(t, account)

	repo := &memTransactionRepo{store: store}
	agg, aggErr := repo.SumByAccountID(ctx, account.ID)
	require.NoError(t, aggErr)

	// balance == deposits - withdrawals - fees
	expected := agg.DepositTotal.Sub(agg.WithdrawTotal).Sub(agg.FeeTotal)
	assert.True(t, account.Balance.Equal(expected), "balance %s, ledger sum %s", account.Balance, expected)
	// 500.00 + 120.40 - 60.00 - 100.00 - 2*0.30
	assert.True(t, account.Balance.Equal(decimal.NewFromFloat(459.80)))
}

func TestRejectedWithdrawalLeavesStoreUntouched(t *testing.T) {
	svs, store := newMemLedgerService(t)
	ctx := context.Background()

	_, err := svs.Deposit(ctx, OperationArgs{
		AccountNumber: "123",
		Class:         domain.ClassCurrent,
		Amount:        decimal.NewFromFloat(5.00),
	})
	require.NoError(t, err)

	transactionsBefore, accountsBefore, _ := store.snapshot()

	_, err = svs.Withdraw(ctx, OperationArgs{
		AccountNumber: "123",
		Class:         domain.ClassCurrent,
		Amount:        decimal.NewFromFloat(700.00),
	})
	require.Error(t, err)
	assert.True(t, domain.IsFailure(err, domain.FailureWithdrawalLimit))

	_, err = svs.Withdraw(ctx, OperationArgs{
		AccountNumber: "123",
		Class:         domain.ClassCurrent,
		Amount:        decimal.NewFromFloat(10.00),
	})
	require.Error(t, err)
	assert.True(t, domain.IsFailure(err, domain.FailureInsufficientFunds))

	assert.Equal(t, transactionsBefore, store.transactions)
	balanceBefore := accountsBefore[accountKey("123", domain.ClassCurrent)].Balance
	assert.True(t, store.accounts[accountKey("123", domain.ClassCurrent)].Balance.Equal(balanceBefore))
}
