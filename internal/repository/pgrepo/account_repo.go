package pgrepo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/efeltrin/cash-machine/internal/domain"
	"github.com/efeltrin/cash-machine/internal/repository/repoargs"
	"github.com/efeltrin/cash-machine/pkg/uow"
)

const findAccountQuery = `
	SELECT id, account, type, balance::text, created_at, updated_at
	FROM accounts
	WHERE account = $1 AND type = $2`

type AccountRepository struct {
	db uow.DBTX
}

func NewAccountRepository(db uow.DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// Find returns the account identified by (number, class) or
// domain.ErrRecordNotFound.
func (r *AccountRepository) Find(
	ctx context.Context,
	number string,
	class domain.AccountClass,
) (*domain.Account, error) {
	return r.scanAccount(ctx, findAccountQuery, number, class)
}

// FindForUpdate is Find with a row lock. The lock is held until the
// enclosing unit of work commits or rolls back, serializing concurrent
// operations against the same account.
func (r *AccountRepository) FindForUpdate(
	ctx context.Context,
	number string,
	class domain.AccountClass,
) (*domain.Account, error) {
	return r.scanAccount(ctx, findAccountQuery+" FOR UPDATE", number, class)
}

func (r *AccountRepository) Create(
	ctx context.Context,
	args repoargs.CreateAccount,
) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (account, type, balance)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	account := domain.Account{
		Number:  args.Number,
		Class:   args.Class,
		Balance: args.Balance,
	}
	err := r.db.QueryRow(ctx, query, args.Number, args.Class, args.Balance.StringFixed(2)).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, convertErr(err, "creating account %s/%s", args.Number, args.Class)
	}
	return &account, nil
}

// UpdateBalance overwrites the stored balance and returns the number of
// affected rows. Zero rows means the identifier went stale; the caller must
// treat it as a failure and abort the unit.
func (r *AccountRepository) UpdateBalance(
	ctx context.Context,
	accountID int64,
	balance decimal.Decimal,
) (int64, error) {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = now()
		WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, balance.StringFixed(2), accountID)
	if err != nil {
		return 0, convertErr(err, "updating balance for account id %d", accountID)
	}
	return tag.RowsAffected(), nil
}

func (r *AccountRepository) scanAccount(
	ctx context.Context,
	query string,
	number string,
	class domain.AccountClass,
) (*domain.Account, error) {
	var account domain.Account
	var balanceStr string

	err := r.db.QueryRow(ctx, query, number, class).Scan(
		&account.ID,
		&account.Number,
		&account.Class,
		&balanceStr,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, convertErr(err, "finding account %s/%s", number, class)
	}

	balance, balanceErr := decimal.NewFromString(balanceStr)
	if balanceErr != nil {
		return nil, fmt.Errorf("[repository/finding account %s/%s] parsing balance %q: %w",
			number, class, balanceStr, domain.ErrUnknown)
	}
	account.Balance = balance
	return &account, nil
}
