package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/efeltrin/cash-machine/internal/domain"
	"github.com/efeltrin/cash-machine/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// AccountRepository is the persistence contract for accounts. FindForUpdate
// must take a row lock scoped to the surrounding unit of work; UpdateBalance
// reports affected rows so silent no-ops are detectable.
type AccountRepository interface {
	Find(ctx context.Context, number string, class domain.AccountClass) (*domain.Account, error)
	FindForUpdate(ctx context.Context, number string, class domain.AccountClass) (*domain.Account, error)
	Create(ctx context.Context, args repoargs.CreateAccount) (*domain.Account, error)
	UpdateBalance(ctx context.Context, accountID int64, balance decimal.Decimal) (int64, error)
}

type TransactionRepository interface {
	Append(ctx context.Context, args repoargs.AppendTransaction) (int64, error)
	SumByAccountID(ctx context.Context, accountID int64) (*repoargs.TransactionAggregation, error)
	GetByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}
