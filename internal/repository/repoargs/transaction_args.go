package repoargs

import (
	"github.com/efeltrin/cash-machine/internal/domain"
	"github.com/shopspring/decimal"
)

type AppendTransaction struct {
	AccountID int64
	Operation domain.OperationType
	Amount    decimal.Decimal
	Fee       decimal.Decimal
}

// TransactionAggregation holds per-operation sums for one account. The
// account balance must equal DepositTotal - WithdrawTotal - FeeTotal.
type TransactionAggregation struct {
	DepositTotal  decimal.Decimal
	WithdrawTotal decimal.Decimal
	FeeTotal      decimal.Decimal
}
