package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Number    string
	Class     AccountClass
	Balance   decimal.Decimal
}

// Transaction is an append-only audit record. Rows are never updated or
// deleted; the current balance of an account must always equal the signed
// sum of its transactions.
type Transaction struct {
	ID        int64
	CreatedAt time.Time
	AccountID int64
	Operation OperationType
	Amount    decimal.Decimal
	Fee       decimal.Decimal
}

// Receipt is the result of a successful deposit or withdrawal. Amounts stay
// decimal here; presentation formatting belongs to the transport layer.
type Receipt struct {
	AccountClass  AccountClass
	AccountNumber string
	Operation     OperationType
	OldBalance    decimal.Decimal
	Amount        decimal.Decimal
	Fee           decimal.Decimal
	NewBalance    decimal.Decimal
}
