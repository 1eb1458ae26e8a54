package pgrepo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/efeltrin/cash-machine/internal/domain"
	"github.com/efeltrin/cash-machine/internal/repository/repoargs"
	"github.com/efeltrin/cash-machine/pkg/uow"
)

type TransactionRepository struct {
	db uow.DBTX
}

func NewTransactionRepository(db uow.DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append inserts one audit transaction row and returns the number of
// affected rows. created_at is assigned by the database.
func (r *TransactionRepository) Append(
	ctx context.Context,
	args repoargs.AppendTransaction,
) (int64, error) {
	query := `
		INSERT INTO transactions (operation, value, disconted_amount, account_id)
		VALUES ($1, $2, $3, $4)`

	tag, err := r.db.Exec(ctx, query,
		args.Operation,
		args.Amount.StringFixed(2),
		args.Fee.StringFixed(2),
		args.AccountID,
	)
	if err != nil {
		return 0, convertErr(err, "appending %s transaction for account id %d", args.Operation, args.AccountID)
	}
	return tag.RowsAffected(), nil
}

// SumByAccountID aggregates amounts and fees per operation for one account.
func (r *TransactionRepository) SumByAccountID(
	ctx context.Context,
	accountID int64,
) (*repoargs.TransactionAggregation, error) {
	query := `
		SELECT operation, COALESCE(SUM(value), 0)::text, COALESCE(SUM(disconted_amount), 0)::text
		FROM transactions
		WHERE account_id = $1
		GROUP BY operation`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, convertErr(err, "summing transactions for account id %d", accountID)
	}
	defer rows.Close()

	var agg repoargs.TransactionAggregation
	for rows.Next() {
		var operation domain.OperationType
		var amountStr, feeStr string
		if scanErr := rows.Scan(&operation, &amountStr, &feeStr); scanErr != nil {
			return nil, convertErr(scanErr, "summing transactions for account id %d", accountID)
		}
		amount, fee, parseErr := parseAmountFee(amountStr, feeStr)
		if parseErr != nil {
			return nil, fmt.Errorf("[repository/summing transactions for account id %d] %w", accountID, parseErr)
		}
		switch operation {
		case domain.OperationDeposit:
			agg.DepositTotal = amount
		case domain.OperationWithdraw:
			agg.WithdrawTotal = amount
		}
		agg.FeeTotal = agg.FeeTotal.Add(fee)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "summing transactions for account id %d", accountID)
	}
	return &agg, nil
}

// GetByAccountID returns the audit trail of an account, newest first.
func (r *TransactionRepository) GetByAccountID(
	ctx context.Context,
	accountID int64,
) ([]domain.Transaction, error) {
	query := `
		SELECT id, operation, value::text, disconted_amount::text, account_id, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, convertErr(err, "getting transactions for account id %d", accountID)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var amountStr, feeStr string
		if scanErr := rows.Scan(&t.ID, &t.Operation, &amountStr, &feeStr, &t.AccountID, &t.CreatedAt); scanErr != nil {
			return nil, convertErr(scanErr, "getting transactions for account id %d", accountID)
		}
		amount, fee, parseErr := parseAmountFee(amountStr, feeStr)
		if parseErr != nil {
			return nil, fmt.Errorf("[repository/getting transactions for account id %d] %w", accountID, parseErr)
		}
		t.Amount = amount
		t.Fee = fee
		transactions = append(transactions, t)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting transactions for account id %d", accountID)
	}
	return transactions, nil
}

func parseAmountFee(amountStr, feeStr string) (decimal.Decimal, decimal.Decimal, error) {
	amount, amountErr := decimal.NewFromString(amountStr)
	if amountErr != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("parsing amount %q: %w", amountStr, domain.ErrUnknown)
	}
	fee, feeErr := decimal.NewFromString(feeStr)
	if feeErr != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("parsing fee %q: %w", feeStr, domain.ErrUnknown)
	}
	return amount, fee, nil
}
