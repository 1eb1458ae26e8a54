package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/efeltrin/cash-machine/internal/domain"
	"github.com/efeltrin/cash-machine/internal/repository/repoargs"
	"github.com/efeltrin/cash-machine/pkg/uow"
)

var (
	// withdrawalFee is charged on every withdrawal in addition to the
	// requested amount.
	withdrawalFee = decimal.NewFromFloat(0.30)
	// withdrawalCeiling caps the amount of a single withdrawal.
	withdrawalCeiling = decimal.NewFromInt(600)
)

// LedgerService is the ledger transaction engine. Every operation runs its
// lookup/compute/append/update sequence inside one unit of work, opening
// with a locked read of the account row, so concurrent operations against
// the same account serialize and a failure at any step leaves no partial
// mutation behind. Balances are never cached between operations.
type LedgerService struct {
	uow uow.UOW
}

func NewLedgerService(u uow.UOW) (*LedgerService, error) {
	// fail at wiring time if the repositories are missing or mistyped
	if _, err := uow.GetRepositoryAs[AccountRepository](u, uow.RepositoryName(repoargs.AccountRepoName)); err != nil {
		return nil, err //nolint:wrapcheck
	}
	if _, err := uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName)); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &LedgerService{uow: u}, nil
}

type OperationArgs struct {
	AccountNumber string
	Class         domain.AccountClass
	Amount        decimal.Decimal
}

func (a OperationArgs) validate() error {
	if a.AccountNumber == "" {
		return domain.NewInvalidInput("account is required")
	}
	if !a.Class.Valid() {
		return domain.NewInvalidInput("unknown account type")
	}
	if !a.Amount.IsPositive() {
		return domain.NewInvalidInput("value must be greater than zero")
	}
	return nil
}

// Deposit credits args.Amount to the account, creating the account with the
// deposited value as its opening balance when it does not exist yet. The
// returned receipt reports the balance before and after.
//
// Failures are *domain.LedgerError: invalid input before any storage access,
// or a storage failure naming the step that broke.
func (s *LedgerService) Deposit(ctx context.Context, args OperationArgs) (*domain.Receipt, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	var receipt *domain.Receipt
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		accountRepo, transactionRepo, repoErr := resolveRepos(tx)
		if repoErr != nil {
			return repoErr
		}

		account, findErr := accountRepo.FindForUpdate(c, args.AccountNumber, args.Class)
		if findErr != nil && !errors.Is(findErr, domain.ErrRecordNotFound) {
			return domain.NewStorageFailure(domain.StepLookup, findErr)
		}

		var oldBalance, newBalance decimal.Decimal
		var accountID int64

		if account == nil {
			created, createErr := accountRepo.Create(c, repoargs.CreateAccount{
				Number:  args.AccountNumber,
				Class:   args.Class,
				Balance: args.Amount,
			})
			if createErr != nil {
				return domain.NewStorageFailure(domain.StepCreateAccount, createErr)
			}
			accountID = created.ID
			oldBalance = decimal.Zero
			newBalance = args.Amount
		} else {
			accountID = account.ID
			oldBalance = account.Balance
			newBalance = account.Balance.Add(args.Amount)
		}

		if appendErr := appendTransaction(c, transactionRepo, repoargs.AppendTransaction{
			AccountID: accountID,
			Operation: domain.OperationDeposit,
			Amount:    args.Amount,
			Fee:       decimal.Zero,
		}); appendErr != nil {
			return appendErr
		}

		// the freshly created account already carries the deposited value
		if account != nil {
			if updateErr := updateBalance(c, accountRepo, accountID, newBalance); updateErr != nil {
				return updateErr
			}
		}

		receipt = &domain.Receipt{
			AccountClass:  args.Class,
			AccountNumber: args.AccountNumber,
			Operation:     domain.OperationDeposit,
			OldBalance:    oldBalance,
			Amount:        args.Amount,
			Fee:           decimal.Zero,
			NewBalance:    newBalance,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return receipt, nil
}

// Withdraw debits args.Amount plus the fixed fee from the account.
// Business rules, in order: the account must exist, the amount must not
// exceed the ceiling, and the stored balance must cover amount plus fee.
func (s *LedgerService) Withdraw(ctx context.Context, args OperationArgs) (*domain.Receipt, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	var receipt *domain.Receipt
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		accountRepo, transactionRepo, repoErr := resolveRepos(tx)
		if repoErr != nil {
			return repoErr
		}

		account, findErr := accountRepo.FindForUpdate(c, args.AccountNumber, args.Class)
		if findErr != nil {
			if errors.Is(findErr, domain.ErrRecordNotFound) {
				return domain.NewAccountNotFound()
			}
			return domain.NewStorageFailure(domain.StepLookup, findErr)
		}

		if args.Amount.GreaterThan(withdrawalCeiling) {
			return domain.NewWithdrawalLimitExceeded()
		}

		debit := args.Amount.Add(withdrawalFee)
		if account.Balance.LessThan(debit) {
			return domain.NewInsufficientFunds()
		}
		newBalance := account.Balance.Sub(debit)

		if appendErr := appendTransaction(c, transactionRepo, repoargs.AppendTransaction{
			AccountID: account.ID,
			Operation: domain.OperationWithdraw,
			Amount:    args.Amount,
			Fee:       withdrawalFee,
		}); appendErr != nil {
			return appendErr
		}

		if updateErr := updateBalance(c, accountRepo, account.ID, newBalance); updateErr != nil {
			return updateErr
		}

		receipt = &domain.Receipt{
			AccountClass:  args.Class,
			AccountNumber: args.AccountNumber,
			Operation:     domain.OperationWithdraw,
			OldBalance:    account.Balance,
			Amount:        args.Amount,
			Fee:           withdrawalFee,
			NewBalance:    newBalance,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return receipt, nil
}

func resolveRepos(tx uow.TX) (AccountRepository, TransactionRepository, error) {
	accountRepo, accountErr := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
	if accountErr != nil {
		return nil, nil, accountErr //nolint:wrapcheck
	}
	transactionRepo, transErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
	if transErr != nil {
		return nil, nil, transErr //nolint:wrapcheck
	}
	return accountRepo, transactionRepo, nil
}

func appendTransaction(ctx context.Context, repo TransactionRepository, args repoargs.AppendTransaction) error {
	affected, err := repo.Append(ctx, args)
	if err != nil {
		return domain.NewStorageFailure(domain.StepAppendTransaction, err)
	}
	if affected == 0 {
		return domain.NewStorageFailure(domain.StepAppendTransaction, domain.ErrNoRowsAffected)
	}
	return nil
}

func updateBalance(ctx context.Context, repo AccountRepository, accountID int64, balance decimal.Decimal) error {
	affected, err := repo.UpdateBalance(ctx, accountID, balance)
	if err != nil {
		return domain.NewStorageFailure(domain.StepUpdateBalance, err)
	}
	if affected == 0 {
		return domain.NewStorageFailure(domain.StepUpdateBalance, domain.ErrNoRowsAffected)
	}
	return nil
}
