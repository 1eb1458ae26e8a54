package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnknown        = errors.New("unknown error")

	// ErrNoRowsAffected signals a write that was expected to touch exactly
	// one row and touched none (stale identifier, silent no-op).
	ErrNoRowsAffected = errors.New("no rows affected")
)

type FailureKind string

const (
	FailureInvalidInput      FailureKind = "invalid_input"
	FailureAccountNotFound   FailureKind = "account_not_found"
	FailureWithdrawalLimit   FailureKind = "withdrawal_limit_exceeded"
	FailureInsufficientFunds FailureKind = "insufficient_funds"
	FailureStorage           FailureKind = "storage_failure"
)

// Step identifies the store call a storage failure happened on. The wrapped
// cause tells a driver error apart from an affected-rows mismatch
// (ErrNoRowsAffected).
type Step string

const (
	StepLookup            Step = "lookup"
	StepCreateAccount     Step = "create_account"
	StepAppendTransaction Step = "append_transaction"
	StepUpdateBalance     Step = "update_balance"
)

// LedgerError is the single failure type crossing the ledger engine
// boundary. Msg is safe to show to the caller; Err carries the private
// cause, if any.
type LedgerError struct {
	Kind FailureKind
	Step Step
	Msg  string
	Err  error
}

func (e *LedgerError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("[%s/%s] %s", e.Kind, e.Step, e.Msg)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Msg)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// Public returns the user facing message.
func (e *LedgerError) Public() string {
	return e.Msg
}

func NewInvalidInput(msg string) error {
	return &LedgerError{Kind: FailureInvalidInput, Msg: msg}
}

func NewAccountNotFound() error {
	return &LedgerError{
		Kind: FailureAccountNotFound,
		Msg:  "account not found, make a deposit to activate the account",
	}
}

func NewWithdrawalLimitExceeded() error {
	return &LedgerError{
		Kind: FailureWithdrawalLimit,
		Msg:  "value exceeds the withdrawal limit of B$ 600,00",
	}
}

func NewInsufficientFunds() error {
	return &LedgerError{
		Kind: FailureInsufficientFunds,
		Msg:  "current balance is less than the withdrawal amount",
	}
}

func NewStorageFailure(step Step, err error) error {
	return &LedgerError{
		Kind: FailureStorage,
		Step: step,
		Msg:  "operation could not be completed",
		Err:  err,
	}
}

// IsFailure reports whether err is (or wraps) a LedgerError of the given
// kind.
func IsFailure(err error, kind FailureKind) bool {
	var ledgerErr *LedgerError
	return errors.As(err, &ledgerErr) && ledgerErr.Kind == kind
}
