package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerErrorKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind FailureKind
	}{
		{name: "invalid input", err: NewInvalidInput("account is required"), kind: FailureInvalidInput},
		{name: "account not found", err: NewAccountNotFound(), kind: FailureAccountNotFound},
		{name: "limit exceeded", err: NewWithdrawalLimitExceeded(), kind: FailureWithdrawalLimit},
		{name: "insufficient funds", err: NewInsufficientFunds(), kind: FailureInsufficientFunds},
		{name: "storage", err: NewStorageFailure(StepLookup, ErrUnknown), kind: FailureStorage},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.True(t, IsFailure(c.err, c.kind))
			assert.False(t, IsFailure(c.err, "some_other_kind"))

			var ledgerErr *LedgerError
			require.ErrorAs(t, c.err, &ledgerErr)
			assert.NotEmpty(t, ledgerErr.Public())
		})
	}
}

func TestLedgerErrorStepAndCause(t *testing.T) {
	err := NewStorageFailure(StepUpdateBalance, ErrNoRowsAffected)

	var ledgerErr *LedgerError
	require.ErrorAs(t, err, &ledgerErr)
	assert.Equal(t, StepUpdateBalance, ledgerErr.Step)
	assert.ErrorIs(t, err, ErrNoRowsAffected)
	assert.Contains(t, err.Error(), string(StepUpdateBalance))
}

func TestLedgerErrorSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("withdrawing: %w", NewInsufficientFunds())
	assert.True(t, IsFailure(err, FailureInsufficientFunds))

	var ledgerErr *LedgerError
	assert.True(t, errors.As(err, &ledgerErr))
}

func TestAccountClass(t *testing.T) {
	assert.True(t, ClassCurrent.Valid())
	assert.True(t, ClassSavings.Valid())
	assert.False(t, AccountClass("salario").Valid())
	assert.False(t, AccountClass("").Valid())

	assert.Equal(t, "Conta Corrente", ClassCurrent.Label())
	assert.Equal(t, "Conta Poupança", ClassSavings.Label())
	assert.Empty(t, AccountClass("salario").Label())
}
