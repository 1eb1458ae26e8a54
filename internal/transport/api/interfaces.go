package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/efeltrin/cash-machine/internal/domain"
	"github.com/efeltrin/cash-machine/internal/service"
)

// LedgerServicer exists for handler mocks.
type LedgerServicer interface {
	Deposit(ctx context.Context, args service.OperationArgs) (*domain.Receipt, error)
	Withdraw(ctx context.Context, args service.OperationArgs) (*domain.Receipt, error)
}
