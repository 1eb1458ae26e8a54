package service

import (
	"fmt"

	"github.com/efeltrin/cash-machine/pkg/uow"
)

type AppServices struct {
	LedgerService *LedgerService
}

func Factory(unitOfWork uow.UOW) (*AppServices, error) {
	ledgerService, ledgerServiceErr := NewLedgerService(unitOfWork)
	if ledgerServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", ledgerServiceErr.Error())
	}

	return &AppServices{
		LedgerService: ledgerService,
	}, nil
}
