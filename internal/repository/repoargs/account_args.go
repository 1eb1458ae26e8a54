package repoargs

import (
	"github.com/efeltrin/cash-machine/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateAccount struct {
	Number  string
	Class   domain.AccountClass
	Balance decimal.Decimal
}
