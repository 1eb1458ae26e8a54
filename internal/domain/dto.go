package domain

// AccountClass is a closed enumeration. Anything outside the two known
// classes is rejected at the boundary, never defaulted.
type AccountClass string

const (
	ClassCurrent AccountClass = "corrente"
	ClassSavings AccountClass = "poupanca"
)

func (c AccountClass) Valid() bool {
	return c == ClassCurrent || c == ClassSavings
}

// Label returns the human readable account class name used in receipts.
func (c AccountClass) Label() string {
	switch c {
	case ClassCurrent:
		return "Conta Corrente"
	case ClassSavings:
		return "Conta Poupança"
	}
	return ""
}

type OperationType string

const (
	OperationDeposit  OperationType = "deposit"
	OperationWithdraw OperationType = "withdraw"
)
