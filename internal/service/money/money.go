// Package money renders decimal amounts in the receipt currency format.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders an amount as "B$ <units>,<cents>" with two fractional
// digits and a comma decimal separator, e.g. "B$ 50,00".
func Format(amount decimal.Decimal) string {
	return "B$ " + strings.Replace(amount.StringFixed(2), ".", ",", 1)
}
