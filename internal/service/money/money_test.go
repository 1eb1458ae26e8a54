package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		name   string
		amount decimal.Decimal
		want   string
	}{
		{name: "zero", amount: decimal.Zero, want: "B$ 0,00"},
		{name: "whole", amount: decimal.NewFromInt(50), want: "B$ 50,00"},
		{name: "cents", amount: decimal.NewFromFloat(0.30), want: "B$ 0,30"},
		{name: "ceiling", amount: decimal.NewFromInt(600), want: "B$ 600,00"},
		{name: "large", amount: decimal.NewFromFloat(1234.56), want: "B$ 1234,56"},
		{name: "rounds to two digits", amount: decimal.NewFromFloat(89.699), want: "B$ 89,70"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Format(c.amount))
		})
	}
}
