package http

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// formatAmount renders a money value with the currency symbol and thousands
// separators. Whole amounts print without decimals.
func formatAmount(symbol string, d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	if d.Equal(d.Truncate(0)) {
		return sign + symbol + humanize.Comma(d.IntPart())
	}
	return sign + symbol + humanize.CommafWithDigits(d.Round(2).InexactFloat64(), 2)
}

// formatAverage rounds to a whole amount for display only.
func formatAverage(symbol string, d decimal.Decimal) string {
	return formatAmount(symbol, d.Round(0))
}

func formatCount(n int64) string {
	return humanize.Comma(n)
}
