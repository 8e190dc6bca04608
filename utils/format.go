package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount as "R$ 40.00".
func FormatCurrency(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// FormatDecimalComma renders an amount with two places and a comma, the form
// spreadsheet tools expect when pasting Brazilian values.
func FormatDecimalComma(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
