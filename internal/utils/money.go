package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

const minorExponent = -2

// MinorToDecimal converts integer minor units (cents, puls) to a decimal amount.
func MinorToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, minorExponent)
}

// FormatMinor formats minor units with thousand separators and the currency code.
func FormatMinor(minor int64, currency string) string {
	return FormatAmount(MinorToDecimal(minor), currency)
}

// FormatAmount formats a decimal amount with two fraction digits and thousand separators.
func FormatAmount(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = "AFN"
	}

	str := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(str, "-") {
		sign = "-"
		str = str[1:]
	}

	whole, frac, _ := strings.Cut(str, ".")

	var result strings.Builder
	length := len(whole)
	for i, digit := range whole {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return sign + result.String() + "." + frac + " " + currency
}
