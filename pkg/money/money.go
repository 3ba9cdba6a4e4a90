// Package money cleans currency-like strings returned by the store API.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencyNoise lists the characters stripped before parsing. Commas are
// treated as thousands separators, matching the store's en-US formatting.
var currencyNoise = strings.NewReplacer(
	"$", "",
	"€", "",
	"£", "",
	",", "",
	" ", "",
	"\u00a0", "",
)

// Clean parses a currency-like string such as "$1,234.50" into a decimal.
// Unparseable input yields zero.
//
// Examples:
//
//	Clean("$1,234.50") -> 1234.50
//	Clean("19.99")     -> 19.99
//	Clean("n/a")       -> 0
func Clean(raw string) decimal.Decimal {
	s := currencyNoise.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
