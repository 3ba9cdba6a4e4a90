package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClean(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"$1,234.50", "1234.5"},
		{"1234.50", "1234.5"},
		{" 19.99 ", "19.99"},
		{"€ 7.00", "7"},
		{"-12.30", "-12.3"},
		{"0", "0"},
		{"", "0"},
		{"n/a", "0"},
		{"1.2.3", "0"},
		{"$", "0"},
	}
	for _, tc := range cases {
		got := Clean(tc.in)
		if !got.Equal(decimal.RequireFromString(tc.out)) {
			t.Fatalf("%q expected %s, got %s", tc.in, tc.out, got)
		}
	}
}
