package helper

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTrimDecimal(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1", "1.00"},
		{"1.005", "1.01"},
		{"2.345", "2.35"},
		{"0.994", "0.99"},
		{"0", "0.00"},
		{"-1.005", "-1.01"},
	}
	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		if err != nil {
			t.Fatalf("NewFromString(%q): %v", c.in, err)
		}
		if got := TrimDecimal(d); got != c.want {
			t.Fatalf("TrimDecimal(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}
