package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCentsToDecimal(t *testing.T) {
	if got := CentsToDecimal(2825); got.StringFixed(2) != "28.25" {
		t.Fatalf("unexpected decimal %s", got)
	}
	if got := CentsToDecimal(0); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
}

func TestDecimalToCentsRoundsHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"3.25", 325},
		{"3.255", 326},
		{"3.254", 325},
		{"0", 0},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.in, err)
		}
		if got := DecimalToCents(d); got != tc.want {
			t.Fatalf("DecimalToCents(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	d := decimal.New(2500, -2)
	if got := FormatMoney(d); got != "25.00" {
		t.Fatalf("unexpected format %q", got)
	}
}
