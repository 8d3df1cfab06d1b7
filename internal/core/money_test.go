package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{"12,34", "12.34", true},
		{"0.01", "0.01", true},
		{"12.345", "12.35", true}, // half-up on the third decimal
		{"12.344", "12.34", true},
		{" 7 ", "7", true},
		{"", "", false},
		{"abc", "", false},
		{"12.3.4", "", false},
		{"-5", "", false},
		{"+5", "", false},
		{"0", "", false},
		{"0.00", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.ok {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				want, _ := decimal.NewFromString(tc.want)
				if !got.Equal(want) {
					t.Fatalf("got %s want %s", got, want)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error, got %s", got)
			}
		})
	}
}

func TestParseLimitAllowsZero(t *testing.T) {
	got, err := ParseLimit("0")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("got %s want 0", got)
	}
	if _, err := ParseLimit("-1"); err == nil {
		t.Fatalf("expected error for negative limit")
	}
}

func TestSumAmounts(t *testing.T) {
	ds := []decimal.Decimal{
		decimal.RequireFromString("0.1"),
		decimal.RequireFromString("0.2"),
		decimal.RequireFromString("0.3"),
	}
	if got := SumAmounts(ds); !got.Equal(decimal.RequireFromString("0.6")) {
		t.Fatalf("got %s want 0.6", got)
	}
}
