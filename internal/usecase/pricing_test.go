//go:build !integration

package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"rediscoveru/internal/usecase"
)

func TestQuote(t *testing.T) {
	cases := []struct {
		name     string
		base     string
		pct      int
		discount string
		final    string
	}{
		{"no discount", "499.00", 0, "0.00", "499.00"},
		{"quarter off", "499.00", 25, "124.75", "374.25"},
		{"half off", "499.00", 50, "249.50", "249.50"},
		{"full discount", "499.00", 100, "499.00", "0.00"},
		{"rounding half up", "99.99", 33, "33.00", "66.99"},
		{"ten percent", "499.00", 10, "49.90", "449.10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := decimal.RequireFromString(tc.base)
			discount, final := usecase.Quote(base, tc.pct)
			if got := discount.StringFixed(2); got != tc.discount {
				t.Errorf("discount: got %s, want %s", got, tc.discount)
			}
			if got := final.StringFixed(2); got != tc.final {
				t.Errorf("final: got %s, want %s", got, tc.final)
			}
		})
	}
}

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"499.00", 49900},
		{"374.25", 37425},
		{"0.00", 0},
		{"0.01", 1},
	}
	for _, tc := range cases {
		if got := usecase.MinorUnits(decimal.RequireFromString(tc.amount)); got != tc.want {
			t.Errorf("MinorUnits(%s): got %d, want %d", tc.amount, got, tc.want)
		}
	}
}
