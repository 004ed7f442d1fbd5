package usecase

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// Quote computes the discount and payable amount for a lifetime purchase.
// Pure function: fixed-point arithmetic, 2 decimal places, half-up rounding
// (DivRound rounds half away from zero, which is half-up for non-negative
// currency values). The final amount never goes below zero.
func Quote(base decimal.Decimal, discountPct int) (discount, final decimal.Decimal) {
	discount = base.Mul(decimal.NewFromInt(int64(discountPct))).DivRound(oneHundred, 2)
	final = base.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero.Round(2)
	}
	return discount, final
}

// MinorUnits converts a 2-decimal currency amount to integer minor units
// (rupees to paise).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(oneHundred).Round(0).IntPart()
}
