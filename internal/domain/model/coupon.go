package model

import (
	"strings"
	"time"

	"rediscoveru/internal/domain"
)

// Coupon is a discount code shared by all purchasers. UsageCount is only ever
// advanced inside a per-code critical section (row lock in the Postgres repo),
// so the cap invariant UsageCount <= MaxUsage holds under concurrent redemption.
type Coupon struct {
	ID                 int64
	Code               string // unique, stored trimmed + uppercased
	DiscountPercentage int    // 0..100
	MaxUsage           *int   // nil = unlimited
	UsageCount         int
	Active             bool
	CreatedAt          time.Time
}

// NormalizeCouponCode applies the canonical form used for storage and lookup.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func NewCoupon(code string, discountPct int, maxUsage *int) (*Coupon, error) {
	code = NormalizeCouponCode(code)
	if code == "" {
		return nil, domain.ErrInvalidArgument
	}
	if discountPct < 0 || discountPct > 100 {
		return nil, domain.ErrInvalidArgument
	}
	if maxUsage != nil && *maxUsage < 1 {
		return nil, domain.ErrInvalidArgument
	}
	return &Coupon{
		Code:               code,
		DiscountPercentage: discountPct,
		MaxUsage:           maxUsage,
		UsageCount:         0,
		Active:             true,
		CreatedAt:          time.Now(),
	}, nil
}

// Redeemable reports whether a redemption may proceed right now.
// Callers must hold the per-code lock for the answer to stay true.
func (c *Coupon) Redeemable() error {
	if !c.Active {
		return domain.ErrCouponInactive
	}
	if c.MaxUsage != nil && c.UsageCount >= *c.MaxUsage {
		return domain.ErrCouponExhausted
	}
	return nil
}
