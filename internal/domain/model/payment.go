package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // gateway order created, awaiting capture
	PaymentStatusSuccess PaymentStatus = "success" // webhook confirmed the capture
	PaymentStatusFree    PaymentStatus = "free"    // 100% coupon, no gateway involved
	PaymentStatusFailed  PaymentStatus = "failed"  // terminal failure, no access granted
)

// Payment records one lifetime-access purchase attempt. A free row never holds
// gateway identifiers; a non-free row starts pending and transitions at most
// once to success (enforced by the conditional update in the repo).
type Payment struct {
	ID                 string // UUID
	UserID             string // UUID
	OriginalAmount     decimal.Decimal
	DiscountPercentage int
	FinalAmount        decimal.Decimal
	OrderID            *string // gateway order id (nil on the free path)
	PaymentID          *string // gateway payment id, set by the webhook
	CouponCode         *string
	Status             PaymentStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (p *Payment) IsTerminal() bool {
	switch p.Status {
	case PaymentStatusSuccess, PaymentStatusFree, PaymentStatusFailed:
		return true
	}
	return false
}
