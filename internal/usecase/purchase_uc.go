// File: internal/usecase/purchase_uc.go
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"rediscoveru/internal/domain"
	"rediscoveru/internal/domain/model"
	"rediscoveru/internal/domain/ports/adapter"
	"rediscoveru/internal/domain/ports/repository"
	"rediscoveru/internal/infra/metrics"
)

// Compile-time check
var _ PurchaseUseCase = (*purchaseUC)(nil)

// CheckoutCurrency is the only currency the gateway account is configured for.
const CheckoutCurrency = "INR"

// InitiateResult is the pricing breakdown returned to the caller. On the free
// path FreeAccess is true and the gateway fields stay empty; otherwise the
// caller completes checkout externally using OrderID/AmountMinor/KeyID.
type InitiateResult struct {
	Payment         *model.Payment
	OriginalAmount  decimal.Decimal
	DiscountPercent int
	DiscountAmount  decimal.Decimal
	FinalAmount     decimal.Decimal
	FreeAccess      bool
	Message         string

	OrderID     string
	AmountMinor int64
	Currency    string
	KeyID       string
}

type PurchaseUseCase interface {
	// Initiate prices a lifetime purchase (optionally redeeming a coupon) and
	// either grants access immediately (100% discount) or creates a gateway
	// order for external checkout.
	Initiate(ctx context.Context, userID, couponCode string) (*InitiateResult, error)
	// HandleWebhook authenticates and applies an asynchronous gateway
	// callback. Safe to call repeatedly for the same delivery.
	HandleWebhook(ctx context.Context, rawBody []byte, signature string) error
	ListByUser(ctx context.Context, userID string) ([]*model.Payment, error)
	ListAll(ctx context.Context) ([]*model.Payment, error)
}

type purchaseUC struct {
	users    repository.UserRepository
	coupons  repository.CouponRepository
	payments repository.PaymentRepository
	settings SettingsUseCase
	gateway  adapter.OrderGateway
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewPurchaseUseCase(
	users repository.UserRepository,
	coupons repository.CouponRepository,
	payments repository.PaymentRepository,
	settings SettingsUseCase,
	gateway adapter.OrderGateway,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *purchaseUC {
	return &purchaseUC{
		users:    users,
		coupons:  coupons,
		payments: payments,
		settings: settings,
		gateway:  gateway,
		tm:       tm,
		log:      logger,
	}
}

func (u *purchaseUC) Initiate(ctx context.Context, userID, couponCode string) (*InitiateResult, error) {
	start := time.Now()

	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if !user.Enabled {
		return nil, domain.ErrUserNotEnabled
	}
	if user.HasPaid() {
		return nil, domain.ErrAlreadyPaid
	}

	original, err := u.settings.Price(ctx)
	if err != nil {
		return nil, err
	}

	var res *InitiateResult
	// One transaction covers the coupon redemption, the payment record, the
	// gateway order and (on the free path) the access grant. A gateway
	// failure rolls everything back, returning the coupon slot. The coupon
	// row lock is held across the gateway call, which is acceptable because
	// contention is per code and the HTTP client is timeout-bounded.
	txErr := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		discountPct := 0
		var redeemed *model.Coupon

		if couponCode != "" {
			code := model.NormalizeCouponCode(couponCode)
			c, err := u.coupons.FindByCodeForUpdate(ctx, tx, code)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					metrics.IncCouponRedemption("not_found")
					return domain.ErrCouponNotFound
				}
				return err
			}
			if err := c.Redeemable(); err != nil {
				switch {
				case errors.Is(err, domain.ErrCouponInactive):
					metrics.IncCouponRedemption("inactive")
				case errors.Is(err, domain.ErrCouponExhausted):
					metrics.IncCouponRedemption("exhausted")
				}
				return err
			}
			if err := u.coupons.IncrementUsage(ctx, tx, c.ID); err != nil {
				return err
			}
			metrics.IncCouponRedemption("ok")
			discountPct = c.DiscountPercentage
			redeemed = c
		}

		discount, final := Quote(original, discountPct)

		now := time.Now()
		p := &model.Payment{
			ID:                 uuid.NewString(),
			UserID:             user.ID,
			OriginalAmount:     original,
			DiscountPercentage: discountPct,
			FinalAmount:        final,
			Status:             model.PaymentStatusPending,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if redeemed != nil {
			code := redeemed.Code
			p.CouponCode = &code
		}

		res = &InitiateResult{
			Payment:         p,
			OriginalAmount:  original,
			DiscountPercent: discountPct,
			DiscountAmount:  discount,
			FinalAmount:     final,
		}

		// 100% coupon: no gateway order, access granted here, transactionally.
		if final.IsZero() {
			p.Status = model.PaymentStatusFree
			if err := u.payments.Save(ctx, tx, p); err != nil {
				return err
			}
			if err := u.grantLifetimeAccess(ctx, tx, user.ID); err != nil {
				return err
			}
			res.FreeAccess = true
			res.Message = "Access granted via coupon"
			return nil
		}

		amountMinor := MinorUnits(final)
		orderID, err := u.gateway.CreateOrder(ctx, amountMinor, CheckoutCurrency, newReceiptRef())
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrGateway, err)
		}
		// The order id is persisted only now that the gateway has answered;
		// nothing is written when CreateOrder fails or times out.
		p.OrderID = &orderID
		if err := u.payments.Save(ctx, tx, p); err != nil {
			return err
		}

		res.OrderID = orderID
		res.AmountMinor = amountMinor
		res.Currency = CheckoutCurrency
		res.KeyID = u.gateway.KeyID()
		return nil
	})
	if txErr != nil {
		metrics.ObserveInitiate("error", time.Since(start).Seconds())
		return nil, txErr
	}

	if res.FreeAccess {
		metrics.IncPayment(string(model.PaymentStatusFree))
		metrics.ObserveInitiate("free", time.Since(start).Seconds())
		u.log.Info().Str("user_id", user.ID).Str("payment_id", res.Payment.ID).Msg("lifetime access granted via coupon")
	} else {
		metrics.IncPayment(string(model.PaymentStatusPending))
		metrics.ObserveInitiate("ok", time.Since(start).Seconds())
		u.log.Info().Str("user_id", user.ID).Str("order_id", res.OrderID).Int64("amount_minor", res.AmountMinor).Msg("gateway order created")
	}
	return res, nil
}

// capturedEvent is the only gateway event type that advances a payment.
const capturedEvent = "payment.captured"

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func (u *purchaseUC) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	// Authenticity first: nothing is read or written before the signature
	// over the exact raw bytes checks out.
	if !u.gateway.VerifyWebhookSignature(rawBody, signature) {
		metrics.IncWebhook("bad_signature")
		return domain.ErrInvalidSignature
	}

	var ev webhookEvent
	if err := json.Unmarshal(rawBody, &ev); err != nil {
		metrics.IncWebhook("error")
		return fmt.Errorf("%w: malformed webhook payload", domain.ErrInvalidArgument)
	}
	if ev.Event != capturedEvent {
		// Expected, not exceptional: other event types are acknowledged and dropped.
		metrics.IncWebhook("ignored")
		u.log.Debug().Str("event", ev.Event).Msg("ignoring webhook event type")
		return nil
	}

	orderID := ev.Payload.Payment.Entity.OrderID
	gatewayPaymentID := ev.Payload.Payment.Entity.ID
	if orderID == "" {
		metrics.IncWebhook("error")
		return fmt.Errorf("%w: webhook payload missing order id", domain.ErrInvalidArgument)
	}

	var duplicate bool
	var captured *model.Payment
	txErr := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByOrderID(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrPaymentNotFound
			}
			return err
		}
		// Idempotency guard: redelivery of an already-captured payment is a
		// safe no-op, not an error.
		if p.Status == model.PaymentStatusSuccess {
			duplicate = true
			return nil
		}
		updated, err := u.payments.MarkSuccessIfPending(ctx, tx, p.ID, gatewayPaymentID)
		if err != nil {
			return err
		}
		if !updated {
			// A concurrent delivery won the conditional update.
			duplicate = true
			return nil
		}
		if err := u.grantLifetimeAccess(ctx, tx, p.UserID); err != nil {
			return err
		}
		p.Status = model.PaymentStatusSuccess
		p.PaymentID = &gatewayPaymentID
		captured = p
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, domain.ErrPaymentNotFound) {
			metrics.IncWebhook("not_found")
		} else {
			metrics.IncWebhook("error")
		}
		return txErr
	}

	if duplicate {
		metrics.IncWebhook("duplicate")
		return nil
	}
	metrics.IncWebhook("captured")
	metrics.IncPayment(string(model.PaymentStatusSuccess))
	metrics.AddPaymentRevenue(CheckoutCurrency, MinorUnits(captured.FinalAmount))
	u.log.Info().Str("user_id", captured.UserID).Str("order_id", orderID).Str("gateway_payment_id", gatewayPaymentID).Msg("payment captured, lifetime access granted")
	return nil
}

func (u *purchaseUC) ListByUser(ctx context.Context, userID string) ([]*model.Payment, error) {
	return u.payments.ListByUser(ctx, repository.NoTX, userID)
}

func (u *purchaseUC) ListAll(ctx context.Context) ([]*model.Payment, error) {
	return u.payments.ListAll(ctx, repository.NoTX)
}

// grantLifetimeAccess promotes the user to paid. Idempotent in effect, and by
// construction invoked from exactly two sites: the free-coupon path of
// Initiate and the verified-webhook path of HandleWebhook.
func (u *purchaseUC) grantLifetimeAccess(ctx context.Context, tx repository.Tx, userID string) error {
	return u.users.UpdateSubscriptionStatus(ctx, tx, userID, model.SubscriptionStatusPaid)
}

// newReceiptRef builds the merchant-side receipt reference for a gateway order.
func newReceiptRef() string {
	return "rdu_" + ulid.MustNew(ulid.Now(), rand.Reader).String()
}
