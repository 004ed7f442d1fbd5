package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"rediscoveru/internal/domain"
	"rediscoveru/internal/domain/model"
	"rediscoveru/internal/domain/ports/repository"
)

var _ CouponUseCase = (*couponUC)(nil)

// CouponUseCase is the admin surface for coupons. Redemption itself lives in
// the purchase flow, under the per-coupon row lock.
type CouponUseCase interface {
	Create(ctx context.Context, code string, discountPct int, maxUsage *int) (*model.Coupon, error)
	Toggle(ctx context.Context, id int64) (*model.Coupon, error)
	List(ctx context.Context) ([]*model.Coupon, error)
	// SeedDefaults creates the stock coupons when missing. Idempotent.
	SeedDefaults(ctx context.Context) error
}

type couponUC struct {
	coupons repository.CouponRepository
	log     *zerolog.Logger
}

func NewCouponUseCase(coupons repository.CouponRepository, logger *zerolog.Logger) *couponUC {
	return &couponUC{coupons: coupons, log: logger}
}

func (u *couponUC) Create(ctx context.Context, code string, discountPct int, maxUsage *int) (*model.Coupon, error) {
	c, err := model.NewCoupon(code, discountPct, maxUsage)
	if err != nil {
		return nil, err
	}
	if existing, err := u.coupons.FindByCode(ctx, repository.NoTX, c.Code); err == nil && existing != nil {
		return nil, domain.ErrAlreadyExists
	}
	if err := u.coupons.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	u.log.Info().Str("code", c.Code).Int("discount_pct", c.DiscountPercentage).Msg("coupon created")
	return c, nil
}

func (u *couponUC) Toggle(ctx context.Context, id int64) (*model.Coupon, error) {
	c, err := u.coupons.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	c.Active = !c.Active
	if err := u.coupons.SetActive(ctx, repository.NoTX, c.ID, c.Active); err != nil {
		return nil, err
	}
	u.log.Info().Str("code", c.Code).Bool("active", c.Active).Msg("coupon toggled")
	return c, nil
}

func (u *couponUC) List(ctx context.Context) ([]*model.Coupon, error) {
	return u.coupons.ListAll(ctx, repository.NoTX)
}

func (u *couponUC) SeedDefaults(ctx context.Context) error {
	ten := 10
	seeds := []struct {
		code string
		pct  int
		max  *int
	}{
		{"FIRST10", 100, &ten},
		{"OFF50", 50, &ten},
		{"OFF25", 25, nil},
		{"JAYCIRCLE", 100, nil}, // unlimited 100% coupon
	}
	for _, s := range seeds {
		_, err := u.Create(ctx, s.code, s.pct, s.max)
		if err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
			return err
		}
	}
	return nil
}
