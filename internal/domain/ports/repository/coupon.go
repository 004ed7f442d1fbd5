package repository

import (
	"context"

	"rediscoveru/internal/domain/model"
)

type CouponRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Coupon) error
	FindByCode(ctx context.Context, tx Tx, code string) (*model.Coupon, error)
	// FindByCodeForUpdate takes the per-coupon row lock for the lifetime of tx.
	// Redemption (validate + increment) must happen under this lock.
	FindByCodeForUpdate(ctx context.Context, tx Tx, code string) (*model.Coupon, error)
	IncrementUsage(ctx context.Context, tx Tx, id int64) error
	SetActive(ctx context.Context, tx Tx, id int64, active bool) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Coupon, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Coupon, error)
}
