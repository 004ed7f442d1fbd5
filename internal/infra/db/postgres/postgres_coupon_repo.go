package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"rediscoveru/internal/domain"
	"rediscoveru/internal/domain/model"
	"rediscoveru/internal/domain/ports/repository"
)

var _ repository.CouponRepository = (*PostgresCouponRepo)(nil)

type PostgresCouponRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCouponRepo(pool *pgxpool.Pool) *PostgresCouponRepo {
	return &PostgresCouponRepo{pool: pool}
}

const couponColumns = `id, code, discount_percentage, max_usage, usage_count, active, created_at`

func (r *PostgresCouponRepo) Save(ctx context.Context, tx repository.Tx, c *model.Coupon) error {
	if c.ID == 0 {
		const q = `
INSERT INTO coupons (code, discount_percentage, max_usage, usage_count, active, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;
`
		row, err := pickRow(ctx, r.pool, tx, q, c.Code, c.DiscountPercentage, c.MaxUsage, c.UsageCount, c.Active, c.CreatedAt)
		if err != nil {
			return err
		}
		if err := row.Scan(&c.ID); err != nil {
			return fmt.Errorf("insert coupon: %w", err)
		}
		return nil
	}
	const q = `
UPDATE coupons SET code=$2, discount_percentage=$3, max_usage=$4, usage_count=$5, active=$6 WHERE id=$1;
`
	if _, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Code, c.DiscountPercentage, c.MaxUsage, c.UsageCount, c.Active); err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	return nil
}

func (r *PostgresCouponRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Coupon, error) {
	return r.findOne(ctx, tx, `SELECT `+couponColumns+` FROM coupons WHERE code=$1;`, code)
}

// FindByCodeForUpdate locks the coupon row until the surrounding transaction
// ends. Two redemptions of the same code serialize here; distinct codes never
// contend. Requires a live pgx.Tx.
func (r *PostgresCouponRepo) FindByCodeForUpdate(ctx context.Context, tx repository.Tx, code string) (*model.Coupon, error) {
	if _, ok := tx.(pgx.Tx); !ok {
		return nil, domain.ErrInvalidExecContext
	}
	return r.findOne(ctx, tx, `SELECT `+couponColumns+` FROM coupons WHERE code=$1 FOR UPDATE;`, code)
}

func (r *PostgresCouponRepo) findOne(ctx context.Context, tx repository.Tx, q string, arg interface{}) (*model.Coupon, error) {
	row, err := pickRow(ctx, r.pool, tx, q, arg)
	if err != nil {
		return nil, err
	}
	var c model.Coupon
	if err := row.Scan(&c.ID, &c.Code, &c.DiscountPercentage, &c.MaxUsage, &c.UsageCount, &c.Active, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan coupon: %w", err)
	}
	return &c, nil
}

func (r *PostgresCouponRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Coupon, error) {
	return r.findOne(ctx, tx, `SELECT `+couponColumns+` FROM coupons WHERE id=$1;`, id)
}

func (r *PostgresCouponRepo) IncrementUsage(ctx context.Context, tx repository.Tx, id int64) error {
	const q = `UPDATE coupons SET usage_count = usage_count + 1 WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return fmt.Errorf("increment coupon usage: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresCouponRepo) SetActive(ctx context.Context, tx repository.Tx, id int64, active bool) error {
	const q = `UPDATE coupons SET active=$2 WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, active)
	if err != nil {
		return fmt.Errorf("set coupon active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresCouponRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Coupon, error) {
	const q = `SELECT ` + couponColumns + ` FROM coupons ORDER BY id DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var out []*model.Coupon
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.DiscountPercentage, &c.MaxUsage, &c.UsageCount, &c.Active, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
