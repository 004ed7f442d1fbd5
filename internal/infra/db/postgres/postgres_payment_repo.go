package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"rediscoveru/internal/domain"
	"rediscoveru/internal/domain/model"
	"rediscoveru/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*PostgresPaymentRepo)(nil)

type PostgresPaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPaymentRepo(pool *pgxpool.Pool) *PostgresPaymentRepo {
	return &PostgresPaymentRepo{pool: pool}
}

// Amount columns are selected as text and parsed into decimals to keep the
// 2-decimal fixed-point representation exact end to end.
const paymentColumns = `id, user_id, original_amount::text, discount_percentage, final_amount::text, order_id, payment_id, coupon_code, status, created_at, updated_at`

func (r *PostgresPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, user_id, original_amount, discount_percentage, final_amount,
  order_id, payment_id, coupon_code, status, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
) ON CONFLICT (id) DO UPDATE SET
  order_id=$6, payment_id=$7, status=$9, updated_at=$11;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.UserID, p.OriginalAmount.StringFixed(2), p.DiscountPercentage, p.FinalAmount.StringFixed(2),
		p.OrderID, p.PaymentID, p.CouponCode, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func (r *PostgresPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	return r.findOne(ctx, tx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1;`, id)
}

// FindByOrderID locks the payment row when called inside a transaction,
// serializing concurrent webhook deliveries for the same gateway order.
func (r *PostgresPaymentRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += ` FOR UPDATE`
	}
	q += `;`
	return r.findOne(ctx, tx, q, orderID)
}

func (r *PostgresPaymentRepo) findOne(ctx context.Context, tx repository.Tx, q string, arg interface{}) (*model.Payment, error) {
	row, err := pickRow(ctx, r.pool, tx, q, arg)
	if err != nil {
		return nil, err
	}
	p, err := scanPayment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// MarkSuccessIfPending is the pending->success compare-and-set. Reporting
// rows affected lets the caller distinguish a real capture from a duplicate
// delivery that lost the race.
func (r *PostgresPaymentRepo) MarkSuccessIfPending(ctx context.Context, tx repository.Tx, id string, gatewayPaymentID string) (bool, error) {
	const q = `
UPDATE payments
   SET status=$2, payment_id=$3, updated_at=NOW()
 WHERE id=$1 AND status=$4;
`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, model.PaymentStatusSuccess, gatewayPaymentID, model.PaymentStatusPending)
	if err != nil {
		return false, fmt.Errorf("mark payment success: %w", err)
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *PostgresPaymentRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE user_id=$1 ORDER BY created_at DESC;`
	return r.list(ctx, tx, q, userID)
}

func (r *PostgresPaymentRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC;`
	return r.list(ctx, tx, q)
}

func (r *PostgresPaymentRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Payment, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	var original, final string
	if err := row.Scan(&p.ID, &p.UserID, &original, &p.DiscountPercentage, &final, &p.OrderID, &p.PaymentID, &p.CouponCode, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.OriginalAmount, err = decimal.NewFromString(original); err != nil {
		return nil, fmt.Errorf("parse original amount: %w", err)
	}
	if p.FinalAmount, err = decimal.NewFromString(final); err != nil {
		return nil, fmt.Errorf("parse final amount: %w", err)
	}
	return &p, nil
}
