package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"rediscoveru/internal/domain/model"
	"rediscoveru/internal/domain/ports/repository"
)

var _ repository.SettingsRepository = (*PostgresSettingsRepo)(nil)

type PostgresSettingsRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSettingsRepo(pool *pgxpool.Pool) *PostgresSettingsRepo {
	return &PostgresSettingsRepo{pool: pool}
}

// Get returns the singleton settings row, creating it with defaults on first
// access.
func (r *PostgresSettingsRepo) Get(ctx context.Context, tx repository.Tx) (*model.Settings, error) {
	const q = `SELECT id, lifetime_price::text, platform_name FROM platform_settings WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, model.SettingsID)
	if err != nil {
		return nil, err
	}
	var s model.Settings
	var price string
	if err := row.Scan(&s.ID, &price, &s.PlatformName); err != nil {
		if err == pgx.ErrNoRows {
			return r.createDefaults(ctx, tx)
		}
		return nil, fmt.Errorf("scan settings: %w", err)
	}
	if s.LifetimePrice, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse lifetime price: %w", err)
	}
	return &s, nil
}

func (r *PostgresSettingsRepo) createDefaults(ctx context.Context, tx repository.Tx) (*model.Settings, error) {
	s := model.DefaultSettings()
	const q = `
INSERT INTO platform_settings (id, lifetime_price, platform_name)
VALUES ($1,$2,$3)
ON CONFLICT (id) DO NOTHING;
`
	if _, err := execSQL(ctx, r.pool, tx, q, s.ID, s.LifetimePrice.StringFixed(2), s.PlatformName); err != nil {
		return nil, fmt.Errorf("create default settings: %w", err)
	}
	return s, nil
}

func (r *PostgresSettingsRepo) UpdatePrice(ctx context.Context, tx repository.Tx, price decimal.Decimal) error {
	const q = `
INSERT INTO platform_settings (id, lifetime_price, platform_name)
VALUES ($1,$2,$3)
ON CONFLICT (id) DO UPDATE SET lifetime_price=$2;
`
	if _, err := execSQL(ctx, r.pool, tx, q, model.SettingsID, price.StringFixed(2), model.DefaultPlatformName); err != nil {
		return fmt.Errorf("update lifetime price: %w", err)
	}
	return nil
}
