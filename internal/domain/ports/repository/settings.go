package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"rediscoveru/internal/domain/model"
)

type SettingsRepository interface {
	// Get returns the singleton settings row, creating it with defaults when absent.
	Get(ctx context.Context, tx Tx) (*model.Settings, error)
	UpdatePrice(ctx context.Context, tx Tx, price decimal.Decimal) error
}
