package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"rediscoveru/internal/domain"
	"rediscoveru/internal/domain/model"
	"rediscoveru/internal/domain/ports/repository"
)

var _ SettingsUseCase = (*settingsUC)(nil)

// SettingsUseCase exposes the admin-editable platform settings. The purchase
// flow only ever reads Price; the mutation belongs to the admin surface.
type SettingsUseCase interface {
	Get(ctx context.Context) (*model.Settings, error)
	// Price returns the current lifetime-access price, defaulting when the
	// settings row has not been created yet.
	Price(ctx context.Context) (decimal.Decimal, error)
	UpdatePrice(ctx context.Context, price decimal.Decimal) error
}

type settingsUC struct {
	settings repository.SettingsRepository
	log      *zerolog.Logger
}

func NewSettingsUseCase(settings repository.SettingsRepository, logger *zerolog.Logger) *settingsUC {
	return &settingsUC{settings: settings, log: logger}
}

func (s *settingsUC) Get(ctx context.Context) (*model.Settings, error) {
	return s.settings.Get(ctx, repository.NoTX)
}

func (s *settingsUC) Price(ctx context.Context) (decimal.Decimal, error) {
	st, err := s.settings.Get(ctx, repository.NoTX)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return st.LifetimePrice, nil
}

func (s *settingsUC) UpdatePrice(ctx context.Context, price decimal.Decimal) error {
	if price.IsNegative() {
		return domain.ErrInvalidArgument
	}
	if err := s.settings.UpdatePrice(ctx, repository.NoTX, price.Round(2)); err != nil {
		return err
	}
	s.log.Info().Str("lifetime_price", price.Round(2).String()).Msg("lifetime price updated")
	return nil
}
