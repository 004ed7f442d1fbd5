//go:build !integration

package web_test

import (
	"context"
	"time"

	"rediscoveru/internal/domain/model"
	"rediscoveru/internal/usecase"

	"github.com/shopspring/decimal"
)

// ---- Mock use cases ----

type MockPurchaseUC struct {
	InitiateFunc      func(ctx context.Context, userID, couponCode string) (*usecase.InitiateResult, error)
	HandleWebhookFunc func(ctx context.Context, rawBody []byte, signature string) error
	ListByUserFunc    func(ctx context.Context, userID string) ([]*model.Payment, error)
	ListAllFunc       func(ctx context.Context) ([]*model.Payment, error)
}

var _ usecase.PurchaseUseCase = (*MockPurchaseUC)(nil)

func (m *MockPurchaseUC) Initiate(ctx context.Context, userID, couponCode string) (*usecase.InitiateResult, error) {
	return m.InitiateFunc(ctx, userID, couponCode)
}

func (m *MockPurchaseUC) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	return m.HandleWebhookFunc(ctx, rawBody, signature)
}

func (m *MockPurchaseUC) ListByUser(ctx context.Context, userID string) ([]*model.Payment, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockPurchaseUC) ListAll(ctx context.Context) ([]*model.Payment, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

type MockCouponUC struct {
	CreateFunc func(ctx context.Context, code string, discountPct int, maxUsage *int) (*model.Coupon, error)
	ToggleFunc func(ctx context.Context, id int64) (*model.Coupon, error)
	ListFunc   func(ctx context.Context) ([]*model.Coupon, error)
}

var _ usecase.CouponUseCase = (*MockCouponUC)(nil)

func (m *MockCouponUC) Create(ctx context.Context, code string, discountPct int, maxUsage *int) (*model.Coupon, error) {
	return m.CreateFunc(ctx, code, discountPct, maxUsage)
}

func (m *MockCouponUC) Toggle(ctx context.Context, id int64) (*model.Coupon, error) {
	return m.ToggleFunc(ctx, id)
}

func (m *MockCouponUC) List(ctx context.Context) ([]*model.Coupon, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockCouponUC) SeedDefaults(ctx context.Context) error { return nil }

type MockSettingsUC struct {
	UpdatePriceFunc func(ctx context.Context, price decimal.Decimal) error
}

var _ usecase.SettingsUseCase = (*MockSettingsUC)(nil)

func (m *MockSettingsUC) Get(ctx context.Context) (*model.Settings, error) {
	return model.DefaultSettings(), nil
}

func (m *MockSettingsUC) Price(ctx context.Context) (decimal.Decimal, error) {
	return model.DefaultLifetimePrice(), nil
}

func (m *MockSettingsUC) UpdatePrice(ctx context.Context, price decimal.Decimal) error {
	if m.UpdatePriceFunc != nil {
		return m.UpdatePriceFunc(ctx, price)
	}
	return nil
}

type MockUserUC struct {
	ListFunc  func(ctx context.Context, offset, limit int) ([]*model.User, error)
	CountFunc func(ctx context.Context) (int, error)
}

var _ usecase.UserUseCase = (*MockUserUC)(nil)

func (m *MockUserUC) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}

func (m *MockUserUC) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, offset, limit)
	}
	return nil, nil
}

func (m *MockUserUC) Count(ctx context.Context) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// ---- Mock rate limiter ----

type MockRateLimiter struct {
	AllowFunc func(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key, limit, window)
	}
	return true, nil
}
