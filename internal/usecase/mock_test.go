//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"rediscoveru/internal/domain"
	"rediscoveru/internal/domain/model"
	"rediscoveru/internal/domain/ports/adapter"
	"rediscoveru/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// =============================
// Adapters
// =============================

// ---- Mock OrderGateway ----

type MockOrderGateway struct {
	mu         sync.Mutex
	seq        int
	orderCalls int
	VerifyOK   bool

	CreateOrderFunc            func(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
	VerifyWebhookSignatureFunc func(payload []byte, signature string) bool
}

var _ adapter.OrderGateway = (*MockOrderGateway)(nil)

func (m *MockOrderGateway) Name() string  { return "mockpay" }
func (m *MockOrderGateway) KeyID() string { return "key_mock" }

func (m *MockOrderGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	m.mu.Lock()
	m.orderCalls++
	m.mu.Unlock()
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, amountMinor, currency, receipt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("order_mock_%d", m.seq), nil
}

func (m *MockOrderGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	if m.VerifyWebhookSignatureFunc != nil {
		return m.VerifyWebhookSignatureFunc(payload, signature)
	}
	return m.VerifyOK
}

// OrderCalls reports how many times CreateOrder was invoked.
func (m *MockOrderGateway) OrderCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orderCalls
}

// =============================
// Repositories
// =============================

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User

	statusUpdates int

	SaveFunc                     func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByIDFunc                 func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	UpdateSubscriptionStatusFunc func(ctx context.Context, tx repository.Tx, userID string, status model.SubscriptionStatus) error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*model.User)}
}

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.store[u.ID] = &cp
	return nil
}

func (r *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockUserRepo) UpdateSubscriptionStatus(ctx context.Context, tx repository.Tx, userID string, status model.SubscriptionStatus) error {
	if r.UpdateSubscriptionStatusFunc != nil {
		return r.UpdateSubscriptionStatusFunc(ctx, tx, userID, status)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.SubscriptionStatus = status
	r.statusUpdates++
	return nil
}

// StatusUpdates reports how many times UpdateSubscriptionStatus succeeded.
func (r *MockUserRepo) StatusUpdates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusUpdates
}

func (r *MockUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, u := range r.store {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.store), nil
}

// ---- Mock CouponRepository ----

type MockCouponRepo struct {
	mu    sync.Mutex
	seq   int64
	store map[string]*model.Coupon // by code

	FindByCodeForUpdateFunc func(ctx context.Context, tx repository.Tx, code string) (*model.Coupon, error)
	IncrementUsageFunc      func(ctx context.Context, tx repository.Tx, id int64) error
}

var _ repository.CouponRepository = (*MockCouponRepo)(nil)

func NewMockCouponRepo() *MockCouponRepo {
	return &MockCouponRepo{store: make(map[string]*model.Coupon)}
}

func (r *MockCouponRepo) Save(ctx context.Context, tx repository.Tx, c *model.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == 0 {
		r.seq++
		c.ID = r.seq
	}
	cp := *c
	r.store[c.Code] = &cp
	return nil
}

func (r *MockCouponRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.store[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MockCouponRepo) FindByCodeForUpdate(ctx context.Context, tx repository.Tx, code string) (*model.Coupon, error) {
	if r.FindByCodeForUpdateFunc != nil {
		return r.FindByCodeForUpdateFunc(ctx, tx, code)
	}
	return r.FindByCode(ctx, tx, code)
}

func (r *MockCouponRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.store {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockCouponRepo) IncrementUsage(ctx context.Context, tx repository.Tx, id int64) error {
	if r.IncrementUsageFunc != nil {
		return r.IncrementUsageFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.store {
		if c.ID == id {
			c.UsageCount++
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *MockCouponRepo) SetActive(ctx context.Context, tx repository.Tx, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.store {
		if c.ID == id {
			c.Active = active
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *MockCouponRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Coupon
	for _, c := range r.store {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// ---- Mock PaymentRepository ----

type MockPaymentRepo struct {
	mu    sync.Mutex
	store map[string]*model.Payment // by id

	SaveFunc                 func(ctx context.Context, tx repository.Tx, p *model.Payment) error
	MarkSuccessIfPendingFunc func(ctx context.Context, tx repository.Tx, id, gatewayPaymentID string) (bool, error)
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{store: make(map[string]*model.Payment)}
}

func (r *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, p)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.store[p.ID] = &cp
	return nil
}

func (r *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MockPaymentRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.store {
		if p.OrderID != nil && *p.OrderID == orderID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockPaymentRepo) MarkSuccessIfPending(ctx context.Context, tx repository.Tx, id, gatewayPaymentID string) (bool, error) {
	if r.MarkSuccessIfPendingFunc != nil {
		return r.MarkSuccessIfPendingFunc(ctx, tx, id, gatewayPaymentID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = model.PaymentStatusSuccess
	p.PaymentID = &gatewayPaymentID
	return true, nil
}

func (r *MockPaymentRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Payment
	for _, p := range r.store {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockPaymentRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Payment
	for _, p := range r.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// ---- Mock SettingsRepository ----

type MockSettingsRepo struct {
	mu       sync.Mutex
	settings *model.Settings
}

var _ repository.SettingsRepository = (*MockSettingsRepo)(nil)

func NewMockSettingsRepo() *MockSettingsRepo {
	return &MockSettingsRepo{settings: model.DefaultSettings()}
}

func (r *MockSettingsRepo) Get(ctx context.Context, tx repository.Tx) (*model.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.settings
	return &cp, nil
}

func (r *MockSettingsRepo) UpdatePrice(ctx context.Context, tx repository.Tx, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings.LifetimePrice = price
	return nil
}

// =============================
// Transaction manager
// =============================

// MockTxManager serializes transactions with a mutex, standing in for the
// row-level locks the Postgres implementation takes. Concurrent redemption
// tests rely on this mutual exclusion.
type MockTxManager struct {
	mu sync.Mutex

	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}
