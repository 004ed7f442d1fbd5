package payment

import (
	"context"
	"fmt"
	"sync"

	"rediscoveru/internal/domain/ports/adapter"
)

var _ adapter.OrderGateway = (*NoopOrderGateway)(nil)

// NoopOrderGateway is a simple in-memory gateway for dev mode and tests.
type NoopOrderGateway struct {
	mu     sync.Mutex
	seq    int64
	orders map[string]int64 // order id -> amount (minor units)
}

func NewNoopOrderGateway() *NoopOrderGateway {
	return &NoopOrderGateway{
		orders: make(map[string]int64),
	}
}

func (g *NoopOrderGateway) Name() string { return "noop" }

func (g *NoopOrderGateway) KeyID() string { return "noop_key" }

func (g *NoopOrderGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := fmt.Sprintf("order_noop_%d", g.seq)
	g.orders[id] = amountMinor
	return id, nil
}

// VerifyWebhookSignature accepts any non-empty signature so dev callbacks can
// be replayed with curl.
func (g *NoopOrderGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	return signature != ""
}

// OrderAmount reports the amount recorded for an order. Test helper.
func (g *NoopOrderGateway) OrderAmount(id string) (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	amt, ok := g.orders[id]
	return amt, ok
}
