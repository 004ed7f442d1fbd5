package repository

import (
	"context"

	"rediscoveru/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	// FindByOrderID locks the row when called with a live transaction handle,
	// serializing concurrent webhook deliveries for the same order.
	FindByOrderID(ctx context.Context, tx Tx, orderID string) (*model.Payment, error)
	// MarkSuccessIfPending performs the pending->success transition as a
	// conditional update and reports whether a row actually changed.
	MarkSuccessIfPending(ctx context.Context, tx Tx, id string, gatewayPaymentID string) (bool, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Payment, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Payment, error)
}
