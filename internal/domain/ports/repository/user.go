package repository

import (
	"context"

	"rediscoveru/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	// UpdateSubscriptionStatus flips the stored status; the exactly-once
	// discipline lives in the use case, not here.
	UpdateSubscriptionStatus(ctx context.Context, tx Tx, userID string, status model.SubscriptionStatus) error
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.User, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
