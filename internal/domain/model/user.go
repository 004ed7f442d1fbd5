package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"rediscoveru/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending SubscriptionStatus = "pending" // registered, no lifetime access yet
	SubscriptionStatusPaid    SubscriptionStatus = "paid"    // lifetime access granted
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User carries the subscription-relevant view of a platform member.
// Profile, auth and verification-token concerns live outside this subsystem;
// Enabled reflects a completed email verification.
type User struct {
	ID                 string
	Email              string
	Name               string
	Enabled            bool
	Role               Role
	SubscriptionStatus SubscriptionStatus
	CreatedAt          time.Time
}

func NewUser(id, email, name string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:                 id,
		Email:              email,
		Name:               name,
		Enabled:            false,
		Role:               RoleUser,
		SubscriptionStatus: SubscriptionStatusPending,
		CreatedAt:          time.Now(),
	}, nil
}

func (u *User) IsZero() bool  { return u == nil || u.ID == "" }
func (u *User) HasPaid() bool { return u.SubscriptionStatus == SubscriptionStatusPaid }
