package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrInvalidExecContext = errors.New("invalid query execution context")

	// Purchase / access-grant errors
	ErrUserNotFound     = errors.New("user not found")
	ErrUserNotEnabled   = errors.New("email address not verified")
	ErrAlreadyPaid      = errors.New("user already has lifetime access")
	ErrCouponNotFound   = errors.New("coupon code not found")
	ErrCouponInactive   = errors.New("coupon is no longer active")
	ErrCouponExhausted  = errors.New("coupon has reached its usage limit")
	ErrPaymentNotFound  = errors.New("no payment record for order")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrGateway          = errors.New("payment gateway request failed")
)
