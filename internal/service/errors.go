package service

import "errors"

var (
	// ErrEmailTaken is returned on registration with an already used email.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so a caller cannot tell which one occurred.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotificationNotFound is returned when a notification id does not resolve.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrInvalidKey is returned for an unrecognized notification key.
	ErrInvalidKey = errors.New("invalid notification key")
	// ErrDeliveryFailed wraps a mail dispatch error.
	ErrDeliveryFailed = errors.New("email delivery failed")
	// ErrStoreFailed wraps a persistence error.
	ErrStoreFailed = errors.New("notification store failed")
)
