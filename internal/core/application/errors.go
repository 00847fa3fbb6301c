package application

import "errors"

var (
	// ErrServiceUnavailable is returned by the trade service in case of
	// internal storage errors.
	ErrServiceUnavailable = errors.New("service is unavailable, try again later")
	// ErrPubSubNotInitialized is returned when attempting to manage
	// subscriptions without a pubsub service.
	ErrPubSubNotInitialized = errors.New("pubsub service is not initialized")
)
