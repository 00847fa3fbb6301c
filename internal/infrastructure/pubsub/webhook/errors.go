package webhookpubsub

import "errors"

var (
	// ErrNullStore ...
	ErrNullStore = errors.New("missing subscription store")
	// ErrInvalidTopic ...
	ErrInvalidTopic = errors.New("topic is of unknown type")
	// ErrInvalidEndpoint ...
	ErrInvalidEndpoint = errors.New("endpoint must be a valid URI")
)
