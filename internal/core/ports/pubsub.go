package ports

// Subscription is the portable info of a pubsub client.
type Subscription interface {
	Id() string
	Topic() string
	NotifyAt() string
}

// PubSub defines the methods of the service notifying external clients
// about trade lifecycle events.
type PubSub interface {
	// Subscribe registers a client endpoint for a topic and returns the
	// subscription id.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes the subscription with the given id.
	Unsubscribe(id string) error
	// ListSubscriptionsForTopic returns all clients subscribed for a topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish delivers a message to all clients subscribed for the topic.
	Publish(topic, message string) error
	// Close gracefully closes the connection with the internal store.
	Close() error
}
