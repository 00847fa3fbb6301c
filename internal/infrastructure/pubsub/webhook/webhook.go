package webhookpubsub

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"

	"github.com/barter-network/barterd/internal/core/application"
)

// Webhook is a client endpoint subscribed for a trade event topic.
type Webhook struct {
	ID       string `json:"id"`
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

func NewWebhook(topic, endpoint, secret string) (*Webhook, error) {
	if !isKnownTopic(topic) {
		return nil, ErrInvalidTopic
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, ErrInvalidEndpoint
	}
	id := uuid.New().String()
	return &Webhook{id, topic, endpoint, secret}, nil
}

func NewWebhookFromBytes(buf []byte) (*Webhook, error) {
	h := &Webhook{}
	if err := json.Unmarshal(buf, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Webhook) Id() string {
	return h.ID
}

func (h *Webhook) Topic() string {
	return h.Event
}

func (h *Webhook) NotifyAt() string {
	return h.Endpoint
}

func (h *Webhook) IsSecured() bool {
	return len(h.Secret) > 0
}

func (h *Webhook) Serialize() []byte {
	b, _ := json.Marshal(*h)
	return b
}

func isKnownTopic(topic string) bool {
	for _, t := range application.Topics() {
		if t == topic {
			return true
		}
	}
	return false
}
