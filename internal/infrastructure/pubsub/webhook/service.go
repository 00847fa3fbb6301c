package webhookpubsub

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/timshannon/badgerhold/v4"
	"golang.org/x/sync/errgroup"

	"github.com/barter-network/barterd/internal/core/ports"
	"github.com/barter-network/barterd/pkg/circuitbreaker"
)

const requestTimeout = 15 * time.Second

// webhookService notifies subscribed endpoints about trade lifecycle
// events with a POST request per subscription. Subscriptions are persisted
// in a badgerhold store so they survive restarts.
type webhookService struct {
	store      *badgerhold.Store
	httpClient *client
	cb         *gobreaker.CircuitBreaker
}

// NewWebhookPubSubService returns a PubSub implementation delivering
// events over HTTP webhooks.
func NewWebhookPubSubService(store *badgerhold.Store) (ports.PubSub, error) {
	if store == nil {
		return nil, ErrNullStore
	}

	return &webhookService{
		store:      store,
		httpClient: newHTTPClient(requestTimeout),
		cb:         circuitbreaker.NewCircuitBreaker("webhook-notifier"),
	}, nil
}

func (ws *webhookService) Subscribe(topic, endpoint, secret string) (string, error) {
	hook, err := NewWebhook(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	if err := ws.store.Insert(hook.ID, *hook); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return hook.ID, nil
		}
		return "", err
	}
	return hook.ID, nil
}

func (ws *webhookService) Unsubscribe(id string) error {
	if err := ws.store.Delete(id, Webhook{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (ws *webhookService) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	hooks := ws.hooksForTopic(topic)
	subs := make([]ports.Subscription, 0, len(hooks))
	for i := range hooks {
		subs = append(subs, &hooks[i])
	}
	return subs
}

// Publish makes a POST request to every endpoint subscribed for the given
// topic. A circuit breaker maximizes the chances that every webhook gets
// invoked without errors.
func (ws *webhookService) Publish(topic, message string) error {
	hooks := ws.hooksForTopic(topic)

	eg := &errgroup.Group{}
	for i := range hooks {
		hook := hooks[i]
		eg.Go(func() error { return ws.doRequest(&hook, message) })
	}
	return eg.Wait()
}

func (ws *webhookService) Close() error {
	// The underlying store is shared and closed by the repo manager.
	return nil
}

func (ws *webhookService) hooksForTopic(topic string) []Webhook {
	var hooks []Webhook
	query := badgerhold.Where("Event").Eq(topic)
	if err := ws.store.Find(&hooks, query); err != nil {
		log.WithError(err).Warn("failed to list webhook subscriptions")
		return nil
	}
	return hooks
}

func (ws *webhookService) doRequest(hook *Webhook, payload string) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if hook.IsSecured() {
			headers["Authorization"] = fmt.Sprintf("Bearer %s", hook.Secret)
		}

		status, resp, err := ws.httpClient.post(hook.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("endpoint returned %d: %s", status, resp)
		}
		return nil, nil
	})

	return err
}
