// Package notifier delivers review notifications to an external webhook
// sink. Delivery is best-effort and at-most-once: notifications are queued
// on a buffered channel, sent with a bounded retry, and dropped on failure.
// The request path never waits on a dispatch.
package notifier

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avaliafacil/feedback/internal/feedback/metrics"
)

// Payload is the JSON body posted to the webhook sink for each review.
type Payload struct {
	ID                     uuid.UUID `json:"id"`
	Stars                  int       `json:"stars"`
	Comment                string    `json:"comment"`
	Attendant              string    `json:"attendant"`
	AttendantPhone         string    `json:"attendant_phone"`
	AttendantSector        string    `json:"attendant_sector"`
	AttendantNotify        bool      `json:"attendant_notify"`
	AttendantIntegrationID string    `json:"attendant_integration_id"`
	Company                string    `json:"company"`
	ClientIP               string    `json:"client_ip"`
	ClientCity             string    `json:"client_city"`
	ClientState            string    `json:"client_state"`
	ClientDevice           string    `json:"client_device"`
	LocationURL            string    `json:"location_url"`
	CreatedAt              time.Time `json:"created_at"`
	WhatsappNumbers        []string  `json:"whatsapp_numbers"`
}

type notification struct {
	url     string
	payload Payload
}

const maxRetries = 3

// Notifier owns the outbound dispatch queue. The default URL is fixed at
// construction; per-company webhook URLs override it per notification.
type Notifier struct {
	client     *resty.Client
	queue      chan notification
	defaultURL string
	logger     *zap.Logger
	closeChan  chan struct{}
	doneChan   chan struct{}
}

func New(defaultURL string, timeout time.Duration, logger *zap.Logger) *Notifier {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	n := &Notifier{
		client:     client,
		queue:      make(chan notification, 1000),
		defaultURL: defaultURL,
		logger:     logger.Named("webhook_notifier"),
		closeChan:  make(chan struct{}),
		doneChan:   make(chan struct{}),
	}
	go n.dispatchLoop()
	return n
}

// Notify enqueues a notification for the given webhook URL; an empty url
// falls back to the configured default. When no target exists or the queue
// is full the notification is dropped.
func (n *Notifier) Notify(url string, payload Payload) {
	if url == "" {
		url = n.defaultURL
	}
	if url == "" {
		return
	}
	select {
	case n.queue <- notification{url: url, payload: payload}:
	default:
		n.logger.Warn("notification queue full, dropping",
			zap.String("review_id", payload.ID.String()),
		)
		metrics.WebhookDispatches.WithLabelValues("dropped").Inc()
	}
}

func (n *Notifier) dispatchLoop() {
	defer close(n.doneChan)
	for {
		select {
		case msg := <-n.queue:
			n.send(msg)
		case <-n.closeChan:
			return
		}
	}
}

// send posts one notification with a bounded exponential retry. Failures
// are logged and counted, never surfaced to the submitter.
func (n *Notifier) send(msg notification) {
	operation := func() error {
		resp, err := n.client.R().
			SetBody(msg.payload).
			Post(msg.url)
		if err != nil {
			return err
		}
		if resp.StatusCode() >= 500 {
			return fmt.Errorf("webhook returned status %d", resp.StatusCode())
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries))
	if err != nil {
		n.logger.Warn("webhook dispatch failed",
			zap.Error(err),
			zap.String("review_id", msg.payload.ID.String()),
		)
		metrics.WebhookDispatches.WithLabelValues("failure").Inc()
		return
	}

	n.logger.Info("webhook dispatched",
		zap.String("review_id", msg.payload.ID.String()),
	)
	metrics.WebhookDispatches.WithLabelValues("success").Inc()
}

// Close stops the dispatch loop. Queued notifications not yet sent are
// discarded, consistent with at-most-once delivery.
func (n *Notifier) Close() {
	close(n.closeChan)
	<-n.doneChan
}
