package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/jetleads/internal/logger"
)

// LeadSink receives every lead.created event, e.g. the CRM client.
type LeadSink interface {
	SyncLead(ctx context.Context, event LeadCreatedEvent) error
}

type Worker struct {
	Channel *amqp.Channel
	Sink    LeadSink
}

func NewWorker(ch *amqp.Channel, sink LeadSink) *Worker {
	return &Worker{Channel: ch, Sink: sink}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer on %s: %w", queueName, err)
	}

	logrus.WithField("queue", queueName).Info("lead event worker started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", queueName)
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	if err := w.process(ctx, d.Body); err != nil {
		logger.LogError("lead_event_failed", err, map[string]interface{}{
			"message_id": d.MessageId,
		})
		// No requeue: the queue dead-letters to q.lead-events.dlq.
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

func (w *Worker) process(ctx context.Context, body []byte) error {
	var event LeadCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("malformed lead event: %w", err)
	}
	if event.LeadID == "" {
		return fmt.Errorf("lead event without lead_id")
	}

	if err := w.Sink.SyncLead(ctx, event); err != nil {
		return fmt.Errorf("sync lead %s: %w", event.LeadID, err)
	}

	logrus.WithFields(logrus.Fields{
		"lead_id":   event.LeadID,
		"affiliate": event.AffiliateID,
	}).Info("lead synced to CRM")
	return nil
}
