package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-insights/internal/entity"
	"github.com/xavierca1/lead-insights/internal/infra/metrics"
)

// Dispatcher delivers an outreach over one channel (SMTP, WhatsApp, CRM).
type Dispatcher interface {
	Dispatch(ctx context.Context, payload entity.OutreachPayload) error
}

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id, status, errMsg string) error
}

// Consumer is the part of *amqp.Channel the worker uses.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel     Consumer
	Dispatchers map[entity.Channel]Dispatcher
	Repo        StatusUpdater
	Log         logrus.FieldLogger
}

func NewWorker(ch Consumer, dispatchers map[entity.Channel]Dispatcher, repo StatusUpdater, log logrus.FieldLogger) *Worker {
	return &Worker{
		Channel:     ch,
		Dispatchers: dispatchers,
		Repo:        repo,
		Log:         log,
	}
}

// Start consumes queueName until ctx is done or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Log.WithField("queue", queueName).Info("outreach worker waiting for messages")

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("outreach worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Log.Warn("delivery channel closed")
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload entity.OutreachPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.Log.WithError(err).Error("malformed outreach message, dead-lettering")
		d.Nack(false, false)
		return
	}

	log := w.Log.WithFields(logrus.Fields{
		"outreach_id": payload.OutreachID,
		"lead_id":     payload.LeadID,
		"channel":     payload.Channel,
	})

	if err := w.processMessage(ctx, payload); err != nil {
		log.WithError(err).Error("outreach dispatch failed")
		metrics.RecordOutreachDispatched(payload.Channel, entity.OutreachFailed)
		w.updateStatus(ctx, log, payload.OutreachID, entity.OutreachFailed, err.Error())
		d.Nack(false, false)
		return
	}

	log.Info("outreach delivered")
	metrics.RecordOutreachDispatched(payload.Channel, entity.OutreachSent)
	w.updateStatus(ctx, log, payload.OutreachID, entity.OutreachSent, "")
	d.Ack(false)
}

func (w *Worker) processMessage(ctx context.Context, payload entity.OutreachPayload) error {
	dispatcher, ok := w.Dispatchers[entity.Channel(payload.Channel)]
	if !ok || dispatcher == nil {
		return fmt.Errorf("no dispatcher for channel %q", payload.Channel)
	}
	return dispatcher.Dispatch(ctx, payload)
}

func (w *Worker) updateStatus(ctx context.Context, log logrus.FieldLogger, id, status, errMsg string) {
	if w.Repo == nil {
		return
	}
	if err := w.Repo.UpdateStatus(ctx, id, status, errMsg); err != nil {
		log.WithError(err).Warn("could not record outreach status")
	}
}
