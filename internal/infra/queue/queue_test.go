package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-insights/internal/entity"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, p entity.OutreachPayload) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockStatusUpdater struct {
	mock.Mock
}

func (m *MockStatusUpdater) UpdateStatus(ctx context.Context, id, status, errMsg string) error {
	args := m.Called(ctx, id, status, errMsg)
	return args.Error(0)
}

// fakeAcknowledger records what the worker did with a delivery.
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

type fakeConsumer struct {
	msgs chan amqp.Delivery
}

func (f *fakeConsumer) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return f.msgs, nil
}

func delivery(t *testing.T, ack amqp.Acknowledger, p entity.OutreachPayload) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(p)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}
}

func TestPublishOutreach(t *testing.T) {
	pub := new(MockPublisher)
	payload := entity.OutreachPayload{OutreachID: "o-1", LeadID: "1", Channel: "email", Recipient: "a@example.com", Body: "hi"}

	pub.On("PublishWithContext", mock.Anything, ExchangeName, RoutingKey, false, false,
		mock.MatchedBy(func(msg amqp.Publishing) bool {
			var got entity.OutreachPayload
			if err := json.Unmarshal(msg.Body, &got); err != nil {
				return false
			}
			return msg.DeliveryMode == amqp.Persistent &&
				msg.ContentType == "application/json" &&
				msg.MessageId == "o-1" &&
				got == payload
		}),
	).Return(nil)

	err := NewProducer(pub).PublishOutreach(context.Background(), payload)
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestPublishOutreachError(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel/connection is not open"))

	err := NewProducer(pub).PublishOutreach(context.Background(), entity.OutreachPayload{})
	assert.ErrorContains(t, err, "publish to rabbitmq")
}

func TestWorkerAcksDeliveredOutreach(t *testing.T) {
	email := new(MockDispatcher)
	repo := new(MockStatusUpdater)
	log, _ := test.NewNullLogger()
	payload := entity.OutreachPayload{OutreachID: "o-1", Channel: "email", Recipient: "a@example.com", Body: "hi"}

	email.On("Dispatch", mock.Anything, payload).Return(nil)
	repo.On("UpdateStatus", mock.Anything, "o-1", entity.OutreachSent, "").Return(nil)

	w := NewWorker(nil, map[entity.Channel]Dispatcher{entity.ChannelEmail: email}, repo, log)
	ack := &fakeAcknowledger{}
	w.handle(context.Background(), delivery(t, ack, payload))

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	email.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestWorkerDeadLettersFailedDispatch(t *testing.T) {
	wa := new(MockDispatcher)
	repo := new(MockStatusUpdater)
	log, _ := test.NewNullLogger()
	payload := entity.OutreachPayload{OutreachID: "o-2", Channel: "whatsapp", Recipient: "1555", Body: "hi"}

	wa.On("Dispatch", mock.Anything, payload).Return(errors.New("whatsapp api error: 500"))
	repo.On("UpdateStatus", mock.Anything, "o-2", entity.OutreachFailed, "whatsapp api error: 500").Return(nil)

	w := NewWorker(nil, map[entity.Channel]Dispatcher{entity.ChannelWhatsApp: wa}, repo, log)
	ack := &fakeAcknowledger{}
	w.handle(context.Background(), delivery(t, ack, payload))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
	assert.False(t, ack.acked)
	repo.AssertExpectations(t)
}

func TestWorkerUnknownChannel(t *testing.T) {
	repo := new(MockStatusUpdater)
	repo.On("UpdateStatus", mock.Anything, "o-3", entity.OutreachFailed, `no dispatcher for channel "sms"`).Return(nil)
	log, _ := test.NewNullLogger()

	w := NewWorker(nil, map[entity.Channel]Dispatcher{}, repo, log)
	ack := &fakeAcknowledger{}
	w.handle(context.Background(), delivery(t, ack, entity.OutreachPayload{OutreachID: "o-3", Channel: "sms"}))

	assert.True(t, ack.nacked)
	repo.AssertExpectations(t)
}

func TestWorkerRejectsMalformedMessage(t *testing.T) {
	repo := new(MockStatusUpdater)
	log, _ := test.NewNullLogger()

	w := NewWorker(nil, nil, repo, log)
	ack := &fakeAcknowledger{}
	w.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkerStartConsumesUntilCancelled(t *testing.T) {
	dispatched := make(chan struct{}, 1)
	email := new(MockDispatcher)
	email.On("Dispatch", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { dispatched <- struct{}{} }).
		Return(nil)
	log, _ := test.NewNullLogger()

	consumer := &fakeConsumer{msgs: make(chan amqp.Delivery, 1)}
	w := NewWorker(consumer, map[entity.Channel]Dispatcher{entity.ChannelEmail: email}, nil, log)

	ack := &fakeAcknowledger{}
	consumer.msgs <- delivery(t, ack, entity.OutreachPayload{OutreachID: "o-4", Channel: "email"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, QueueName) }()

	select {
	case <-dispatched:
	case <-time.After(2 * time.Second):
		t.Fatal("message was not dispatched")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
