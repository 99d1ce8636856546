package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/lead-engine/internal/entity"
	"go.uber.org/zap"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

type MockAlertSender struct {
	mock.Mock
}

func (m *MockAlertSender) SendHotLeadAlert(ctx context.Context, payload HotLeadPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type fakeConsumer struct {
	deliveries chan amqp.Delivery
	err        error
}

func (f *fakeConsumer) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, f.err
}

type fakeAck struct {
	acked   chan uint64
	nacked  chan uint64
	requeue bool
}

func newFakeAck() *fakeAck {
	return &fakeAck{acked: make(chan uint64, 10), nacked: make(chan uint64, 10)}
}

func (a *fakeAck) Ack(tag uint64, multiple bool) error {
	a.acked <- tag
	return nil
}

func (a *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	a.requeue = requeue
	a.nacked <- tag
	return nil
}

func (a *fakeAck) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func samplePayload() HotLeadPayload {
	lead := entity.NewLead(entity.RawLead{
		Name:            "John Doe",
		Phone:           "+91-9876543210",
		Email:           "john@email.com",
		Source:          "Google Ads",
		ServiceInterest: "SEO",
		Location:        "Hyderabad",
		Timestamp:       "2024-12-15T10:30:00",
	}, entity.DefaultScoringRules())
	return NewHotLeadPayload(*lead)
}

func TestNewHotLeadPayload(t *testing.T) {
	p := samplePayload()

	assert.NotEmpty(t, p.LeadID)
	assert.Equal(t, "John Doe", p.Name)
	assert.Equal(t, 100, p.Score)
	assert.Equal(t, "Hot", p.Category)
}

func TestProducerPublishesPersistentJSON(t *testing.T) {
	pub := new(MockPublisher)
	payload := samplePayload()

	pub.On("PublishWithContext", mock.Anything, ExchangeName, RoutingKey, false, false,
		mock.MatchedBy(func(msg amqp.Publishing) bool {
			var got HotLeadPayload
			if err := json.Unmarshal(msg.Body, &got); err != nil {
				return false
			}
			return msg.DeliveryMode == amqp.Persistent &&
				msg.ContentType == "application/json" &&
				msg.MessageId == payload.LeadID &&
				got == payload
		})).Return(nil)

	err := NewProducer(pub).PublishHotLead(context.Background(), payload)

	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestProducerWrapsPublishError(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel closed"))

	err := NewProducer(pub).PublishHotLead(context.Background(), samplePayload())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func runWorker(t *testing.T, alerts AlertSender, deliveries ...amqp.Delivery) {
	t.Helper()

	ch := make(chan amqp.Delivery, len(deliveries))
	for _, d := range deliveries {
		ch <- d
	}
	close(ch)

	w := NewWorker(&fakeConsumer{deliveries: ch}, alerts, zap.NewNop())
	require.NoError(t, w.Start(context.Background(), QueueName))
}

func TestWorkerAcksDeliveredAlert(t *testing.T) {
	payload := samplePayload()
	body, _ := json.Marshal(payload)

	alerts := new(MockAlertSender)
	alerts.On("SendHotLeadAlert", mock.Anything, payload).Return(nil)

	ack := newFakeAck()
	runWorker(t, alerts, amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body})

	assert.Equal(t, uint64(1), <-ack.acked)
	assert.Empty(t, ack.nacked)
	alerts.AssertExpectations(t)
}

func TestWorkerDeadLettersInvalidJSON(t *testing.T) {
	alerts := new(MockAlertSender)
	ack := newFakeAck()

	runWorker(t, alerts, amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte("{broken")})

	assert.Equal(t, uint64(7), <-ack.nacked)
	assert.False(t, ack.requeue)
	alerts.AssertNotCalled(t, "SendHotLeadAlert", mock.Anything, mock.Anything)
}

func TestWorkerDeadLettersFailedAlert(t *testing.T) {
	payload := samplePayload()
	body, _ := json.Marshal(payload)

	alerts := new(MockAlertSender)
	alerts.On("SendHotLeadAlert", mock.Anything, payload).Return(errors.New("smtp down"))

	ack := newFakeAck()
	runWorker(t, alerts, amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: body})

	assert.Equal(t, uint64(3), <-ack.nacked)
	assert.False(t, ack.requeue)
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	ch := make(chan amqp.Delivery)
	w := NewWorker(&fakeConsumer{deliveries: ch}, new(MockAlertSender), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, QueueName) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorkerConsumeError(t *testing.T) {
	w := NewWorker(&fakeConsumer{err: errors.New("no channel")}, new(MockAlertSender), zap.NewNop())

	err := w.Start(context.Background(), QueueName)
	assert.Error(t, err)
}
