package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AlertSender notifies the sales team about a hot lead.
type AlertSender interface {
	SendHotLeadAlert(ctx context.Context, payload HotLeadPayload) error
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Alerts  AlertSender
	Logger  *zap.Logger
}

func NewWorker(ch Consumer, alerts AlertSender, logger *zap.Logger) *Worker {
	return &Worker{
		Channel: ch,
		Alerts:  alerts,
		Logger:  logger.Named("worker"),
	}
}

// Start blocks until ctx is cancelled or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.Info("worker waiting for hot leads", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Logger.Warn("delivery channel closed")
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

// handle never requeues: a poison message or a failing SMTP server would
// otherwise spin forever. Rejected messages go to the DLQ.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload HotLeadPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.Logger.Error("invalid payload", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	if err := w.Alerts.SendHotLeadAlert(ctx, payload); err != nil {
		w.Logger.Error("hot lead alert failed",
			zap.String("lead_id", payload.LeadID),
			zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	w.Logger.Info("hot lead alert sent",
		zap.String("lead_id", payload.LeadID),
		zap.Int("score", payload.Score))
	_ = d.Ack(false)
}
