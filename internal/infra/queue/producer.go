package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/lead-engine/internal/entity"
)

type HotLeadPayload struct {
	LeadID          string `json:"lead_id"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email,omitempty"`
	Source          string `json:"source"`
	ServiceInterest string `json:"service_interest"`
	Location        string `json:"location"`
	Timestamp       string `json:"timestamp"`
	Score           int    `json:"score"`
	Category        string `json:"category"`
}

func NewHotLeadPayload(l entity.Lead) HotLeadPayload {
	return HotLeadPayload{
		LeadID:          l.ID,
		Name:            l.Name,
		Phone:           l.Phone,
		Email:           l.Email,
		Source:          l.Source,
		ServiceInterest: l.ServiceInterest,
		Location:        l.Location,
		Timestamp:       l.Timestamp,
		Score:           l.Score,
		Category:        string(l.Category),
	}
}

// Publisher is the slice of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishHotLead(ctx context.Context, payload HotLeadPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    payload.LeadID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}
	return nil
}
