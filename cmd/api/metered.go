package main

import (
	"context"
	"errors"

	"github.com/xavierca1/lead-engine/internal/infra/http/middleware"
	"github.com/xavierca1/lead-engine/internal/infra/queue"
	"github.com/xavierca1/lead-engine/internal/usecase"
)

// meteredPublisher counts broker failures; the upload only logs them.
type meteredPublisher struct {
	next usecase.LeadEventPublisher
}

func (p meteredPublisher) PublishHotLead(ctx context.Context, payload queue.HotLeadPayload) error {
	err := p.next.PublishHotLead(ctx, payload)
	if err != nil {
		middleware.RecordIntegrationError("rabbitmq")
	}
	return err
}

type meteredAlerts struct {
	service string
	next    queue.AlertSender
}

func (a meteredAlerts) SendHotLeadAlert(ctx context.Context, payload queue.HotLeadPayload) error {
	err := a.next.SendHotLeadAlert(ctx, payload)
	if err != nil {
		middleware.RecordIntegrationError(a.service)
	}
	return err
}

// alertFanout tries every sender; any failure dead-letters the message.
type alertFanout []queue.AlertSender

func (f alertFanout) SendHotLeadAlert(ctx context.Context, payload queue.HotLeadPayload) error {
	var errs []error
	for _, s := range f {
		if err := s.SendHotLeadAlert(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
