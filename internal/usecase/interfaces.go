package usecase

import (
	"context"

	"github.com/xavierca1/lead-engine/internal/infra/queue"
)

// TextGenerator is the external generative-text capability.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type LeadEventPublisher interface {
	PublishHotLead(ctx context.Context, payload queue.HotLeadPayload) error
}
