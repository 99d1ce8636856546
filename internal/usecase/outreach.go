package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xavierca1/lead-engine/internal/entity"
	"go.uber.org/zap"
)

const DefaultOutreachTimeout = 20 * time.Second

const outreachSystemPrompt = "You are a professional marketing communication expert. " +
	"Generate concise, friendly, and conversion-focused messages."

var errNoSections = errors.New("response has no recognizable sections")

// Labels are upper-case and stand alone on their line, optionally numbered or
// bolded by the model ("1. **WHATSAPP:**"). Body lines such as "Email: ..."
// are message text, not labels.
var sectionLabel = regexp.MustCompile(`(?m)^[ \t]*(?:\d+[.)][ \t]*)?[*#_ \t]*(WHATSAPP|CHAT|EMAIL|CALL(?:[ \t]+SCRIPT)?)[*_ \t]*:[*_ \t\r]*$`)

type OutreachMessages struct {
	Chat       string `json:"chat"`
	Email      string `json:"email"`
	CallScript string `json:"call_script"`
	Fallback   bool   `json:"fallback"`
}

type OutreachGenerator struct {
	llm     TextGenerator
	timeout time.Duration
	logger  *zap.Logger
}

// NewOutreachGenerator accepts a nil llm; every call then uses the templates.
func NewOutreachGenerator(llm TextGenerator, timeout time.Duration, logger *zap.Logger) *OutreachGenerator {
	if timeout <= 0 {
		timeout = DefaultOutreachTimeout
	}
	return &OutreachGenerator{
		llm:     llm,
		timeout: timeout,
		logger:  logger.Named("outreach"),
	}
}

// Enabled reports whether an external generator is wired in.
func (g *OutreachGenerator) Enabled() bool {
	return g != nil && g.llm != nil
}

// Generate never fails. One external call per invocation; anything that goes
// wrong with it is covered by FallbackMessages.
func (g *OutreachGenerator) Generate(ctx context.Context, lead entity.Lead) OutreachMessages {
	if g.llm == nil {
		return FallbackMessages(lead)
	}

	text, err := g.call(ctx, BuildOutreachPrompt(lead))
	if err != nil {
		g.logger.Warn("outreach generation failed, using templates",
			zap.String("lead_id", lead.ID),
			zap.Error(err))
		return FallbackMessages(lead)
	}

	msgs, err := ParseOutreachResponse(text)
	if err != nil {
		g.logger.Warn("unparseable outreach response, using templates",
			zap.String("lead_id", lead.ID),
			zap.Int("response_len", len(text)),
			zap.Error(err))
		return FallbackMessages(lead)
	}

	fallback := FallbackMessages(lead)
	if msgs.Chat == "" {
		msgs.Chat = fallback.Chat
	}
	if msgs.Email == "" {
		msgs.Email = fallback.Email
	}
	if msgs.CallScript == "" {
		msgs.CallScript = fallback.CallScript
	}
	return msgs
}

// call bounds the external request even when the generator ignores ctx.
func (g *OutreachGenerator) call(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		text, err := g.llm.Generate(ctx, outreachSystemPrompt, prompt)
		done <- result{text, err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("outreach generation: %w", ctx.Err())
	}
}

func BuildOutreachPrompt(lead entity.Lead) string {
	return fmt.Sprintf(`Generate follow-up messages for this lead:
Name: %s
Service Interest: %s
Source: %s
Location: %s
Score: %d/100
Category: %s

Generate 3 messages:
1. WhatsApp message (short, friendly, max 2-3 lines)
2. Email message (professional subject + body, max 5 lines)
3. Call opening script (warm, conversational, max 3 lines)

Format:
WHATSAPP:
[message]

EMAIL:
[message]

CALL:
[message]`,
		lead.Name,
		lead.ServiceInterest,
		lead.Source,
		lead.Location,
		lead.Score,
		lead.Category,
	)
}

// ParseOutreachResponse splits the model output on its section labels. A
// section runs until the next label, so multi-paragraph emails survive.
func ParseOutreachResponse(text string) (OutreachMessages, error) {
	matches := sectionLabel.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return OutreachMessages{}, errNoSections
	}

	var msgs OutreachMessages
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(text[m[1]:end])
		if body == "" {
			continue
		}

		switch label := text[m[2]:m[3]]; {
		case label == "WHATSAPP" || label == "CHAT":
			if msgs.Chat == "" {
				msgs.Chat = body
			}
		case label == "EMAIL":
			if msgs.Email == "" {
				msgs.Email = body
			}
		case strings.HasPrefix(label, "CALL"):
			if msgs.CallScript == "" {
				msgs.CallScript = body
			}
		}
	}

	if msgs.Chat == "" && msgs.Email == "" && msgs.CallScript == "" {
		return OutreachMessages{}, errNoSections
	}
	return msgs, nil
}

// FallbackMessages is deterministic for a given lead.
func FallbackMessages(lead entity.Lead) OutreachMessages {
	name := orDefault(lead.Name, "there")
	service := orDefault(lead.ServiceInterest, "our services")
	location := orDefault(lead.Location, "your area")

	return OutreachMessages{
		Chat: fmt.Sprintf("Hi %s! We saw your interest in %s. Can we schedule a quick call to discuss your needs?",
			name, service),
		Email: fmt.Sprintf("Subject: Your %s Inquiry\n\nHi %s,\n\nThank you for reaching out regarding %s. "+
			"We'd love to help you achieve your marketing goals in %s.\n\nBest regards,\nMarketing Team",
			service, name, service, location),
		CallScript: fmt.Sprintf("Hi %s, this is [Your Name] from [Agency]. I'm calling about your interest in %s. "+
			"Do you have a few minutes to discuss how we can help?",
			name, service),
		Fallback: true,
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
