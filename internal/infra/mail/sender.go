package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/xavierca1/lead-engine/internal/infra/queue"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var hotLeadTemplate = template.Must(template.ParseFS(templateFS, "templates/hot_lead.html"))

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

func (s *EmailSender) SendHotLeadAlert(ctx context.Context, payload queue.HotLeadPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.BuildHotLeadAlert(payload)
	if err != nil {
		return err
	}

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send smtp email: %w", err)
	}
	return nil
}

func (s *EmailSender) BuildHotLeadAlert(payload queue.HotLeadPayload) (*gomail.Message, error) {
	body, err := RenderHotLeadAlert(payload)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("Hot lead: %s (%d/100) - %s", payload.Name, payload.Score, payload.ServiceInterest))
	if payload.Email != "" {
		m.SetHeader("Reply-To", payload.Email)
	}
	m.SetBody("text/html", body)
	return m, nil
}

func RenderHotLeadAlert(payload queue.HotLeadPayload) (string, error) {
	var body bytes.Buffer
	if err := hotLeadTemplate.Execute(&body, payload); err != nil {
		return "", fmt.Errorf("render hot lead template: %w", err)
	}
	return body.String(), nil
}
