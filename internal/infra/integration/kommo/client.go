// Package kommo pushes hot leads into the Kommo CRM pipeline.
package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/lead-engine/internal/infra/queue"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("kommo not configured")

const (
	hotLeadTag     = "hot_lead"
	requestTimeout = 15 * time.Second
)

type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient takes the account API root, e.g. https://acme.kommo.com/api/v4.
func NewClient(baseURL, apiToken string, logger *zap.Logger) *Client {
	return &Client{
		apiToken:   apiToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger.Named("kommo"),
	}
}

func (c *Client) Configured() bool {
	return c.apiToken != "" && c.baseURL != ""
}

// SendHotLeadAlert lets the alert worker sync leads into the CRM.
func (c *Client) SendHotLeadAlert(ctx context.Context, payload queue.HotLeadPayload) error {
	_, err := c.CreateLead(ctx, CreateLeadInput{
		Name:            payload.Name,
		Phone:           payload.Phone,
		Email:           payload.Email,
		ServiceInterest: payload.ServiceInterest,
		Source:          payload.Source,
		Location:        payload.Location,
		Score:           payload.Score,
	})
	return err
}

// CreateLead attaches the lead to an existing contact with the same phone,
// creating the contact first when none exists.
func (c *Client) CreateLead(ctx context.Context, input CreateLeadInput) (int, error) {
	if !c.Configured() {
		return 0, ErrNotConfigured
	}

	contactID, err := c.findOrCreateContact(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("find or create contact: %w", err)
	}

	lead := leadRequest{
		Name: fmt.Sprintf("%s - %s (%s)", input.Name, input.ServiceInterest, input.Location),
	}
	lead.Embedded.Tags = []tag{{Name: hotLeadTag}, {Name: input.Source}}
	lead.Embedded.Contacts = []idRef{{ID: contactID}}

	var result embeddedResponse
	if err := c.do(ctx, http.MethodPost, "/leads", []leadRequest{lead}, &result); err != nil {
		return 0, fmt.Errorf("create lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, errors.New("create lead: empty response")
	}

	leadID := result.Embedded.Leads[0].ID
	c.logger.Info("lead created",
		zap.Int("kommo_lead_id", leadID),
		zap.Int("score", input.Score))
	return leadID, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contactID, err := c.findContactByPhone(ctx, input.Phone)
	if err == nil && contactID > 0 {
		return contactID, nil
	}
	return c.createContact(ctx, input)
}

func (c *Client) findContactByPhone(ctx context.Context, phone string) (int, error) {
	var result embeddedResponse
	if err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(phone), nil, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, nil
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contact := contactRequest{
		Name: input.Name,
		CustomFields: []customField{
			{FieldCode: "PHONE", Values: []fieldValue{{Value: input.Phone, EnumCode: "WORK"}}},
		},
	}
	if input.Email != "" {
		contact.CustomFields = append(contact.CustomFields,
			customField{FieldCode: "EMAIL", Values: []fieldValue{{Value: input.Email, EnumCode: "WORK"}}})
	}

	var result embeddedResponse
	if err := c.do(ctx, http.MethodPost, "/contacts", []contactRequest{contact}, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("contact id missing from response")
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	// Kommo answers an empty search with 204.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("kommo %s %s: %d - %s", method, path, resp.StatusCode, string(respBody))
	}

	return json.Unmarshal(respBody, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
