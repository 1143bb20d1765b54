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

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-insights/internal/entity"
	"github.com/xavierca1/lead-insights/internal/infra/metrics"
)

var ErrNotConfigured = errors.New("kommo is not configured")

type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient takes the account API root, e.g. https://acme.kommo.com/api/v4.
// Kommo has no shared host, so an empty baseURL leaves the client unconfigured.
func NewClient(apiToken, baseURL string, log logrus.FieldLogger) *Client {
	return &Client{
		apiToken:   apiToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

func (c *Client) Configured() bool {
	return c.apiToken != "" && c.baseURL != ""
}

// Dispatch turns a phone or sms outreach into a CRM deal tagged for the
// sales team, with the draft attached as a note.
func (c *Client) Dispatch(ctx context.Context, p entity.OutreachPayload) error {
	_, err := c.CreateLead(ctx, CreateLeadInput{
		Name:   p.Name,
		Email:  p.Email,
		Phone:  p.Phone,
		Course: p.Course,
		Price:  p.Price,
		Tag:    "follow_up_" + p.Channel,
		Note:   p.Body,
	})
	if err != nil {
		metrics.RecordIntegrationError("kommo")
	}
	return err
}

func (c *Client) CreateLead(ctx context.Context, input CreateLeadInput) (int, error) {
	if !c.Configured() {
		return 0, ErrNotConfigured
	}

	contactID, err := c.findOrCreateContact(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("find or create contact: %w", err)
	}

	leadData := []map[string]any{
		{
			"name":  fmt.Sprintf("%s - %s", input.Name, input.Course),
			"price": int(input.Price),
			"_embedded": map[string]any{
				"tags": []map[string]any{
					{"name": input.Tag},
				},
				"contacts": []map[string]any{
					{"id": contactID},
				},
			},
		},
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/leads", leadData, &result); err != nil {
		return 0, fmt.Errorf("create lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, errors.New("create lead: empty response")
	}

	leadID := result.Embedded.Leads[0].ID
	if input.Note != "" {
		if err := c.addNote(ctx, leadID, input.Note); err != nil {
			return leadID, err
		}
	}

	c.log.WithFields(logrus.Fields{"kommo_lead_id": leadID, "name": input.Name, "tag": input.Tag}).
		Info("kommo lead created")
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
	var result embeddedIDs
	path := "/contacts?query=" + url.QueryEscape(phone)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("contact not found")
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contactData := []map[string]any{
		{
			"name": input.Name,
			"custom_fields_values": []map[string]any{
				{
					"field_code": "PHONE",
					"values":     []map[string]any{{"value": input.Phone, "enum_code": "WORK"}},
				},
				{
					"field_code": "EMAIL",
					"values":     []map[string]any{{"value": input.Email, "enum_code": "WORK"}},
				},
			},
		},
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/contacts", contactData, &result); err != nil {
		return 0, fmt.Errorf("create contact: %w", err)
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("create contact: empty response")
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) addNote(ctx context.Context, leadID int, text string) error {
	notes := []map[string]any{
		{
			"note_type": "common",
			"params":    map[string]any{"text": text},
		},
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/leads/%d/notes", leadID), notes, nil); err != nil {
		return fmt.Errorf("add note: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
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
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("kommo returned %d: %s", resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
