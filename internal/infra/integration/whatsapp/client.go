package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-insights/internal/entity"
	"github.com/xavierca1/lead-insights/internal/infra/metrics"
)

const DefaultBaseURL = "https://graph.facebook.com/v18.0"

var ErrNotConfigured = errors.New("whatsapp is not configured")

type Client struct {
	accessToken string
	phoneID     string
	baseURL     string
	httpClient  *http.Client
	log         logrus.FieldLogger
}

func NewClient(accessToken, phoneID, baseURL string, log logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		accessToken: accessToken,
		phoneID:     phoneID,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		log:         log,
	}
}

func (c *Client) Dispatch(ctx context.Context, p entity.OutreachPayload) error {
	_, err := c.SendMessage(ctx, SendMessageInput{
		PhoneNumber: NormalizePhone(p.Recipient),
		Text:        p.Body,
	})
	if err != nil {
		metrics.RecordIntegrationError("whatsapp")
	}
	return err
}

// SendMessage sends a plain text message and returns the WhatsApp message id.
func (c *Client) SendMessage(ctx context.Context, input SendMessageInput) (string, error) {
	if c.accessToken == "" || c.phoneID == "" {
		return "", ErrNotConfigured
	}
	if input.PhoneNumber == "" {
		return "", errors.New("whatsapp: phone number is empty")
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                input.PhoneNumber,
		"type":              "text",
		"text": map[string]any{
			"preview_url": false,
			"body":        input.Text,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("whatsapp: encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: send: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result SendMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil && resp.StatusCode < 300 {
		return "", fmt.Errorf("whatsapp: decode response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("whatsapp: %s (code %d)", result.Error.Message, result.Error.Code)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("whatsapp api error: %d", resp.StatusCode)
	}

	var id string
	if len(result.Messages) > 0 {
		id = result.Messages[0].ID
	}
	c.log.WithFields(logrus.Fields{"to": input.PhoneNumber, "message_id": id}).Info("whatsapp message sent")
	return id, nil
}

// NormalizePhone keeps only the digits, which is the format the API expects.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}
