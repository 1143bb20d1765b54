package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	OutreachQueued = "QUEUED"
	OutreachSent   = "SENT"
	OutreachFailed = "FAILED"
)

// Outreach records one dispatch of a lead's draft message.
type Outreach struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Channel   Channel   `json:"channel"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOutreach builds a queued outreach for lead over channel.
func NewOutreach(lead Lead, channel Channel, subject, body string) (*Outreach, error) {
	now := time.Now()
	o := &Outreach{
		ID:        uuid.New().String(),
		LeadID:    lead.ID,
		Channel:   channel,
		Recipient: RecipientFor(lead, channel),
		Subject:   subject,
		Body:      body,
		Status:    OutreachQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Outreach) Validate() error {
	if o.LeadID == "" {
		return errors.New("lead id is required")
	}
	if !o.Channel.Valid() {
		return errors.New("channel is invalid")
	}
	if o.Recipient == "" {
		return errors.New("recipient is required")
	}
	if o.Body == "" {
		return errors.New("body is required")
	}
	return nil
}

// RecipientFor picks the address the channel delivers to.
func RecipientFor(lead Lead, channel Channel) string {
	if channel == ChannelEmail {
		return lead.Email
	}
	return lead.Phone
}

// OutreachPayload carries everything the worker needs to deliver a draft
// without reading the catalog again.
type OutreachPayload struct {
	OutreachID string  `json:"outreach_id"`
	LeadID     string  `json:"lead_id"`
	Channel    string  `json:"channel"`
	Recipient  string  `json:"recipient"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Course     string  `json:"course"`
	Price      float64 `json:"price,omitempty"`
	Subject    string  `json:"subject,omitempty"`
	Body       string  `json:"body"`
}

// NewOutreachPayload builds the queue message for an outreach to lead.
func NewOutreachPayload(o *Outreach, lead Lead) OutreachPayload {
	p := OutreachPayload{
		OutreachID: o.ID,
		LeadID:     lead.ID,
		Channel:    string(o.Channel),
		Recipient:  o.Recipient,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Course:     lead.CourseInterestedIn,
		Subject:    o.Subject,
		Body:       o.Body,
	}
	if lead.DynamicPrice != nil {
		p.Price = *lead.DynamicPrice
	}
	return p
}

type OutreachRepositoryInterface interface {
	Create(ctx context.Context, o *Outreach) error
	UpdateStatus(ctx context.Context, id, status, errMsg string) error
	ListByLead(ctx context.Context, leadID string) ([]Outreach, error)
}
