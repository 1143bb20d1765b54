package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-insights/internal/entity"
)

type SendOutreachUseCase struct {
	Store CatalogStore
	Repo  entity.OutreachRepositoryInterface
	Queue QueueProducerInterface
	Log   logrus.FieldLogger
}

func NewSendOutreachUseCase(
	store CatalogStore,
	repo entity.OutreachRepositoryInterface,
	queue QueueProducerInterface,
	log logrus.FieldLogger,
) *SendOutreachUseCase {
	return &SendOutreachUseCase{
		Store: store,
		Repo:  repo,
		Queue: queue,
		Log:   log,
	}
}

// Execute queues the lead's draft for delivery. The channel defaults to the
// lead's preferred channel, then email. A body in the input replaces the
// stored draft.
func (uc *SendOutreachUseCase) Execute(ctx context.Context, input SendOutreachInput) (*SendOutreachOutput, error) {
	if errs := ValidateSendOutreachInput(input); len(errs) > 0 {
		return nil, errs
	}

	if uc.Repo == nil || uc.Queue == nil {
		return nil, &TechnicalError{
			Code:    CodeOutreachUnavailable,
			Message: "outreach delivery is not configured",
		}
	}

	lead, ok := entity.FindLead(uc.Store.Leads(), input.LeadID)
	if !ok {
		return nil, &DomainError{
			Code:    CodeLeadNotFound,
			Message: fmt.Sprintf("lead %s not found", input.LeadID),
		}
	}

	body := input.Body
	if body == "" {
		body = lead.DraftContent
	}
	if body == "" {
		return nil, &DomainError{
			Code:    CodeNoDraft,
			Message: fmt.Sprintf("lead %s has no draft message", lead.ID),
		}
	}

	channel := ResolveChannel(input.Channel, lead)
	subject := input.Subject
	if subject == "" && channel == entity.ChannelEmail {
		subject = fmt.Sprintf("Your %s enrollment", lead.CourseInterestedIn)
	}

	outreach, err := entity.NewOutreach(lead, channel, subject, body)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_OUTREACH", Message: err.Error()}
	}

	log := uc.Log.WithFields(logrus.Fields{
		"outreach_id": outreach.ID,
		"lead_id":     lead.ID,
		"channel":     channel,
	})

	tx := NewTransaction(log)
	tx.AddStep("persist outreach",
		func(ctx context.Context) error {
			if err := uc.Repo.Create(ctx, outreach); err != nil {
				return &TechnicalError{Code: CodePersistFailed, Message: "could not save outreach", Err: err}
			}
			return nil
		},
		func(ctx context.Context) error {
			outreach.Status = entity.OutreachFailed
			// the request may already be cancelled; the row must still leave QUEUED
			return uc.Repo.UpdateStatus(context.WithoutCancel(ctx), outreach.ID, entity.OutreachFailed, "queue publish failed")
		},
	)
	tx.AddStep("publish outreach",
		func(ctx context.Context) error {
			if err := uc.Queue.PublishOutreach(ctx, entity.NewOutreachPayload(outreach, lead)); err != nil {
				return &TechnicalError{Code: CodeDispatchFailed, Message: "could not queue outreach", Err: err}
			}
			return nil
		},
		nil,
	)

	if err := tx.Execute(ctx); err != nil {
		log.WithError(err).Error("outreach not queued")
		return nil, err
	}

	log.Info("outreach queued")
	return &SendOutreachOutput{
		ID:        outreach.ID,
		LeadID:    lead.ID,
		Channel:   outreach.Channel,
		Recipient: outreach.Recipient,
		Status:    outreach.Status,
	}, nil
}

// ResolveChannel picks the requested channel when valid, then the lead's
// preferred channel, then email.
func ResolveChannel(requested string, lead entity.Lead) entity.Channel {
	if c := entity.Channel(requested); c.Valid() {
		return c
	}
	if lead.PreferredChannel.Valid() {
		return lead.PreferredChannel
	}
	return entity.ChannelEmail
}
